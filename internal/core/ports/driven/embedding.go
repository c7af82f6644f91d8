package driven

import "context"

// EmbeddingService turns passages and questions into vectors. The same
// model must embed both, or retrieval scores are meaningless.
// Adapters exist for Ollama and for OpenAI-compatible endpoints.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	Dimensions() int
	ModelName() string

	// Ping issues the cheapest request that proves the model answers.
	Ping(ctx context.Context) error

	Close() error
}
