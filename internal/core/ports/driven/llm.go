package driven

import "context"

// LLMService writes the final answer from the assembled prompt. Groq and
// other OpenAI-compatible APIs, Anthropic and Ollama each have an adapter.
type LLMService interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ModelName() string

	// Ping issues the cheapest request that proves the model answers.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens caps the reply length. Zero leaves it to the provider.
	MaxTokens int

	// Temperature controls randomness. Nil leaves it to the provider;
	// a pointer to 0 requests deterministic output and is always sent.
	Temperature *float64

	// StopWords end generation when produced.
	StopWords []string
}

// Float64 returns a pointer to v, for GenerateOptions.Temperature.
func Float64(v float64) *float64 {
	return &v
}
