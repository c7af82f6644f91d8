package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// AIConfigValidator checks AI provider settings by contacting the provider.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by settings.
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error

	// ValidateLLM pings the completion provider described by settings.
	ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error
}
