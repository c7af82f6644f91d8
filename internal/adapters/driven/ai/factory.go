// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/campusnotice/noticeagent/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/campusnotice/noticeagent/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/campusnotice/noticeagent/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/campusnotice/noticeagent/internal/adapters/driven/llm/ollama"
	openaillm "github.com/campusnotice/noticeagent/internal/adapters/driven/llm/openai"
	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// PingTimeout is the maximum time to wait for service connectivity validation.
const PingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates the embedding service and pings it.
// Any failure wraps domain.ErrEmbeddingUnavailable; callers treat it as fatal.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig creates an LLM service from settings and pings it.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("embedding provider not configured")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("openai embeddings need an API key (set OPENAI_API_KEY)")
		}
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic, domain.AIProviderGroq:
		return nil, fmt.Errorf("%s does not support embeddings, use ollama or openai", settings.Provider)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", settings.Provider)
	}
}

// CreateLLMService creates the completion service selected by settings.
// An unconfigured provider wraps domain.ErrLLMUnavailable.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unsupported LLM provider", domain.ErrLLMUnavailable)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s needs an API key (set %s)",
			domain.ErrLLMUnavailable, settings.Provider.DisplayName(), settings.Provider.APIKeyEnv())
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI, domain.AIProviderGroq:
		return createOpenAICompatibleLLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", domain.ErrLLMUnavailable, settings.Provider)
	}
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// openAIEmbedRequestsPerSecond keeps large syncs under the default
// per-minute request quota of hosted embedding APIs.
const openAIEmbedRequestsPerSecond = 8

func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:       settings.APIKey,
		BaseURL:      settings.BaseURL,
		Model:        settings.Model,
		Dimensions:   dimensions,
		MaxBatchSize: settings.BatchSize,

		RequestsPerSecond: openAIEmbedRequestsPerSecond,
	})
}

func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createOpenAICompatibleLLM serves OpenAI and Groq; they share the
// /chat/completions wire format and differ only in base URL.
func createOpenAICompatibleLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = settings.Provider.DefaultBaseURL()
	}
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: baseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
		Name:    string(settings.Provider),
	})
}

func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}
