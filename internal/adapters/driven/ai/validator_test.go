package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

func TestConfigValidator_ValidateEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"all-minilm:latest"}]}`))
	}))
	defer server.Close()

	v := NewConfigValidator()

	err := v.ValidateEmbedding(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "all-minilm",
		BaseURL:  server.URL,
	})
	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	v := NewConfigValidator()

	err := v.ValidateEmbedding(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "all-minilm",
		BaseURL:  server.URL,
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestConfigValidator_ValidateLLM_MissingKey(t *testing.T) {
	v := NewConfigValidator()

	err := v.ValidateLLM(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderGroq,
		Model:    "llama-3.3-70b-versatile",
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}
