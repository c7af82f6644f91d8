// Package ollama embeds text with a locally served Ollama model.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusnotice/noticeagent/internal/adapters/driven/transport"
	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults for a local Ollama server.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "all-minilm"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 384
)

// Config configures the service. Zero values take the defaults above,
// which match all-minilm.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService sends whole batches to /api/embed in one request.
type EmbeddingService struct {
	api        *transport.Client
	model      string
	dimensions int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService creates a service from cfg, filling in defaults.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		api:        transport.New("ollama", cfg.BaseURL, cfg.Timeout, nil),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// Embed embeds a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request and checks every vector's size.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := s.api.PostJSON(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama: sent %d inputs, got %d embeddings", len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(texts))
	for i, values := range resp.Embeddings {
		if len(values) != s.dimensions {
			return nil, fmt.Errorf("ollama: embedding %d has %d dimensions, want %d: %w",
				i, len(values), s.dimensions, domain.ErrDimensionMismatch)
		}
		vectors[i] = make([]float32, len(values))
		for j, v := range values {
			vectors[i][j] = float32(v)
		}
	}
	return vectors, nil
}

// Dimensions returns the configured vector size.
func (s *EmbeddingService) Dimensions() int { return s.dimensions }

// ModelName returns the model tag.
func (s *EmbeddingService) ModelName() string { return s.model }

// Ping checks that the server answers and the model has been pulled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	body, err := s.api.GetBody(ctx, "/api/tags")
	if err != nil {
		return fmt.Errorf("ollama: ping: %w", err)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &tags); err != nil {
		return fmt.Errorf("ollama: decode tags: %w", err)
	}
	for _, m := range tags.Models {
		if m.Name == s.model || m.Name == s.model+":latest" {
			return nil
		}
	}
	return fmt.Errorf("ollama: model %q not found, run 'ollama pull %s'", s.model, s.model)
}

// Close is a no-op; the HTTP client holds no resources.
func (s *EmbeddingService) Close() error { return nil }
