// Package openai embeds text through the OpenAI embeddings API or any
// endpoint that speaks it.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/campusnotice/noticeagent/internal/adapters/driven/transport"
	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults for the hosted OpenAI API.
const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultModel        = "text-embedding-3-small"
	DefaultTimeout      = 60 * time.Second
	DefaultMaxBatchSize = 256

	fallbackDimensions = 1536
)

// knownDimensions lists the native output size of OpenAI's models.
var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config configures the service. Only APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions overrides the model's native size. It is sent to the
	// API only for text-embedding-3 models, which can shorten vectors.
	Dimensions int

	// MaxBatchSize caps inputs per request.
	MaxBatchSize int

	// RequestsPerSecond paces requests. Zero means unlimited.
	RequestsPerSecond float64
}

// EmbeddingService splits large batches into requests of at most
// MaxBatchSize inputs, paced by a token bucket.
type EmbeddingService struct {
	api        *transport.Client
	model      string
	dimensions int
	batchSize  int
	limiter    *rate.Limiter
}

type embedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewEmbeddingService creates a service from cfg. It fails without an API key.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	cfg.BaseURL = cmpOr(cfg.BaseURL, DefaultBaseURL)
	cfg.Model = cmpOr(cfg.Model, DefaultModel)
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = knownDimensions[cfg.Model]
	}
	if dims == 0 {
		dims = fallbackDimensions
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	return &EmbeddingService{
		api:        transport.New("openai", cfg.BaseURL, cfg.Timeout, header),
		model:      cfg.Model,
		dimensions: dims,
		batchSize:  cfg.MaxBatchSize,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// Embed embeds a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in order, one rate-limited request per batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for len(texts) > 0 {
		n := min(s.batchSize, len(texts))
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("openai: rate limit wait: %w", err)
		}
		vectors, err := s.request(ctx, texts[:n])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
		texts = texts[n:]
	}
	return out, nil
}

// request embeds one batch. The API may return items out of order, so
// they are placed by their index field.
func (s *EmbeddingService) request(ctx context.Context, texts []string) ([][]float32, error) {
	in := embedRequest{Model: s.model, Input: texts}
	if strings.HasPrefix(s.model, "text-embedding-3-") {
		in.Dimensions = s.dimensions
	}

	var resp embedResponse
	if err := s.api.PostJSON(ctx, "/embeddings", in, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: sent %d inputs, got %d embeddings", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", item.Index)
		}
		if len(item.Embedding) != s.dimensions {
			return nil, fmt.Errorf("openai: got %d dimensions, want %d: %w",
				len(item.Embedding), s.dimensions, domain.ErrDimensionMismatch)
		}
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		vectors[item.Index] = vec
	}
	return vectors, nil
}

// Dimensions returns the configured or native vector size.
func (s *EmbeddingService) Dimensions() int { return s.dimensions }

// ModelName returns the model ID.
func (s *EmbeddingService) ModelName() string { return s.model }

// Ping lists models, which fails fast on a bad key.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.api.Get(ctx, "/models"); err != nil {
		return fmt.Errorf("openai: ping: %w", err)
	}
	return nil
}

// Close is a no-op; the HTTP client holds no resources.
func (s *EmbeddingService) Close() error { return nil }

func cmpOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
