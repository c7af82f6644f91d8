package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

type datum struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// reversedServer answers with embeddings in reverse index order, each
// vector encoding the input's position within its request.
func reversedServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req embedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var data []datum
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, datum{Embedding: []float64{float64(len(req.Input[i])), 0}, Index: i})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewEmbeddingService_RequiresKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_Dimensions(t *testing.T) {
	s, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, 1536, s.Dimensions())

	s, err = NewEmbeddingService(Config{APIKey: "k", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, s.Dimensions())
}

func TestEmbedBatch_OrdersByIndexAcrossRequests(t *testing.T) {
	var requests atomic.Int32
	srv := reversedServer(t, &requests)

	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "custom", Dimensions: 2, MaxBatchSize: 2})
	require.NoError(t, err)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := s.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))

	for i, text := range texts {
		assert.Equal(t, float32(len(text)), vectors[i][0])
	}
	assert.Equal(t, int32(3), requests.Load())
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	var requests atomic.Int32
	srv := reversedServer(t, &requests)

	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "custom", Dimensions: 8})
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestEmbed_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	}))
	defer srv.Close()

	s, err := NewEmbeddingService(Config{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedBatch_CancelledContext(t *testing.T) {
	var requests atomic.Int32
	srv := reversedServer(t, &requests)

	s, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: srv.URL, Dimensions: 2, RequestsPerSecond: 0.001})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.EmbedBatch(ctx, []string{"a"})
	assert.Error(t, err)
	assert.Zero(t, requests.Load())
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	good, _ := NewEmbeddingService(Config{APIKey: "good", BaseURL: srv.URL})
	bad, _ := NewEmbeddingService(Config{APIKey: "bad", BaseURL: srv.URL})

	assert.NoError(t, good.Ping(context.Background()))
	assert.Error(t, bad.Ping(context.Background()))
}
