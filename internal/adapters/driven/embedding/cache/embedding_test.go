package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls      int
	batchCalls int
	err        error
	closed     bool
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (e *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (e *countingEmbedder) Dimensions() int              { return 2 }
func (e *countingEmbedder) ModelName() string            { return "counting" }
func (e *countingEmbedder) Ping(_ context.Context) error { return nil }
func (e *countingEmbedder) Close() error                 { e.closed = true; return nil }

func TestEmbed_MemoisesIdenticalText(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, 0)

	first, err := s.Embed(context.Background(), "exam schedule")
	require.NoError(t, err)
	second, err := s.Embed(context.Background(), "exam schedule")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, s.cache.ItemCount())
}

func TestEmbed_CallerMutationDoesNotLeak(t *testing.T) {
	s := New(&countingEmbedder{}, 0)

	v, err := s.Embed(context.Background(), "abc")
	require.NoError(t, err)
	v[0] = 99

	again, err := s.Embed(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, float32(3), again[0])
}

func TestEmbed_ErrorsAreNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("connection refused")}
	s := New(inner, 0)

	_, err := s.Embed(context.Background(), "q")
	assert.Error(t, err)
	_, err = s.Embed(context.Background(), "q")
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Zero(t, s.cache.ItemCount())
}

func TestEmbedBatch_Delegates(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, 0)

	out, err := s.EmbedBatch(context.Background(), []string{"a", "bb"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 1, inner.batchCalls)
	assert.Zero(t, s.cache.ItemCount())
}

func TestClose_DropsCacheAndClosesWrapped(t *testing.T) {
	inner := &countingEmbedder{}
	s := New(inner, 0)
	_, _ = s.Embed(context.Background(), "x")
	require.Equal(t, 1, s.cache.ItemCount())

	require.NoError(t, s.Close())
	assert.Zero(t, s.cache.ItemCount())
	assert.True(t, inner.closed)
	assert.Equal(t, "counting", s.ModelName())
	assert.Equal(t, 2, s.Dimensions())
}
