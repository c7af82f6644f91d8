package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

type stubNormaliser struct {
	name     string
	types    []string
	priority int
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.types }
func (s *stubNormaliser) Priority() int                { return s.priority }
func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Document: domain.Document{Origin: raw.Origin, Title: s.name}}, nil
}

func TestRegistry_SelectsHighestPriority(t *testing.T) {
	r := NewRegistry(
		&stubNormaliser{name: "fallback", types: []string{"text/plain", "text/markdown"}, priority: 5},
		&stubNormaliser{name: "markdown", types: []string{"text/markdown"}, priority: 50},
	)

	result, err := r.Normalise(context.Background(), &domain.RawDocument{Origin: "a.md", MIMEType: "text/markdown"})
	require.NoError(t, err)
	assert.Equal(t, "markdown", result.Document.Title)

	result, err = r.Normalise(context.Background(), &domain.RawDocument{Origin: "a.txt", MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Document.Title)
}

func TestRegistry_UnsupportedType(t *testing.T) {
	r := NewRegistry(&stubNormaliser{types: []string{"text/plain"}, priority: 5})

	_, err := r.Normalise(context.Background(), &domain.RawDocument{Origin: "a.docx", MIMEType: "application/msword"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_NilDocument(t *testing.T) {
	_, err := NewRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := NewRegistry(
		&stubNormaliser{types: []string{"text/plain", "text/markdown"}, priority: 5},
		&stubNormaliser{types: []string{"text/markdown", "application/pdf"}, priority: 50},
	)

	assert.Equal(t, []string{"application/pdf", "text/markdown", "text/plain"}, r.SupportedMIMETypes())
}
