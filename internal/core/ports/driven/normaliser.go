package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// Normaliser extracts the text of one file format: PDF notices, plain
// text updates or markdown updates.
type Normaliser interface {
	SupportedMIMETypes() []string

	// Priority breaks ties between normalisers of one MIME type. Format
	// specific normalisers use 50 to 89, catch-alls 1 to 9.
	Priority() int

	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult carries the extracted document. Splitting into
// passages happens later, in the post-processor pipeline.
type NormaliseResult struct {
	Document domain.Document
}
