package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// PostProcessor processes document content to produce passages.
// PostProcessors are chained in a pipeline.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns passages.
	// A processor that creates passages (the chunker) receives nil.
	Process(ctx context.Context, doc *domain.Document, passages []domain.Passage) ([]domain.Passage, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Passage, error)
}
