package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// Connector discovers raw documents in a document source.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// Validate checks the source is reachable and readable.
	Validate(ctx context.Context) error

	// FullSync streams every supported document in the source.
	// The document channel is closed when discovery ends; per-file
	// failures are reported on the error channel and do not stop
	// discovery.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch streams change events until ctx is cancelled.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}
