package domain

// RawDocument represents opaque bytes discovered by a document source.
// It is the source's output before normalisation.
type RawDocument struct {
	// Origin is the original location (file path).
	Origin string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// SourceType is assigned from the file kind at discovery time.
	SourceType SourceType

	// Content is the raw bytes.
	Content []byte

	// Metadata contains source-specific key-value pairs.
	Metadata map[string]any
}

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns the change name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// RawDocumentChange represents a change event from a watched source.
// Any change triggers a full re-sync; the event only says that one
// is due.
type RawDocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Document is the affected document. Content is empty for deletions.
	Document RawDocument
}
