package domain

import "strings"

// SourceType classifies a document's provenance.
type SourceType string

const (
	// SourceTypeOfficialNotice is a formal notice (PDF circular).
	SourceTypeOfficialNotice SourceType = "official_notice"

	// SourceTypeDynamicUpdate is an informal text update. It takes
	// precedence over official notices when they conflict.
	SourceTypeDynamicUpdate SourceType = "dynamic_update"
)

// IsValid returns true if the source type is recognised.
func (s SourceType) IsValid() bool {
	return s == SourceTypeOfficialNotice || s == SourceTypeDynamicUpdate
}

// Label returns the upper-case label used when rendering context.
func (s SourceType) Label() string {
	return strings.ToUpper(string(s))
}

// String returns the string representation.
func (s SourceType) String() string {
	return string(s)
}

// SourceTypeForExtension maps a file extension (with or without the dot)
// to a source type. PDFs are official notices; plain text and markdown
// files are dynamic updates.
func SourceTypeForExtension(ext string) (SourceType, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "pdf":
		return SourceTypeOfficialNotice, true
	case "txt", "md", "markdown":
		return SourceTypeDynamicUpdate, true
	default:
		return "", false
	}
}

// Document is the normalised text of one source file.
// It is immutable once read and discarded after chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Origin is the location the document was read from (file path).
	Origin string

	// SourceType is the document's provenance.
	SourceType SourceType

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// IsEmpty reports whether the document has no usable text.
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.Content) == ""
}

// Passage is a contiguous span of a document's text used as the unit
// of retrieval. Start and End are rune offsets into the document
// content, End exclusive.
type Passage struct {
	// ID is deterministic for a given origin and position.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Origin is copied from the parent document.
	Origin string

	// SourceType is copied from the parent document.
	SourceType SourceType

	// Content is the passage text.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// Start is the rune offset of the first character.
	Start int

	// End is the rune offset one past the last character.
	End int
}

// Len returns the passage length in runes.
func (p Passage) Len() int {
	return p.End - p.Start
}
