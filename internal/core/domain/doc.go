// Package domain defines the core business entities for the notice agent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes discovered in the data directory
//   - Document: Normalised text with its provenance (source type and origin)
//   - Passage: A bounded, overlapping span of a document's text
//   - IndexEntry: A passage paired with its embedding vector
//   - RetrievalHit: A ranked passage returned for a query
//   - Answer: The synthesised reply to a question
//
// # Truth Hierarchy
//
// Every passage carries the SourceType of the document it came from.
// Dynamic updates override official notices when they conflict. The
// priority is expressed to the completion service through labelled
// context; nothing in this package suppresses passages.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
