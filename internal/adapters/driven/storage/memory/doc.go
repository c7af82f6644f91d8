// Package memory provides the in-memory vector index.
//
// The index holds an immutable snapshot behind an atomic pointer. Rebuild
// prepares a complete new snapshot, optionally persists it through a
// driven.IndexSnapshotStore, and only then swaps it in, so concurrent
// searches see either the previous or the new content in full.
package memory
