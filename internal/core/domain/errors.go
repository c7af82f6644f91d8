package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file kind or backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Ingestion Errors.

	// ErrNoDocumentsFound indicates the data directory yielded no usable text.
	// The existing index is left untouched.
	ErrNoDocumentsFound = errors.New("no documents found")

	// ErrIndexBuildFailed indicates the new index content could not be built
	// or persisted. The previous content remains active.
	ErrIndexBuildFailed = errors.New("index build failed")

	// Retrieval Errors.

	// ErrNoContext indicates no index is available to retrieve from.
	ErrNoContext = errors.New("no context available")

	// ErrDimensionMismatch indicates a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// AI Service Errors.

	// ErrEmbeddingUnavailable indicates the embedding service cannot be reached.
	// This is fatal at startup.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the completion service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrCompletionService indicates the completion call failed.
	ErrCompletionService = errors.New("completion service error")

	// ErrAnswerTimeout indicates the completion call exceeded its deadline.
	ErrAnswerTimeout = errors.New("answer timed out")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
