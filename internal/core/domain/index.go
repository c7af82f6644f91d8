package domain

// IndexEntry pairs a passage with its embedding vector.
type IndexEntry struct {
	Vector  []float32
	Passage Passage
}

// RetrievalHit is one ranked result of a similarity search.
type RetrievalHit struct {
	// Passage is the matched passage.
	Passage Passage

	// Score is the cosine similarity, higher is more similar.
	Score float64

	// Rank is the zero-based position in the result list.
	Rank int
}

// AssembledContext is the rendered context block for a query together
// with the hits it was built from.
type AssembledContext struct {
	// Text is the rendered context.
	Text string

	// Hits are the ranked hits in render order.
	Hits []RetrievalHit
}

// IndexInfo describes the content currently held by a vector index.
type IndexInfo struct {
	// Backend names the index implementation (memory, pgvector).
	Backend string

	// Entries is the number of passages indexed.
	Entries int

	// Dimensions is the vector size, zero when empty.
	Dimensions int
}
