package domain

// AnswerOutcome classifies how an answer was produced.
type AnswerOutcome string

const (
	// OutcomeAnswered means the completion service produced the text.
	OutcomeAnswered AnswerOutcome = "answered"

	// OutcomeNoContext means no index was available.
	OutcomeNoContext AnswerOutcome = "no_context"

	// OutcomeInvalid means the question was empty.
	OutcomeInvalid AnswerOutcome = "invalid"

	// OutcomeError means the completion service failed.
	OutcomeError AnswerOutcome = "error"
)

// Answer is the reply to a question. Text is always safe to show to
// the user, including on failure.
type Answer struct {
	// Text is the reply.
	Text string

	// Outcome classifies the reply.
	Outcome AnswerOutcome

	// Sources are the passages the context was assembled from.
	Sources []Passage

	// Err is the underlying error for OutcomeError and OutcomeNoContext.
	Err error
}

// EngineStatus describes the running system.
type EngineStatus struct {
	// Engine is the completion service description, e.g. "Groq (llama-3.3-70b-versatile)".
	Engine string

	// EmbeddingModel is the embedding model in use.
	EmbeddingModel string

	// Index describes the vector index content.
	Index IndexInfo

	// Sync is the current ingestion status.
	Sync SyncStatus
}

// Indexed reports whether there is anything to retrieve from.
func (s EngineStatus) Indexed() bool {
	return s.Index.Entries > 0
}
