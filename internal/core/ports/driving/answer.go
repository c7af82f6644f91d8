package driving

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// AnswerService answers questions about campus notices.
type AnswerService interface {
	// Answer always returns displayable text; failures are reported
	// through the outcome rather than an error.
	Answer(ctx context.Context, question string) domain.Answer
}

// StatusService reports on the running system.
type StatusService interface {
	// Status describes the engine, index and sync state.
	Status(ctx context.Context) (*domain.EngineStatus, error)
}
