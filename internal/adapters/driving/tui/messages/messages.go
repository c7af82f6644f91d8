// Package messages defines Bubbletea message types for the TUI.
// Messages carry the results of background work back to the model.
package messages

import (
	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// AnswerReceived carries the reply to a question.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
}

// SyncCompleted is sent when a sync started from the TUI finishes.
type SyncCompleted struct {
	Result *domain.SyncResult
	Err    error
}

// StatusLoaded carries a fresh engine status.
type StatusLoaded struct {
	Status *domain.EngineStatus
	Err    error
}
