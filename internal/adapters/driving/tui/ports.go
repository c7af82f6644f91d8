// Package tui provides an interactive terminal chat for asking questions
// about campus notices. It implements a driving adapter following
// hexagonal architecture principles.
package tui

import (
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions.
	Answer driving.AnswerService

	// Sync rebuilds the index. Optional; ctrl+s is disabled without it.
	Sync driving.SyncOrchestrator

	// Status reports engine and index state. Optional.
	Status driving.StatusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
