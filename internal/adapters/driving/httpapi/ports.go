package httpapi

import (
	"errors"

	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
)

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("httpapi: answer service is required")

// Ports aggregates the driving ports used by the HTTP server.
type Ports struct {
	// Answer answers chat questions.
	Answer driving.AnswerService

	// Sync rebuilds the index. Optional; /sync reports an error without it.
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
