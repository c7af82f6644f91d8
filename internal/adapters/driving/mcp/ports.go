package mcp

import (
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
)

// Ports are the core services the MCP tools call. Answer is required.
// Without Sync the sync tool fails; without Status the status tool only
// reports that the server is online.
type Ports struct {
	Answer driving.AnswerService
	Sync   driving.SyncOrchestrator
	Status driving.StatusService
}

// Validate reports ErrMissingAnswerService when Answer is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
