package services

import (
	"context"
	"fmt"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService reports the engine, index and sync state.
type StatusService struct {
	engine   string
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	syncOrch driving.SyncOrchestrator
}

// NewStatusService creates a status service. engine describes the
// completion service, e.g. "Groq (llama-3.3-70b-versatile)".
func NewStatusService(
	engine string,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	syncOrch driving.SyncOrchestrator,
) *StatusService {
	return &StatusService{
		engine:   engine,
		embedder: embedder,
		index:    index,
		syncOrch: syncOrch,
	}
}

// Status describes the running system.
func (s *StatusService) Status(ctx context.Context) (*domain.EngineStatus, error) {
	status := &domain.EngineStatus{Engine: s.engine}

	if s.embedder != nil {
		status.EmbeddingModel = s.embedder.ModelName()
	}
	if s.index != nil {
		info, err := s.index.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("index info: %w", err)
		}
		status.Index = info
	}
	if s.syncOrch != nil {
		status.Sync = s.syncOrch.Status()
	}

	return status, nil
}
