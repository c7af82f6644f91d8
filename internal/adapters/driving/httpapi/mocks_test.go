package httpapi

import (
	"context"
	"sync"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// mockAnswerService implements driving.AnswerService.
type mockAnswerService struct {
	mu        sync.Mutex
	answer    domain.Answer
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) domain.Answer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.questions = append(m.questions, question)
	return m.answer
}

// mockSyncOrchestrator implements driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	result   *domain.SyncResult
	err      error
	triggers []string
}

func (m *mockSyncOrchestrator) Sync(_ context.Context, trigger string) (*domain.SyncResult, error) {
	m.triggers = append(m.triggers, trigger)
	return m.result, m.err
}

func (m *mockSyncOrchestrator) Status() domain.SyncStatus { return domain.SyncStatus{} }

func (m *mockSyncOrchestrator) History(_ context.Context, _ int) ([]domain.SyncRun, error) {
	return nil, nil
}

// mockStatusService implements driving.StatusService.
type mockStatusService struct {
	status *domain.EngineStatus
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.EngineStatus, error) {
	return m.status, m.err
}
