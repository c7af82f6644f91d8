package mcp

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   domain.Answer
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) domain.Answer {
	m.question = question
	return m.answer
}

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	result     *domain.SyncResult
	err        error
	trigger    string
	runs       []domain.SyncRun
	historyErr error
	limit      int
}

func (m *mockSyncOrchestrator) Sync(_ context.Context, trigger string) (*domain.SyncResult, error) {
	m.trigger = trigger
	return m.result, m.err
}

func (m *mockSyncOrchestrator) Status() domain.SyncStatus {
	return domain.SyncStatus{}
}

func (m *mockSyncOrchestrator) History(_ context.Context, limit int) ([]domain.SyncRun, error) {
	m.limit = limit
	return m.runs, m.historyErr
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status *domain.EngineStatus
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.EngineStatus, error) {
	return m.status, m.err
}
