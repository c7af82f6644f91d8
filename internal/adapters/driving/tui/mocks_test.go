package tui

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

type mockAnswerService struct {
	answer    domain.Answer
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) domain.Answer {
	m.questions = append(m.questions, question)
	return m.answer
}

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

type mockStatusService struct {
	status *domain.EngineStatus
}

func (m *mockStatusService) Status(_ context.Context) (*domain.EngineStatus, error) {
	return m.status, nil
}
