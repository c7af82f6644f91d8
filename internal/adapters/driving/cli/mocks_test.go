package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
)

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	mu         sync.Mutex
	result     *domain.SyncResult
	err        error
	triggers   []string
	runs       []domain.SyncRun
	historyErr error
	limit      int
}

func (m *mockSyncOrchestrator) Sync(_ context.Context, trigger string) (*domain.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, trigger)
	return m.result, m.err
}

func (m *mockSyncOrchestrator) Status() domain.SyncStatus {
	return domain.SyncStatus{}
}

func (m *mockSyncOrchestrator) History(_ context.Context, limit int) ([]domain.SyncRun, error) {
	m.limit = limit
	return m.runs, m.historyErr
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   domain.Answer
	question string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) domain.Answer {
	m.question = question
	return m.answer
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status *domain.EngineStatus
	err    error
}

func (m *mockStatusService) Status(_ context.Context) (*domain.EngineStatus, error) {
	return m.status, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	values      map[string]string
	entries     []driving.SettingEntry
	getErr      error
	setErr      error
	embedErr    error
	llmErr      error
	validations []string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{values: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := domain.DefaultAppSettings(2026)
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Entries() []driving.SettingEntry {
	return m.entries
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings(2026)
}

func (m *mockSettingsService) ValidateEmbeddingConfig(_ context.Context) error {
	m.validations = append(m.validations, "embedding")
	return m.embedErr
}

func (m *mockSettingsService) ValidateLLMConfig(_ context.Context) error {
	m.validations = append(m.validations, "llm")
	return m.llmErr
}

// mockScheduler is a mock implementation of driving.Scheduler.
type mockScheduler struct {
	mu      sync.Mutex
	started bool
	stopped bool
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockScheduler) wasStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// useServices installs services for one test and clears them afterwards.
func useServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(&Services{}) })
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	askSources = false
	statusJSON = false
	historyLimit = 10
	serveAddr = ""

	originalIsTerminal := isTerminal
	isTerminal = func(int) bool { return false }

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		isTerminal = originalIsTerminal
	})

	err := executeWithContext(context.Background())
	return buf.String(), err
}

// executeWithContext runs rootCmd under ctx. Cobra keeps a subcommand's
// context from an earlier Execute, so every command is reset to ctx first.
func executeWithContext(ctx context.Context) error {
	setCommandContext(rootCmd, ctx)
	return rootCmd.ExecuteContext(ctx)
}

func setCommandContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setCommandContext(sub, ctx)
	}
}
