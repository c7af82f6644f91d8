package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

func startScheduler(t *testing.T, s *Scheduler) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	return func() {
		require.NoError(t, s.Stop())
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop")
		}
	}
}

func TestScheduler_Start_Disabled(t *testing.T) {
	orch := &mockSyncOrchestrator{}
	s := NewScheduler(domain.SchedulerConfig{Enabled: false}, nil, orch, nil)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("disabled scheduler should return immediately")
	}
	assert.Empty(t, orch.triggers)
}

func TestScheduler_IntervalSync(t *testing.T) {
	store := newMockSchedulerStore()
	orch := &mockSyncOrchestrator{}
	cfg := domain.SchedulerConfig{Enabled: true, SyncInterval: 20 * time.Millisecond}
	s := NewScheduler(cfg, store, orch, nil)

	stop := startScheduler(t, s)
	require.Eventually(t, func() bool {
		return orch.syncCount(domain.TriggerSchedule) >= 2
	}, 2*time.Second, 5*time.Millisecond)
	stop()

	task, err := store.GetTask(context.Background(), domain.TaskIDScheduledSync)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, cfg.SyncInterval, task.Interval)
	assert.True(t, task.Enabled)
	assert.False(t, task.LastSuccess.IsZero())
	assert.Empty(t, task.LastError)
	assert.GreaterOrEqual(t, store.resultCount(domain.TaskIDScheduledSync), 2)

	history, err := store.GetTaskHistory(context.Background(), domain.TaskIDScheduledSync, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, 3, history[0].ItemsProcessed)
}

func TestScheduler_IntervalSync_RecordsFailure(t *testing.T) {
	store := newMockSchedulerStore()
	orch := &mockSyncOrchestrator{err: domain.ErrNoDocumentsFound}
	s := NewScheduler(domain.SchedulerConfig{Enabled: true, SyncInterval: 20 * time.Millisecond}, store, orch, nil)

	stop := startScheduler(t, s)
	require.Eventually(t, func() bool {
		return store.resultCount(domain.TaskIDScheduledSync) >= 1
	}, 2*time.Second, 5*time.Millisecond)
	stop()

	task, err := store.GetTask(context.Background(), domain.TaskIDScheduledSync)
	require.NoError(t, err)
	assert.Contains(t, task.LastError, "no documents found")
	assert.True(t, task.LastSuccess.IsZero())
}

func TestScheduler_ResumesPersistedSchedule(t *testing.T) {
	store := newMockSchedulerStore()
	require.NoError(t, store.SaveTask(context.Background(), &domain.ScheduledTask{
		ID:       domain.TaskIDScheduledSync,
		Name:     "Scheduled Sync",
		Interval: 20 * time.Millisecond,
		NextRun:  time.Now().Add(time.Hour),
		Enabled:  true,
	}))
	orch := &mockSyncOrchestrator{}
	s := NewScheduler(domain.SchedulerConfig{Enabled: true, SyncInterval: 20 * time.Millisecond}, store, orch, nil)

	stop := startScheduler(t, s)
	time.Sleep(100 * time.Millisecond)
	stop()

	assert.Equal(t, 0, orch.syncCount(domain.TriggerSchedule), "next run is an hour away")
}

func TestScheduler_WatchSync_Debounced(t *testing.T) {
	changes := make(chan domain.RawDocumentChange)
	watcher := &mockConnector{changes: changes}
	orch := &mockSyncOrchestrator{}
	cfg := domain.SchedulerConfig{Enabled: true, Watch: true, Debounce: 50 * time.Millisecond}
	s := NewScheduler(cfg, newMockSchedulerStore(), orch, watcher)

	stop := startScheduler(t, s)
	defer stop()

	for i := 0; i < 5; i++ {
		changes <- domain.RawDocumentChange{
			Type:     domain.ChangeUpdated,
			Document: domain.RawDocument{Origin: "data/update.txt"},
		}
	}

	require.Eventually(t, func() bool {
		return orch.syncCount(domain.TriggerWatch) == 1
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, orch.syncCount(domain.TriggerWatch), "a burst of changes triggers one sync")
	assert.Equal(t, 0, orch.syncCount(domain.TriggerSchedule))
}

func TestScheduler_WatchUnavailable(t *testing.T) {
	watcher := &mockConnector{watchErr: errors.New("too many open files")}
	orch := &mockSyncOrchestrator{}
	s := NewScheduler(domain.SchedulerConfig{Enabled: true, Watch: true}, nil, orch, watcher)

	stop := startScheduler(t, s)
	time.Sleep(20 * time.Millisecond)
	stop()

	assert.Empty(t, orch.triggers)
}

func TestScheduler_SkipsWhenSyncInProgress(t *testing.T) {
	store := newMockSchedulerStore()
	orch := &mockSyncOrchestrator{err: domain.ErrSyncInProgress}
	s := NewScheduler(domain.SchedulerConfig{Enabled: true, SyncInterval: 20 * time.Millisecond}, store, orch, nil)

	stop := startScheduler(t, s)
	require.Eventually(t, func() bool {
		return orch.syncCount(domain.TriggerSchedule) >= 1
	}, 2*time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, 0, store.resultCount(domain.TaskIDScheduledSync))
}

func TestScheduler_StopIdempotent(t *testing.T) {
	s := NewScheduler(domain.SchedulerConfig{Enabled: true, SyncInterval: time.Hour}, nil, &mockSyncOrchestrator{}, nil)

	assert.NoError(t, s.Stop())

	stop := startScheduler(t, s)
	time.Sleep(10 * time.Millisecond)
	stop()
	assert.NoError(t, s.Stop())
}

func TestScheduler_CheckInterval(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     time.Duration
	}{
		{0, time.Minute},
		{10 * time.Second, 10 * time.Second},
		{time.Hour, time.Minute},
	}
	for _, tt := range tests {
		s := NewScheduler(domain.SchedulerConfig{SyncInterval: tt.interval}, nil, nil, nil)
		assert.Equal(t, tt.want, s.checkInterval())
	}
}
