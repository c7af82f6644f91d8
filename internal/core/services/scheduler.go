package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// maxCheckInterval is the longest wait between due-task checks.
const maxCheckInterval = time.Minute

// taskHistoryKeep is how many results are kept per task.
const taskHistoryKeep = 100

// Scheduler runs background syncs on an interval and, optionally, when
// the data directory changes. It is a pure core service with no external
// control API.
type Scheduler struct {
	config   domain.SchedulerConfig
	store    driven.SchedulerStore
	syncOrch driving.SyncOrchestrator
	watcher  driven.Connector

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup

	// tasks is guarded by mu.
	tasks map[string]*domain.ScheduledTask
}

// NewScheduler creates a scheduler with configuration.
// store and watcher may be nil; without a watcher, watch mode is disabled.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	syncOrch driving.SyncOrchestrator,
	watcher driven.Connector,
) *Scheduler {
	if config.Debounce <= 0 {
		config.Debounce = domain.DefaultWatchDebounce
	}
	return &Scheduler{
		config:   config,
		store:    store,
		syncOrch: syncOrch,
		watcher:  watcher,
		tasks:    make(map[string]*domain.ScheduledTask),
	}
}

// Start begins the scheduler loop. It blocks until Stop is called or
// ctx is cancelled, and returns immediately when the scheduler is disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled || s.syncOrch == nil {
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	stopCh, done := s.stopCh, s.done
	s.mu.Unlock()
	defer close(done)

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
	}

	var changes <-chan domain.RawDocumentChange
	if s.config.Watch && s.watcher != nil {
		ch, err := s.watcher.Watch(ctx)
		if err != nil {
			logger.Warn("scheduler: watch disabled: %v", err)
		} else {
			changes = ch
			logger.Info("Watching data directory for changes")
		}
	}

	return s.run(ctx, stopCh, changes)
}

// Stop gracefully shuts down the scheduler and waits for running syncs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	// The loop must exit before waiting, so no new task is started.
	<-done
	s.wg.Wait()
	return nil
}

// initialiseTasks loads or creates the task records. A persisted NextRun
// is kept so a restart does not sync immediately.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	var errs []error
	if s.config.SyncInterval > 0 {
		if err := s.ensureTask(ctx, domain.TaskIDScheduledSync, "Scheduled Sync", s.config.SyncInterval); err != nil {
			errs = append(errs, err)
		}
	}
	if s.config.Watch {
		if err := s.ensureTask(ctx, domain.TaskIDWatchSync, "Watch Sync", 0); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ensureTask creates or updates a task.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, interval time.Duration) error {
	var task *domain.ScheduledTask
	if s.store != nil {
		stored, err := s.store.GetTask(ctx, id)
		if err != nil {
			return err
		}
		task = stored
	}

	now := time.Now()
	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: interval,
		}
		if interval > 0 {
			task.NextRun = now.Add(interval)
		}
	} else if task.Interval != interval {
		task.Interval = interval
		task.NextRun = now.Add(interval)
	}
	task.Enabled = true

	s.mu.Lock()
	s.tasks[id] = task
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.SaveTask(ctx, task)
}

// checkInterval is how often due tasks are looked for.
func (s *Scheduler) checkInterval() time.Duration {
	if s.config.SyncInterval > 0 && s.config.SyncInterval < maxCheckInterval {
		return s.config.SyncInterval
	}
	return maxCheckInterval
}

// run is the main scheduler loop.
//
//nolint:gocognit // Select loop over ticker, watch events and debounce timer
func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}, changes <-chan domain.RawDocumentChange) error {
	ticker := time.NewTicker(s.checkInterval())
	defer ticker.Stop()

	var debounce *time.Timer
	var debounceC <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	s.runDueTasks(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-stopCh:
			return nil

		case <-ticker.C:
			s.runDueTasks(ctx)

		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			logger.Debug("scheduler: %s %s", change.Type, change.Document.Origin)
			if debounce == nil {
				debounce = time.NewTimer(s.config.Debounce)
			} else {
				debounce.Reset(s.config.Debounce)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			if task := s.task(domain.TaskIDWatchSync); task != nil {
				s.runTask(ctx, task, domain.TriggerWatch)
			}
		}
	}
}

// runDueTasks starts the scheduled sync if it is due.
func (s *Scheduler) runDueTasks(ctx context.Context) {
	task := s.task(domain.TaskIDScheduledSync)
	if task == nil || !task.Enabled {
		return
	}

	now := time.Now()
	s.mu.Lock()
	due := task.NextRun.IsZero() || !task.NextRun.After(now)
	if due {
		// Provisional; runTask sets the real value when the sync ends.
		task.NextRun = now.Add(task.Interval)
	}
	s.mu.Unlock()

	if due {
		s.runTask(ctx, task, domain.TriggerSchedule)
	}
}

func (s *Scheduler) task(id string) *domain.ScheduledTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[id]
}

// runTask executes a sync in the background and records the result.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask, trigger string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		syncResult, err := s.syncOrch.Sync(ctx, trigger)
		result.EndedAt = time.Now()

		if errors.Is(err, domain.ErrSyncInProgress) {
			logger.Debug("scheduler: %s skipped, sync already running", task.ID)
			s.mu.Lock()
			if task.Interval > 0 {
				task.NextRun = result.EndedAt.Add(task.Interval)
			}
			s.mu.Unlock()
			return
		}

		if err != nil {
			result.Error = err.Error()
		} else {
			result.Success = true
			result.ItemsProcessed = syncResult.Passages
		}

		s.mu.Lock()
		task.LastRun = result.StartedAt
		if err != nil {
			task.LastError = err.Error()
		} else {
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}
		if task.Interval > 0 {
			task.NextRun = result.EndedAt.Add(task.Interval)
		}
		snapshot := *task
		s.mu.Unlock()

		s.persist(context.WithoutCancel(ctx), &snapshot, result)
	}()
}

// persist saves task state and history. Failures are logged only.
func (s *Scheduler) persist(ctx context.Context, task *domain.ScheduledTask, result *domain.TaskResult) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveTask(ctx, task); err != nil {
		logger.Warn("scheduler: failed to save task %s: %v", task.ID, err)
	}
	if err := s.store.RecordResult(ctx, result); err != nil {
		logger.Warn("scheduler: failed to record result for %s: %v", task.ID, err)
	}
	if err := s.store.PruneHistory(ctx, taskHistoryKeep); err != nil {
		logger.Warn("scheduler: failed to prune history: %v", err)
	}
}
