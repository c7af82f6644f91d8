package domain

import "time"

// ScheduledTask represents a recurring background task.
type ScheduledTask struct {
	// ID is the unique identifier for the task.
	ID string

	// Name is a human-readable name for the task.
	Name string

	// Interval defines how often the task should run.
	Interval time.Duration

	// LastRun is when the task last ran.
	LastRun time.Time

	// NextRun is when the task should run next.
	NextRun time.Time

	// LastError contains the last error message, if any.
	LastError string

	// LastSuccess is when the task last completed successfully.
	LastSuccess time.Time

	// Enabled indicates whether the task is active.
	Enabled bool
}

// TaskResult represents the outcome of a task execution.
type TaskResult struct {
	TaskID         string
	StartedAt      time.Time
	EndedAt        time.Time
	Success        bool
	Error          string
	ItemsProcessed int
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	// Enabled is the master switch for the scheduler.
	Enabled bool

	// SyncInterval is the period of the scheduled re-sync. Zero disables it.
	SyncInterval time.Duration

	// Watch enables re-sync on data directory changes.
	Watch bool

	// Debounce is how long the watcher waits for changes to settle.
	Debounce time.Duration
}

// DefaultWatchDebounce is the quiet period before a watch-triggered sync.
const DefaultWatchDebounce = 2 * time.Second

// NewSchedulerConfig derives scheduler configuration from sync settings.
// The scheduler is enabled when either periodic or watch-triggered
// syncing is requested.
func NewSchedulerConfig(s SyncSettings) SchedulerConfig {
	return SchedulerConfig{
		Enabled:      s.Interval > 0 || s.Watch,
		SyncInterval: s.Interval,
		Watch:        s.Watch,
		Debounce:     DefaultWatchDebounce,
	}
}

// Task IDs for built-in tasks.
const (
	TaskIDScheduledSync = "scheduled-sync"
	TaskIDWatchSync     = "watch-sync"
)

// Sync triggers recorded in history.
const (
	TriggerCLI      = "cli"
	TriggerHTTP     = "http"
	TriggerMCP      = "mcp"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
)
