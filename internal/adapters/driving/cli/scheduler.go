package cli

import (
	"context"
	"errors"

	"github.com/campusnotice/noticeagent/internal/logger"
)

// startScheduler runs the background scheduler for long-running commands.
// The returned function stops it and waits for running syncs.
func startScheduler(ctx context.Context) (stop func()) {
	if scheduler == nil || !schedulerConfig.Enabled {
		return func() {}
	}

	schedulerCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := scheduler.Start(schedulerCtx); err != nil && !errors.Is(err, context.Canceled) {
			// Scheduler errors shouldn't block the command.
			logger.Warn("scheduler stopped: %v", err)
		}
	}()

	return func() {
		if err := scheduler.Stop(); err != nil {
			logger.Warn("scheduler stop error: %v", err)
		}
		cancel()
	}
}
