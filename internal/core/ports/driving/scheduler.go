package driving

import "context"

// Scheduler re-indexes the data directory in the background, on a fixed
// interval and, in watch mode, shortly after files change.
type Scheduler interface {
	// Start runs until ctx ends or Stop is called. It returns at once
	// when background syncing is disabled.
	Start(ctx context.Context) error

	// Stop ends the loop and waits for an in-flight sync to finish.
	Stop() error
}
