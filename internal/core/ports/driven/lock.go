package driven

// SyncLock serialises index writers across processes sharing a data directory.
type SyncLock interface {
	// TryLock acquires the lock without blocking.
	// Returns false if another process holds it.
	TryLock() (bool, error)

	// Unlock releases the lock.
	Unlock() error
}
