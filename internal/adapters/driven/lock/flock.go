// Package lock provides a file-based cross-process sync lock.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// Ensure FileLock implements the interface.
var _ driven.SyncLock = (*FileLock)(nil)

// FileName is the lock file created inside the data directory.
// It is hidden so document discovery and the watcher ignore it.
const FileName = ".sync.lock"

// FileLock is an advisory flock(2) lock on a file.
type FileLock struct {
	fl *flock.Flock
}

// New returns a lock on <dir>/.sync.lock, creating dir if needed.
func New(dir string) (*FileLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	return &FileLock{fl: flock.New(filepath.Join(dir, FileName))}, nil
}

// TryLock acquires the lock without blocking.
func (l *FileLock) TryLock() (bool, error) {
	locked, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire sync lock %s: %w", l.fl.Path(), err)
	}
	return locked, nil
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	return l.fl.Unlock()
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.fl.Path()
}
