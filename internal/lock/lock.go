// Package lock serialises provisioning runs between terran processes on the
// same machine.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/terranastra/terran/internal/core/domain"
)

// RetryDelay is how often Acquire polls a held lock.
const RetryDelay = 250 * time.Millisecond

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RunLock wraps a flock file lock. A RunLock is held by at most one caller
// at a time, in this process as well as across processes: flock alone lets
// the same handle re-acquire a lock it already holds.
type RunLock struct {
	flock *flock.Flock
	path  string

	mu   sync.Mutex
	held bool
}

// New creates a lock at path.
func New(path string) *RunLock {
	return &RunLock{flock: flock.New(path), path: path}
}

// ForContainer returns the lock guarding provisioning of the named container,
// kept under the system temp directory.
func ForContainer(name string) *RunLock {
	return New(PathFor(os.TempDir(), name))
}

// PathFor is the lock file used for a container under dir.
func PathFor(dir, name string) string {
	return filepath.Join(dir, "terran-"+unsafeChars.ReplaceAllString(name, "_")+".lock")
}

// Path returns the lock file path.
func (l *RunLock) Path() string { return l.path }

// Acquire blocks until the lock is held or ctx ends.
func (l *RunLock) Acquire(ctx context.Context) error {
	for {
		err := l.TryAcquire()
		if err == nil || !errors.Is(err, domain.ErrLocked) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for %s: %w", domain.ErrLocked, l.path, ctx.Err())
		case <-time.After(RetryDelay):
		}
	}
}

// TryAcquire takes the lock without blocking. It returns domain.ErrLocked
// when another holder has it, including another caller sharing this RunLock.
func (l *RunLock) TryAcquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return fmt.Errorf("%w: %s", domain.ErrLocked, l.path)
	}
	ok, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock on %s: %w", l.path, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrLocked, l.path)
	}
	l.held = true
	return nil
}

// Release unlocks. Releasing an unheld lock is a no-op.
func (l *RunLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	l.held = false
	return nil
}
