// Package lock serializes installer runs on one host.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	fferrors "github.com/facefusion/ffinstall/internal/errors"
)

// Lock is an exclusive, non-blocking file lock that records the holder's PID.
type Lock struct {
	path     string
	fileLock *flock.Flock
	locked   bool
}

// New creates a Lock at path, creating its directory if needed.
func New(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fferrors.NewStateError("failed to create lock directory", err)
	}
	return &Lock{
		path:     path,
		fileLock: flock.New(path),
	}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock and writes the current PID into the lock file.
// It fails immediately if another process holds the lock.
func (l *Lock) Acquire() error {
	if l.locked {
		return nil
	}

	locked, err := l.fileLock.TryLock()
	if err != nil {
		return fferrors.NewStateError("failed to acquire lock", err)
	}
	if !locked {
		pid, _ := l.readPID()
		return fferrors.NewLockError(l.path, pid)
	}

	if err := l.writePID(); err != nil {
		_ = l.fileLock.Unlock()
		return fferrors.NewStateError("failed to write PID to lock file", err)
	}

	l.locked = true
	return nil
}

// Release releases the lock. Releasing an unheld lock is a no-op.
func (l *Lock) Release() error {
	if !l.locked {
		return nil
	}

	if err := l.fileLock.Unlock(); err != nil {
		return fferrors.NewStateError("failed to release lock", err)
	}

	l.locked = false
	return nil
}

func (l *Lock) readPID() (int, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in %s: %w", l.path, err)
	}
	return pid, nil
}

func (l *Lock) writePID() error {
	return os.WriteFile(l.path, []byte(strconv.Itoa(os.Getpid())), 0644)
}
