// Package lockfile provides the existence-based execution lock that keeps
// at most one wakeup run alive on a host.
//
// The lock is a marker file created with O_EXCL: presence means held,
// absence means free. There is no waiting and no retry; a second invocation
// simply loses. A crash that skips the deferred release (e.g. power loss)
// leaves a stale file that needs manual cleanup — accepted limitation.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ErrHeld is returned by Acquire when another run owns the lock.
var ErrHeld = errors.New("lock already held")

// Lock is a held execution lock. Release must be called on every exit path;
// callers defer it immediately after a successful Acquire.
type Lock struct {
	path string
	once sync.Once
	err  error
}

// Acquire creates the marker file at path, recording the owning PID for
// diagnostics. If the file already exists, ErrHeld is returned and the
// caller must not proceed.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("error creating lock file: %w", err)
	}
	_, werr := fmt.Fprintf(f, "%d", os.Getpid())
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(path)
		return nil, fmt.Errorf("error writing lock file: %w", werr)
	}
	return &Lock{path: path}, nil
}

// Release removes the marker file. Safe to call multiple times; a file that
// is already gone is not an error.
func (l *Lock) Release() error {
	l.once.Do(func() {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			l.err = err
		}
	})
	return l.err
}

// Owner reads the PID recorded in the lock file at path.
// Diagnostic only — the lock protocol never inspects the owner.
func Owner(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}
