//go:build !windows

package repository

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"model-versioning-service/internal/domain"
)

// fileLock guards the registry document against writers in other
// processes using flock() advisory locking.
type fileLock struct {
	file    *os.File
	timeout time.Duration
	locked  bool
}

func newFileLock(path string, timeout time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return &fileLock{file: file, timeout: timeout}, nil
}

// Lock acquires the exclusive lock, polling with backoff until the
// timeout expires. Timeout surfaces as ErrRegistryBusy so callers get a
// retryable signal instead of a hang.
func (l *fileLock) Lock() error {
	if l.locked {
		return nil
	}

	deadline := time.Now().Add(l.timeout)
	sleep := 10 * time.Millisecond

	for {
		err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			l.locked = true
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: lock not acquired within %v", domain.ErrRegistryBusy, l.timeout)
		}

		time.Sleep(sleep)
		if sleep < 100*time.Millisecond {
			sleep *= 2
		}
	}
}

// Unlock releases the lock and closes the handle. Safe to call more than
// once.
func (l *fileLock) Unlock() error {
	if !l.locked {
		if l.file != nil {
			l.file.Close()
			l.file = nil
		}
		return nil
	}

	var unlockErr error
	if l.file != nil {
		unlockErr = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
		l.file.Close()
		l.file = nil
	}
	l.locked = false

	return unlockErr
}
