package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrBusy reports that another worker holds the video lock
var ErrBusy = errors.New("video is already being processed")

// Locker hands out exclusive per-video locks backed by lock files
type Locker interface {
	Acquire(video string) (Lock, error)
}

// Lock is a held per-video lock
type Lock interface {
	Release() error
}

type implLocker struct {
	dir string
}

type implLock struct {
	fl *flock.Flock
}

// New creates a Locker keeping its lock files in dir
func New(dir string) Locker {
	return &implLocker{dir: dir}
}

// Acquire takes the lock for video without blocking. ErrBusy is returned
// when the lock is already held.
func (l *implLocker) Acquire(video string) (Lock, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(filepath.Join(l.dir, lockName(video)))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", video, ErrBusy)
	}
	return &implLock{fl: fl}, nil
}

func (l *implLock) Release() error {
	return l.fl.Unlock()
}

func lockName(video string) string {
	base := filepath.Base(video)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".lock"
}
