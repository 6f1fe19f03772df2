// Package filelock provides advisory file locking around the atomic
// temp-file-then-rename writes used for Install Records in the registry.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// ErrBusy is returned by TryLockExclusive when the lock is already held.
var ErrBusy = fmt.Errorf("lock is busy")

// Lock is an advisory flock(2)-backed lock on a single path. A Lock value
// is not safe for concurrent use by multiple goroutines.
type Lock struct {
	file *os.File
	path string
}

// New returns a Lock for path. The lock file is created alongside the
// resource it protects (conventionally <resource>.lock) but is never
// read for its contents; only its flock state matters.
func New(path string) *Lock {
	return &Lock{path: path}
}

// LockShared acquires a shared (read) lock, blocking until it is available.
func (l *Lock) LockShared() error {
	return l.lock(syscall.LOCK_SH)
}

// LockExclusive acquires an exclusive (write) lock, blocking until available.
func (l *Lock) LockExclusive() error {
	return l.lock(syscall.LOCK_EX)
}

// TryLockExclusive acquires an exclusive lock without blocking. It returns
// ErrBusy if another process currently holds the lock.
func (l *Lock) TryLockExclusive() error {
	return l.lock(syscall.LOCK_EX | syscall.LOCK_NB)
}

func (l *Lock) lock(flags int) error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file %s: %w", l.path, err)
	}

	if err := syscall.Flock(int(file.Fd()), flags); err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return ErrBusy
		}
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	l.file = file
	return nil
}

// Unlock releases the lock and closes the underlying file descriptor. The
// lock file itself is left on disk; callers sharing a registry directory
// across processes rely on its continued presence as the rendezvous point.
func (l *Lock) Unlock() error {
	if l.file == nil {
		return nil
	}

	unlockErr := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, unlockErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close lock file %s: %w", l.path, closeErr)
	}
	return nil
}

// WriteFileAtomic writes data to path by writing to a temp file in the same
// directory, syncing it, renaming it over path, then syncing the parent
// directory so the rename itself survives a crash.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmpPath, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file %s: %w", tmpPath, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file %s: %w", tmpPath, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpPath, path, err)
	}

	dir, err := os.Open(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("failed to open parent directory of %s: %w", path, err)
	}
	defer dir.Close()

	if err := dir.Sync(); err != nil {
		return fmt.Errorf("failed to sync parent directory of %s: %w", path, err)
	}

	return nil
}
