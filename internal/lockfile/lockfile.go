package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// Lock is an exclusive PID lockfile. One interactive dashboard per user
// at a time; concurrent non-interactive commands are fine and do not lock.
type Lock struct {
	path string
	file *os.File
}

// DefaultPath returns the per-user lock location for the dashboard.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("downloader-ctl-%d.lock", os.Getuid()))
}

// Acquire creates and locks a lockfile at the given path. A lock held by
// a dead process is taken over; a lock held by a live one is an error.
func Acquire(path string) (*Lock, error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			if _, werr := fmt.Fprintf(f, "%d\n", os.Getpid()); werr != nil {
				f.Close()
				os.Remove(path)
				return nil, fmt.Errorf("failed to write PID to lock file: %w", werr)
			}
			if serr := f.Sync(); serr != nil {
				f.Close()
				os.Remove(path)
				return nil, fmt.Errorf("failed to sync lock file: %w", serr)
			}
			return &Lock{path: path, file: f}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}
		if rerr := reclaimStale(path); rerr != nil {
			return nil, rerr
		}
		// stale lock removed, second pass creates it fresh
	}
	return nil, fmt.Errorf("lock file %s keeps reappearing, another instance is racing us", path)
}

// reclaimStale removes the lock if its owner is gone, or reports who holds it.
func reclaimStale(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("lock file exists but cannot be read: %s\nRemove it manually if no other instance is running: rm %s", path, path)
	}

	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return fmt.Errorf("lock file contains invalid PID: %s\nRemove it manually if corrupted: rm %s", path, path)
	}

	if processExists(pid) {
		return fmt.Errorf("downloader-ctl is already running (PID %d)\nClose the other dashboard or remove the lock file if stale: %s", pid, path)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("stale lock file found (PID %d not running) but cannot be removed: %w\nRemove manually: rm %s", pid, err, path)
	}
	return nil
}

// processExists checks if a process with the given PID is running
func processExists(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix FindProcess always succeeds, signal 0 does the real check
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if err == syscall.ESRCH {
		return false
	}

	// Exists but not ours to signal
	return true
}

// Release releases the lock and removes the lock file
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Path returns the path to the lock file
func (l *Lock) Path() string {
	return l.path
}
