package daemon

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrAlreadyRunning is returned by AcquireInstance when a live instance holds
// the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Instance is a held single-instance lock.
type Instance struct {
	path string
	file *os.File
}

// AcquireInstance creates the lock file exclusively and writes the current
// PID into it. A lock left by a dead process is taken over.
func AcquireInstance(path string) (*Instance, error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			if _, err := f.WriteString(strconv.Itoa(os.Getpid()) + "\n"); err != nil {
				f.Close()
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lock file: %w", err)
			}
			return &Instance{path: path, file: f}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		pid, ok := readLockPID(path)
		if ok && pid != os.Getpid() && processAlive(pid) {
			return nil, ErrAlreadyRunning
		}
		// Stale lock from a crashed instance.
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}
	return nil, ErrAlreadyRunning
}

// Release removes the lock file.
func (i *Instance) Release() error {
	if i == nil || i.file == nil {
		return nil
	}
	i.file.Close()
	i.file = nil
	if err := os.Remove(i.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func readLockPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
