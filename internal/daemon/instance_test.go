package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireInstance_SecondFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voltray.lock")

	first, err := AcquireInstance(path)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first.Release()

	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("lock content = %q", data)
	}

	// The lock holder is this process; pretend a different live process owns it.
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getppid())+"\n"), 0600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if _, err := AcquireInstance(path); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second acquire = %v, want ErrAlreadyRunning", err)
	}
}

func TestAcquireInstance_TakesOverStaleLock(t *testing.T) {
	tests := map[string]string{
		"garbage":  "not-a-pid\n",
		"dead pid": "99999999\n",
		"empty":    "",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "voltray.lock")
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatalf("write: %v", err)
			}

			inst, err := AcquireInstance(path)
			if err != nil {
				t.Fatalf("acquire over stale lock: %v", err)
			}
			inst.Release()
		})
	}
}

func TestInstance_ReleaseRemovesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voltray.lock")
	inst, err := AcquireInstance(path)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := inst.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("lock file still present: %v", err)
	}
	if err := inst.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
}
