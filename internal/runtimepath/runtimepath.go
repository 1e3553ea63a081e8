package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the runtime directory used for the IPC socket, the instance
// lock and, on Windows, the log file. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) %LOCALAPPDATA%\voltray on Windows (created)
// 3) /run/user/<uid> (if present)
// 4) <tmp>/voltray-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dir := filepath.Join(local, "voltray")
			if err := os.MkdirAll(dir, 0700); err != nil {
				return "", fmt.Errorf("failed to create runtime dir: %w", err)
			}
			return dir, nil
		}
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("voltray-runtime-%d", uid))
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	return inDir("voltray.sock")
}

// LockPath returns the single-instance lock file path.
func LockPath() (string, error) {
	return inDir("voltray.lock")
}

// LogPath returns the daemon log file path used by GUI builds.
func LogPath() (string, error) {
	return inDir("voltray.log")
}

func inDir(name string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, name), nil
}
