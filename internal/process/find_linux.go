//go:build linux

package process

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const procRoot = "/proc"

func findByName(name string) ([]int, error) {
	return findByNameIn(procRoot, name)
}

func findByNameIn(root, name string) ([]int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var pids []int
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || !entry.IsDir() {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(root, entry.Name(), "comm"))
		if err != nil {
			continue
		}
		if matchesName(strings.TrimSpace(string(comm)), name) {
			pids = append(pids, pid)
		}
	}
	return pids, nil
}

// DefaultMixerPath is the mixer launched when none is configured.
func DefaultMixerPath() string {
	return "pavucontrol"
}

// DefaultMixerArgs is the launch argument template for the default mixer.
func DefaultMixerArgs() []string {
	return nil
}
