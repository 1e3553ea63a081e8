//go:build !linux && !windows

package process

import (
	"fmt"
	"runtime"
)

func findByName(string) ([]int, error) {
	return nil, fmt.Errorf("process lookup not supported on %s", runtime.GOOS)
}

// DefaultMixerPath is empty; a mixer must be configured explicitly.
func DefaultMixerPath() string {
	return ""
}

// DefaultMixerArgs is empty on platforms without a native mixer.
func DefaultMixerArgs() []string {
	return nil
}
