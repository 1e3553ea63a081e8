//go:build !linux && !windows

package platform

import (
	"fmt"
	"runtime"
)

// NewBackend reports that no window-system backend exists for this platform.
func NewBackend() (Backend, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, runtime.GOOS)
}
