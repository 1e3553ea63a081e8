//go:build !windows

package tray

import (
	"errors"
	"testing"

	"github.com/1broseidon/voltray/internal/platform"
)

func TestNewUnsupported(t *testing.T) {
	_, err := New(Options{Toggler: &countingToggler{done: make(chan struct{}, 1)}})
	if !errors.Is(err, platform.ErrUnsupported) {
		t.Fatalf("New error = %v, want ErrUnsupported", err)
	}
}
