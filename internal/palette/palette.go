// Package palette shows a one-shot action menu through an external
// dmenu-style launcher. It stands in for the tray context menu on desktops
// without a notification area host.
package palette

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// backendOrder is the auto-detection priority.
var backendOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// Item is a single selectable entry in a palette menu.
type Item struct {
	Label     string // Display text
	Action    string // Action identifier returned on selection
	Icon      string // Icon name for launchers that show icons
	IsDivider bool   // Non-selectable divider line (dim)
	IsActive  bool   // Highlighted as current state
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons         bool // Supports icon display
	Markup        bool // Supports pango markup in labels
	NonSelectable bool // Supports non-selectable rows
	IndexOutput   bool // Can output selection index (not just text)
	MessageBar    bool // Supports message bar
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(ctx context.Context, prompt string, items []Item, message string) (Item, error)
	Capabilities() Capabilities
}

// DetectBackend returns the first launcher found by lookPath, in priority
// order rofi, fuzzel, wofi, dmenu.
func DetectBackend(lookPath func(string) (string, error)) (string, error) {
	for _, name := range backendOrder {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendOrder, ", "))
}

// NewBackend creates a backend by name.
//
// Supported names: auto, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend(exec.LookPath)
		if err != nil {
			return nil, err
		}
		name = detected
	}

	b, err := newDmenuLike(name)
	if err != nil {
		return nil, err
	}
	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", b.command)
	}
	return b, nil
}
