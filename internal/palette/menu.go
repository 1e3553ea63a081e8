package palette

import (
	"context"
	"fmt"
)

// Menu is a flat list of actions shown through a Backend.
type Menu struct {
	backend Backend
	prompt  string
	items   []Item
	message string
}

// NewMenu creates a menu over items.
func NewMenu(backend Backend, prompt string, items []Item) *Menu {
	return &Menu{backend: backend, prompt: prompt, items: items}
}

// SetMessage sets a context line shown by launchers with a message bar.
func (m *Menu) SetMessage(msg string) {
	m.message = msg
}

// Show displays the menu and returns the chosen action, or ErrCancelled.
// Backends that cannot enforce non-selectable rows may return a divider; the
// menu is shown again in that case.
func (m *Menu) Show(ctx context.Context) (string, error) {
	if len(m.items) == 0 {
		return "", fmt.Errorf("menu: no items to show")
	}
	for {
		item, err := m.backend.Show(ctx, m.prompt, m.items, m.message)
		if err != nil {
			return "", err
		}
		if item.IsDivider || item.Action == "" {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			continue
		}
		return item.Action, nil
	}
}
