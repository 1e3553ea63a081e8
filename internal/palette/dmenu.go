package palette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// runner executes a launcher with stdin and returns its stdout, stderr and
// exit code.
type runner func(ctx context.Context, name string, args []string, stdin string) (stdout, stderr string, exitCode int, err error)

type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities
	run     runner
}

func newDmenuLike(name string) (*dmenuLikeBackend, error) {
	b := &dmenuLikeBackend{command: name, run: execRunner}
	switch name {
	case "rofi":
		b.kind = kindRofi
		b.caps = Capabilities{Icons: true, Markup: true, NonSelectable: true, IndexOutput: true, MessageBar: true}
	case "fuzzel":
		b.kind = kindFuzzel
		b.caps = Capabilities{Icons: true, IndexOutput: true}
	case "wofi":
		b.kind = kindWofi
		b.caps = Capabilities{Icons: true, Markup: true}
	case "dmenu":
		// dmenu has minimal features
		b.kind = kindDmenu
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}
	return b, nil
}

func execRunner(ctx context.Context, name string, args []string, stdin string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
	}
	return stdout.String(), stderr.String(), 0, err
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Show(ctx context.Context, prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	displayItems := make([]Item, len(items))
	copy(displayItems, items)

	input, selected := b.formatInput(displayItems)
	args := b.buildArgs(prompt, message, selected)

	out, stderr, exitCode, err := b.run(ctx, b.command, args, input)
	if err != nil {
		return Item{}, fmt.Errorf("%s failed: %w", b.command, err)
	}
	selection := strings.TrimSpace(out)

	switch {
	case selection == "" && isCancelExit(exitCode):
		return Item{}, ErrCancelled
	case exitCode != 0:
		if msg := strings.TrimSpace(stderr); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: exit status %d", b.command, exitCode)
	case selection == "":
		return Item{}, ErrCancelled
	}

	return b.parseSelection(selection, displayItems)
}

// buildArgs returns the launcher arguments. selected is the row to
// preselect, or -1.
func (b *dmenuLikeBackend) buildArgs(prompt, message string, selected int) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		// Output only the index; labels may contain markup.
		args = append(args, "-format", "i", "-no-custom", "-markup-rows", "-show-icons")
		if selected >= 0 {
			args = append(args, "-a", strconv.Itoa(selected), "-selected-row", strconv.Itoa(selected))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}

	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindWofi:
		args = []string{"--dmenu", "--allow-markup", "--allow-images"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}

	return args
}

// formatInput renders one line per item and returns the row to preselect:
// the first active selectable row, else the first selectable row, else -1.
func (b *dmenuLikeBackend) formatInput(items []Item) (string, int) {
	// Text-matching backends (dmenu/wofi) need distinct labels.
	if !b.caps.IndexOutput {
		seen := make(map[string]int)
		for i := range items {
			if items[i].IsDivider {
				continue
			}
			key := sanitizeLabel(items[i].Label)
			if count := seen[key]; count > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
			}
			seen[key]++
		}
	}

	lines := make([]string, 0, len(items))
	first, firstActive := -1, -1
	for i, item := range items {
		lines = append(lines, b.formatItem(item))
		if item.IsDivider {
			continue
		}
		if first == -1 {
			first = i
		}
		if item.IsActive && firstActive == -1 {
			firstActive = i
		}
	}

	if firstActive != -1 {
		return strings.Join(lines, "\n"), firstActive
	}
	return strings.Join(lines, "\n"), first
}

func (b *dmenuLikeBackend) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if b.caps.Markup {
		display = html.EscapeString(display)
		if item.IsDivider {
			display = fmt.Sprintf("<span foreground='#666666'>%s</span>", display)
		}
	}

	// Rofi row properties: a single NUL, then key/value pairs split by \x1f.
	if b.kind != kindRofi {
		return display
	}
	var attrs []string
	if item.IsDivider {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (Item, error) {
	if b.caps.IndexOutput {
		idx, err := strconv.Atoi(selection)
		if err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	return findByLabel(selection, items)
}

func findByLabel(selection string, items []Item) (Item, error) {
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

// Launchers use 1 for "no selection" and 130 for Ctrl+C.
func isCancelExit(code int) bool {
	return code == 1 || code == 130
}
