package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/voltray/internal/ipc"
	"github.com/1broseidon/voltray/internal/palette"
)

const (
	menuActionToggle = "toggle"
	menuActionClose  = "close"
	menuActionReload = "reload"
)

// menuDaemon is the slice of the IPC client the menu drives.
type menuDaemon interface {
	Toggle() (string, error)
	Close() (bool, error)
	Reload() error
}

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "auto", "Launcher: auto, rofi, fuzzel, wofi, dmenu")

	if len(args) > 0 && isHelpArg(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage: voltray menu [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the tray actions through rofi, fuzzel, wofi or dmenu.")
		fmt.Fprintln(os.Stderr, "Bind it to a key in your window manager where no tray is available.")
		return 0
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	client := ipc.NewClient()
	st, err := client.GetStatus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "daemon not reachable: %v\n", err)
		return 1
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := palette.NewMenu(backend, appName, menuItems(st))
	m.SetMessage("mixer: " + st.State)
	action, err := m.Show(ctx)
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := dispatchMenuAction(client, action, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// menuItems mirrors the tray context menu. An open mixer offers Close in
// place of Open, highlighted.
func menuItems(st *ipc.StatusData) []palette.Item {
	primary := palette.Item{Label: "Open Volume Mixer", Action: menuActionToggle, Icon: "audio-volume-high"}
	if st != nil && st.PID != 0 {
		primary = palette.Item{Label: "Close Volume Mixer", Action: menuActionClose, Icon: "window-close", IsActive: true}
	}
	return []palette.Item{
		primary,
		{Label: "────────", IsDivider: true},
		{Label: "Reload Config", Action: menuActionReload, Icon: "view-refresh"},
	}
}

func dispatchMenuAction(d menuDaemon, action string, out io.Writer) error {
	switch action {
	case menuActionToggle:
		result, err := d.Toggle()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result)
	case menuActionClose:
		closed, err := d.Close()
		if err != nil {
			return err
		}
		if closed {
			fmt.Fprintln(out, "closed")
		} else {
			fmt.Fprintln(out, "not open")
		}
	case menuActionReload:
		if err := d.Reload(); err != nil {
			return err
		}
		fmt.Fprintln(out, "reloaded")
	default:
		return fmt.Errorf("unknown menu action %q", action)
	}
	return nil
}
