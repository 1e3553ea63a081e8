package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/1broseidon/voltray/internal/config"
	"github.com/1broseidon/voltray/internal/ipc"
	"github.com/1broseidon/voltray/internal/platform"
	"github.com/1broseidon/voltray/internal/tui"
)

func main() {
	args := resolveArgs(os.Args[1:], runtime.GOOS)
	if len(args) == 0 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch args[0] {
	case "daemon":
		os.Exit(runDaemon(args[1:]))
	case "toggle":
		os.Exit(runToggle(args[1:]))
	case "close":
		os.Exit(runClose(args[1:]))
	case "status":
		os.Exit(runStatus(args[1:]))
	case "config":
		os.Exit(runConfig(args[1:]))
	case "tui":
		os.Exit(runTUI(args[1:]))
	case "menu":
		os.Exit(runMenu(args[1:]))
	case "mcp":
		os.Exit(runMCP(args[1:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

// resolveArgs maps launcher-style invocations onto subcommands. On Windows a
// bare start (e.g. from the Startup folder) runs the tray daemon, and legacy
// flags such as --timeoutMs=... without a subcommand go to the daemon on
// every platform.
func resolveArgs(args []string, goos string) []string {
	if len(args) == 0 {
		if goos == "windows" {
			return []string{"daemon"}
		}
		return nil
	}
	first := args[0]
	if strings.HasPrefix(first, "-") && !isHelpArg(first) {
		return append([]string{"daemon"}, args...)
	}
	return args
}

func isHelpArg(arg string) bool {
	switch arg {
	case "help", "-h", "--help", "-help":
		return true
	}
	return false
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: voltray <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the tray/hotkey host (foreground)")
	fmt.Fprintln(w, "  toggle              Open the volume mixer, or close it if open")
	fmt.Fprintln(w, "  close               Close the volume mixer if open")
	fmt.Fprintln(w, "  status              Show daemon and mixer status")
	fmt.Fprintln(w, "  tui                 Interactive status and settings console")
	fmt.Fprintln(w, "  menu                Show the tray actions in rofi/fuzzel/wofi/dmenu")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'voltray <command> --help' for command-specific options.")
}

func runToggle(args []string) int {
	fs := flag.NewFlagSet("toggle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: voltray toggle")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running daemon to open or close the volume mixer.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "toggle takes no arguments")
		fs.Usage()
		return 2
	}

	result, err := ipc.NewClient().Toggle()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(result)
	return 0
}

func runClose(args []string) int {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: voltray close")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Close the volume mixer if the daemon has it open.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "close takes no arguments")
		fs.Usage()
		return 2
	}

	closed, err := ipc.NewClient().Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if closed {
		fmt.Println("closed")
	} else {
		fmt.Println("not open")
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: voltray status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		writeStatusTable(os.Stdout, status, time.Now())
	} else {
		writeStatusPlain(os.Stdout, status)
	}
	return 0
}

// writeStatusPlain prints stable key: value lines for scripts.
func writeStatusPlain(w io.Writer, st *ipc.StatusData) {
	fmt.Fprintf(w, "state:          %s\n", st.State)
	fmt.Fprintf(w, "pid:            %d\n", st.PID)
	fmt.Fprintf(w, "session:        %s\n", st.SessionID)
	fmt.Fprintf(w, "display:        %s\n", st.Display)
	fmt.Fprintf(w, "placed:         %v\n", st.Placed)
	fmt.Fprintf(w, "mixer_path:     %s\n", st.MixerPath)
	fmt.Fprintf(w, "toggles:        %d\n", st.Toggles)
	fmt.Fprintf(w, "last_error:     %s\n", st.LastError)
	fmt.Fprintf(w, "daemon_pid:     %d\n", st.DaemonPID)
	fmt.Fprintf(w, "uptime_seconds: %d\n", st.UptimeSeconds)
}

// writeStatusTable prints a human-oriented summary with relative times.
func writeStatusTable(w io.Writer, st *ipc.StatusData, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	started := now.Add(-time.Duration(st.UptimeSeconds) * time.Second)
	fmt.Fprintf(tw, "Daemon\tpid %d, up since %s\n", st.DaemonPID, humanize.RelTime(started, now, "ago", "from now"))
	fmt.Fprintf(tw, "Mixer\t%s\n", st.State)
	if st.PID != 0 {
		fmt.Fprintf(tw, "  Process\tpid %d (%s)\n", st.PID, st.MixerPath)
		fmt.Fprintf(tw, "  Opened\t%s\n", humanize.RelTime(st.StartedAt, now, "ago", "from now"))
		fmt.Fprintf(tw, "  Display\t%s, anchor %d,%d\n", st.Display, st.AnchorX, st.AnchorY)
		placed := "no"
		if st.Placed {
			placed = "yes"
		}
		fmt.Fprintf(tw, "  Placed\t%s\n", placed)
	}
	fmt.Fprintf(tw, "Toggles\t%s\n", humanize.Comma(int64(st.Toggles)))
	if st.LastError != "" {
		fmt.Fprintf(tw, "Last error\t%s\n", st.LastError)
	}
}

func runConfig(args []string) int {
	if len(args) == 0 || isHelpArg(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  voltray config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  voltray config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  voltray config path")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: platform config dir)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfigResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: platform config dir)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfigResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		fmt.Printf("# mixer: %s\n", cfg.MixerPath())
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: platform config dir)")

	if len(args) > 0 && isHelpArg(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage: voltray tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live daemon status, settings editor and display preview.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  1/2/3, Tab  Switch tabs")
		fmt.Fprintln(os.Stderr, "  t, Enter    Toggle the mixer (Status)")
		fmt.Fprintln(os.Stderr, "  c           Close the mixer (Status)")
		fmt.Fprintln(os.Stderr, "  r           Reload daemon config (Status), rescan (Displays)")
		fmt.Fprintln(os.Stderr, "  e           Edit settings (Settings)")
		fmt.Fprintln(os.Stderr, "  Ctrl+S      Review and save changes")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C   Quit")
		return 0
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := *path
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		configPath = p
	}

	opts := tui.Options{
		ConfigPath: configPath,
		Daemon:     ipc.NewClient(),
		Displays:   queryDisplays,
	}
	if res, err := config.LoadFromPath(configPath); err != nil {
		opts.LoadErr = err
	} else {
		opts.Config = res.Config
	}

	if err := tui.Run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// queryDisplays opens a short-lived backend connection for one topology scan.
func queryDisplays() ([]platform.Display, error) {
	b, err := platform.NewBackend()
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Displays()
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
