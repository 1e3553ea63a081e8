package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/voltray/internal/config"
	"github.com/1broseidon/voltray/internal/controller"
	"github.com/1broseidon/voltray/internal/daemon"
	"github.com/1broseidon/voltray/internal/ipc"
	"github.com/1broseidon/voltray/internal/notify"
	"github.com/1broseidon/voltray/internal/platform"
	"github.com/1broseidon/voltray/internal/process"
	"github.com/1broseidon/voltray/internal/runtimepath"
)

const (
	appName                = "voltray"
	notifyMinInterval      = 2 * time.Second
	configApplyTimeout     = 5 * time.Second
	controllerStopDeadline = 5 * time.Second
)

// host is the platform front end: the tray icon on Windows, the global
// hotkey on X11. Run blocks until ctx ends or the user asks to exit.
type host interface {
	// Notifier returns the host's own notification sink, or nil.
	Notifier() notify.Notifier
	Run(ctx context.Context) error
}

type hostOptions struct {
	Backend platform.Backend
	Config  *config.Config
	Toggler *controllerRef
	Logger  *slog.Logger
	// Exit stops the daemon.
	Exit func()
}

// controllerRef lets hosts bind to the controller before it is built; the
// controller in turn needs the host's notifier.
type controllerRef struct {
	ctrl *controller.Controller
}

func (r *controllerRef) Toggle(ctx context.Context) (controller.Result, error) {
	if r.ctrl == nil {
		return 0, controller.ErrStopped
	}
	return r.ctrl.Toggle(ctx)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: platform config dir)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	var overrides config.Overrides
	overrides.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: voltray daemon [--path PATH] [--verbose] [--timeoutMs=N] [--distancePx=N] [--pad=N] [--pollMs=N] [--monitor=mouse|primary]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the tray/hotkey host in the foreground. Flags override the config file.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no positional arguments")
		fs.Usage()
		return 2
	}

	logOut, closeLog := daemonLogOutput()
	defer closeLog()
	log.SetOutput(logOut)
	logger := newLogger(logOut, *verbose)
	slog.SetDefault(logger)

	lockPath, err := runtimepath.LockPath()
	if err != nil {
		log.Printf("Failed to resolve lock path: %v", err)
		return 1
	}
	instance, err := daemon.AcquireInstance(lockPath)
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		log.Printf("voltray is already running")
		return 0
	}
	if err != nil {
		log.Printf("Failed to acquire instance lock: %v", err)
		return 1
	}
	defer instance.Release()

	configPath := *path
	if configPath == "" {
		if configPath, err = config.DefaultConfigPath(); err != nil {
			log.Printf("Failed to resolve config path: %v", err)
			return 1
		}
	}
	load := func() (*config.Config, error) {
		res, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		if err := overrides.Apply(res.Config); err != nil {
			return nil, err
		}
		return res.Config, nil
	}

	cfg, err := load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	log.Printf("Configuration loaded (mixer: %s, timeout: %s, distance: %dpx)", cfg.MixerPath(), cfg.Timeout(), cfg.Watch.DistancePX)

	backend, err := platform.NewBackend()
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer backend.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ref := &controllerRef{}
	h, err := newHost(hostOptions{
		Backend: backend,
		Config:  cfg,
		Toggler: ref,
		Logger:  logger,
		Exit:    cancel,
	})
	if err != nil {
		log.Printf("Failed to start host: %v", err)
		return 1
	}

	ctrl, err := controller.New(controller.Options{
		Backend:    backend,
		Supervisor: process.ExecSupervisor{},
		Notifier:   daemonNotifier(h.Notifier()),
		Config:     cfg,
		Logger:     logger,
	})
	if err != nil {
		log.Printf("Failed to create controller: %v", err)
		return 1
	}
	ref.ctrl = ctrl

	ctrlDone := make(chan error, 1)
	go func() { ctrlDone <- ctrl.Run(ctx) }()

	watcher := daemon.NewConfigWatcher(daemon.ConfigWatcherConfig{
		Path:   configPath,
		Load:   load,
		Logger: logger,
	}, func(newCfg *config.Config) {
		applyCtx, applyCancel := context.WithTimeout(ctx, configApplyTimeout)
		defer applyCancel()
		if err := ctrl.UpdateConfig(applyCtx, newCfg); err != nil {
			logger.Warn("config not applied", "error", err)
		}
	})
	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()

	ipcServer, err := ipc.NewServer(ctrl, watcher.ReloadNow)
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer ipcServer.Stop()

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hupCh:
				log.Println("Received SIGHUP, reloading config...")
				watcher.ReloadNow()
			}
		}
	}()

	log.Println("voltray daemon started")
	hostErr := h.Run(ctx)
	if hostErr != nil && !errors.Is(hostErr, context.Canceled) {
		log.Printf("Host stopped: %v", hostErr)
	}

	log.Println("Shutting down voltray daemon...")
	cancel()
	select {
	case <-ctrlDone:
	case <-time.After(controllerStopDeadline):
		log.Println("Controller did not stop in time")
	}

	if hostErr != nil && !errors.Is(hostErr, context.Canceled) {
		return 1
	}
	return 0
}

// daemonNotifier rate-limits the host's user-visible channel. The controller
// logs every failure itself, so no log sink is added here.
func daemonNotifier(host notify.Notifier) *notify.Limited {
	if host == nil {
		host = notify.Discard{}
	}
	return notify.NewLimited(host, notifyMinInterval)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
