package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/voltray/internal/process"
)

// MonitorMode selects which display the mixer opens on.
type MonitorMode string

const (
	MonitorMouse   MonitorMode = "mouse"   // Display under the pointer.
	MonitorPrimary MonitorMode = "primary" // Always the primary display.
)

// MixerConfig describes the executable that is toggled.
type MixerConfig struct {
	// Path to the mixer executable. Empty selects SndVol.exe on Windows and
	// pavucontrol elsewhere.
	Path string `yaml:"path"`
	// ProcessName is the image name used for orphan cleanup. Empty derives it
	// from Path.
	ProcessName string `yaml:"process_name"`
	// Args are passed to the mixer; "{hint}" expands to the packed anchor.
	Args []string `yaml:"args"`
}

// WatchConfig tunes the dismissal watcher.
type WatchConfig struct {
	TimeoutMS  int `yaml:"timeout_ms"`
	PollMS     int `yaml:"poll_ms"`
	DistancePX int `yaml:"distance_px"`
	GraceMS    int `yaml:"grace_ms"`
}

// PlacementConfig tunes anchor placement and window lookup.
type PlacementConfig struct {
	PadPX            int         `yaml:"pad_px"`
	Monitor          MonitorMode `yaml:"monitor"`
	LocateTries      int         `yaml:"locate_tries"`
	LocateIntervalMS int         `yaml:"locate_interval_ms"`
}

// Config is the effective voltray configuration.
type Config struct {
	Mixer     MixerConfig     `yaml:"mixer"`
	Watch     WatchConfig     `yaml:"watch"`
	Placement PlacementConfig `yaml:"placement"`

	// Hotkey is an X11 key sequence such as "Mod4-v". Empty disables it.
	Hotkey         string `yaml:"hotkey"`
	Notifications  bool   `yaml:"notifications"`
	StartupBalloon bool   `yaml:"startup_balloon"`
	CloseOnExit    bool   `yaml:"close_on_exit"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Mixer: MixerConfig{
			Args: process.DefaultMixerArgs(),
		},
		Watch: WatchConfig{
			TimeoutMS:  30000,
			PollMS:     250,
			DistancePX: 300,
			GraceMS:    250,
		},
		Placement: PlacementConfig{
			PadPX:            8,
			Monitor:          MonitorMouse,
			LocateTries:      60,
			LocateIntervalMS: 50,
		},
		Notifications:  true,
		StartupBalloon: true,
		CloseOnExit:    true,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Mixer.Args = append([]string(nil), c.Mixer.Args...)
	return &out
}

// MixerPath returns the configured mixer or the platform default.
func (c *Config) MixerPath() string {
	return process.ResolveMixerPath(c.Mixer.Path)
}

// MixerProcessName returns the image name used to find stray mixers.
func (c *Config) MixerProcessName() string {
	if name := strings.TrimSpace(c.Mixer.ProcessName); name != "" {
		return name
	}
	return process.ImageName(c.MixerPath())
}

func (c *Config) Timeout() time.Duration { return ms(c.Watch.TimeoutMS) }

func (c *Config) PollInterval() time.Duration { return ms(c.Watch.PollMS) }

func (c *Config) Grace() time.Duration { return ms(c.Watch.GraceMS) }

func (c *Config) LocateInterval() time.Duration { return ms(c.Placement.LocateIntervalMS) }

// PreferPrimary reports whether the primary display is forced.
func (c *Config) PreferPrimary() bool {
	return c.Placement.Monitor == MonitorPrimary
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Watch.TimeoutMS <= 0 {
		return &ValidationError{Path: "watch.timeout_ms", Err: fmt.Errorf("timeout_ms must be > 0")}
	}
	if c.Watch.PollMS <= 0 {
		return &ValidationError{Path: "watch.poll_ms", Err: fmt.Errorf("poll_ms must be > 0")}
	}
	if c.Watch.DistancePX < 0 {
		return &ValidationError{Path: "watch.distance_px", Err: fmt.Errorf("distance_px must be >= 0")}
	}
	if c.Watch.GraceMS < 0 {
		return &ValidationError{Path: "watch.grace_ms", Err: fmt.Errorf("grace_ms must be >= 0")}
	}
	if c.Placement.PadPX < 0 {
		return &ValidationError{Path: "placement.pad_px", Err: fmt.Errorf("pad_px must be >= 0")}
	}
	switch c.Placement.Monitor {
	case MonitorMouse, MonitorPrimary:
	default:
		return &ValidationError{Path: "placement.monitor", Err: fmt.Errorf("monitor must be one of: mouse, primary")}
	}
	if c.Placement.LocateTries <= 0 {
		return &ValidationError{Path: "placement.locate_tries", Err: fmt.Errorf("locate_tries must be > 0")}
	}
	if c.Placement.LocateIntervalMS <= 0 {
		return &ValidationError{Path: "placement.locate_interval_ms", Err: fmt.Errorf("locate_interval_ms must be > 0")}
	}
	for i, arg := range c.Mixer.Args {
		if strings.TrimSpace(arg) == "" {
			return &ValidationError{Path: "mixer.args", Err: fmt.Errorf("argument %d must not be empty", i)}
		}
	}
	return nil
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveTo validates c and writes it to path, creating parent directories.
// The file is replaced atomically so a config watcher never sees a partial
// write.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// ValidationError ties a validation failure to a YAML path and, when known,
// the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
