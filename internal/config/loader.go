package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Source records where a config value was set.
type Source struct {
	File   string
	Line   int
	Column int
}

// LoadResult is a loaded config plus where each value came from.
type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> position in File
	File    string            // empty when no config file exists
}

// DefaultConfigPath returns ~/.config/voltray/config.yaml, or the per-user
// config directory on Windows.
func DefaultConfigPath() (string, error) {
	if runtime.GOOS == "windows" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to get config directory: %w", err)
		}
		return filepath.Join(dir, "voltray", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "voltray", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for error reporting.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path over the defaults. A missing file is not an error;
// the result then has an empty File.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	res := &LoadResult{Config: cfg, Sources: map[string]Source{}}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := decodeStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		res.Sources = valuePositions(data, path)
		res.File = path
	}

	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			if src, ok := res.Sources[verr.Path]; ok && verr.Path != "" {
				verr.Source = src
			}
		}
		return nil, err
	}
	return res, nil
}

// decodeStrict rejects unknown keys. An empty document leaves out untouched.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// valuePositions maps dotted YAML key paths ("watch.timeout_ms") to the
// position of their values in file.
func valuePositions(data []byte, file string) map[string]Source {
	out := make(map[string]Source)
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return out
	}

	var walk func(node *yaml.Node, prefix string)
	walk = func(node *yaml.Node, prefix string) {
		if node.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i].Value, node.Content[i+1]
			if prefix != "" {
				key = prefix + "." + key
			}
			out[key] = Source{File: file, Line: val.Line, Column: val.Column}
			walk(val, key)
		}
	}
	walk(doc.Content[0], "")
	return out
}
