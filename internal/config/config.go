// Package config loads the optional YAML settings file used by the cicin CLI and REPL.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the working and home directories.
const FileName = ".cicin.yml"

// EnvVar names the environment variable that points at a settings file.
const EnvVar = "CICIN_CONFIG"

// MaxCallDepthLimit bounds max_call_depth so deep recursion fails with a
// runtime error before the Go stack is exhausted.
const MaxCallDepthLimit = 50000

// Config holds CLI and REPL settings. Fields missing from the file keep their defaults.
type Config struct {
	Path string `yaml:"-"` // file the settings came from; empty for defaults

	MaxCallDepth int    `yaml:"max_call_depth"`
	HistoryFile  string `yaml:"history_file"`
	Color        bool   `yaml:"color"`
	LogLevel     string `yaml:"log_level"`
	Prompt       string `yaml:"prompt"`
}

// Default returns the settings used when no file is found.
func Default() *Config {
	return &Config{
		MaxCallDepth: 5000,
		HistoryFile:  filepath.Join(os.TempDir(), ".cicin_history"),
		Color:        true,
		LogLevel:     "warn",
		Prompt:       "cicin> ",
	}
}

// ValidationError aggregates settings validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config: %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads settings from path on top of the defaults. An empty file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.Path = path
	cfg.HistoryFile = expandHome(cfg.HistoryFile)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover finds the settings file to use: explicit, then $CICIN_CONFIG,
// then ./.cicin.yml, then ~/.cicin.yml. With none present it returns Default().
func Discover(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}

	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: stat %s: %w", candidate, err)
		}
	}
	return Default(), nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	if lvl, ok := levels[strings.ToLower(c.LogLevel)]; ok {
		return lvl
	}
	return slog.LevelWarn
}

func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}
	switch {
	case c.MaxCallDepth <= 0:
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be positive, got %d", c.MaxCallDepth))
	case c.MaxCallDepth > MaxCallDepthLimit:
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be at most %d, got %d", MaxCallDepthLimit, c.MaxCallDepth))
	}
	if _, ok := levels[strings.ToLower(c.LogLevel)]; !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
