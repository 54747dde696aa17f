// Package config handles loading and saving player configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/phylomovies/config.yaml
//   - State:   ~/.local/state/phylomovies/ (session cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlaybackConfig holds playback preferences.
type PlaybackConfig struct {
	Speed  float64 `yaml:"speed,omitempty"`   // transitions per second
	FPSCap float64 `yaml:"fps_cap,omitempty"` // frame rate ceiling
}

// StyleConfig holds drawing preferences.
type StyleConfig struct {
	Factor               float64 `yaml:"factor,omitempty"`       // zoom divisor
	FontSize             float64 `yaml:"font_size,omitempty"`    // label size in px
	StrokeWidth          float64 `yaml:"stroke_width,omitempty"` // branch width in px
	BranchTransform      string  `yaml:"branch_transform,omitempty"`
	MonophyleticColoring bool    `yaml:"monophyletic_coloring,omitempty"`
	UniformScaling       bool    `yaml:"uniform_scaling,omitempty"`
}

// MSAConfig holds alignment viewer defaults, used when a bundle carries no
// alignment parameters of its own.
type MSAConfig struct {
	WindowSize int `yaml:"window_size,omitempty"`
	StepSize   int `yaml:"step_size,omitempty"`
}

// ExportConfig holds snapshot export defaults.
type ExportConfig struct {
	Dir    string  `yaml:"dir,omitempty"`    // default output directory
	Width  float64 `yaml:"width,omitempty"`  // canvas size for exports
	Height float64 `yaml:"height,omitempty"`
}

// Config is the top-level configuration for the player.
type Config struct {
	Recent   []string       `yaml:"recent,omitempty"` // recently opened bundle paths
	Playback PlaybackConfig `yaml:"playback,omitempty"`
	Style    StyleConfig    `yaml:"style,omitempty"`
	MSA      MSAConfig      `yaml:"msa,omitempty"`
	Export   ExportConfig   `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Playback: PlaybackConfig{Speed: 1, FPSCap: 60},
		Style: StyleConfig{
			Factor:      1,
			FontSize:    12,
			StrokeWidth: 1.5,
		},
		MSA:    MSAConfig{WindowSize: 100, StepSize: 1},
		Export: ExportConfig{Width: 1000, Height: 1000},
	}
}

const appDir = "phylomovies"

// ConfigDir returns the XDG config directory for the player.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// StateDir returns the XDG state directory for the player.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appDir)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	for i := range cfg.Recent {
		cfg.Recent[i] = expandHome(cfg.Recent[i])
	}
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// RememberRecent prepends a bundle path to the recent list, deduplicated
// and capped at ten entries.
func (c *Config) RememberRecent(path string) {
	out := []string{path}
	for _, p := range c.Recent {
		if p != path && len(out) < 10 {
			out = append(out, p)
		}
	}
	c.Recent = out
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
