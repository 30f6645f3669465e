// Package config handles loading and saving sw configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/sw/config.yaml
//   - Data:    ~/.local/share/sw/
//   - State:   ~/.local/state/sw/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project represents a registered construction project in the config.
type Project struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowConnectors bool    `yaml:"show_connectors"`          // connector overlay visibility on startup
	PxPerDay       float64 `yaml:"px_per_day,omitempty"`     // export horizontal scale
	DefaultView    string  `yaml:"default_view,omitempty"`   // gantt, table
}

// ConnectorColors configures the three connector stroke colors of the
// overlay: default dependency arrows, critical-path arrows, and milestone
// links.
type ConnectorColors struct {
	Default   string `yaml:"default,omitempty"`
	Critical  string `yaml:"critical,omitempty"`
	Milestone string `yaml:"milestone,omitempty"`
}

// Config is the top-level configuration for sw.
type Config struct {
	Projects []Project       `yaml:"projects,omitempty"`
	UI       UIConfig        `yaml:"ui,omitempty"`
	Colors   ConnectorColors `yaml:"colors,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			ShowConnectors: true,
			PxPerDay:       18,
			DefaultView:    "gantt",
		},
		Colors: ConnectorColors{
			Default:   "#6b80bf",
			Critical:  "#e05252",
			Milestone: "#8a63c9",
		},
	}
}

// ConfigDir returns the XDG config directory for sw.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sw")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sw")
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

	for i := range cfg.Projects {
		cfg.Projects[i].Path = expandHome(cfg.Projects[i].Path)
	}

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

// FindProject returns the project with the given name, or nil.
func (c Config) FindProject(name string) *Project {
	for i := range c.Projects {
		if strings.EqualFold(c.Projects[i].Name, name) {
			return &c.Projects[i]
		}
	}
	return nil
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
