// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all usermgr configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Display Display `yaml:"display"`
	Audit   Audit   `yaml:"audit"`
}

// Storage holds persistence settings.
type Storage struct {
	File string `yaml:"file"`
}

// Display holds console presentation settings.
type Display struct {
	Color bool `yaml:"color"` // Colored banner and prompt on a terminal
	Clear bool `yaml:"clear"` // Clear the terminal between actions
	Pause bool `yaml:"pause"` // Wait for Enter after each action
}

// Audit holds operation log settings.
type Audit struct {
	Path string `yaml:"path"` // Empty disables the audit log
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			File: "users.txt",
		},
		Display: Display{
			Color: true,
			Clear: true,
			Pause: true,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.File == "" {
		return errors.New("config: storage.file cannot be empty")
	}
	if c.Audit.Path != "" && c.Audit.Path == c.Storage.File {
		return fmt.Errorf("config: audit.path must differ from storage.file, both are %q", c.Storage.File)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: USERMGR_FILE, USERMGR_COLOR, USERMGR_AUDIT_LOG.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("USERMGR_FILE"); v != "" {
		c.Storage.File = v
	}
	if v := os.Getenv("USERMGR_COLOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid USERMGR_COLOR %q: %w", v, err)
		}
		c.Display.Color = b
	}
	if v := os.Getenv("USERMGR_AUDIT_LOG"); v != "" {
		c.Audit.Path = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Display *rawDisplay `yaml:"display"`
	Audit   *rawAudit   `yaml:"audit"`
}

type rawStorage struct {
	File *string `yaml:"file"`
}

type rawDisplay struct {
	Color *bool `yaml:"color"`
	Clear *bool `yaml:"clear"`
	Pause *bool `yaml:"pause"`
}

type rawAudit struct {
	Path *string `yaml:"path"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil && layer.Storage.File != nil {
		c.Storage.File = *layer.Storage.File
	}
	if layer.Display != nil {
		if layer.Display.Color != nil {
			c.Display.Color = *layer.Display.Color
		}
		if layer.Display.Clear != nil {
			c.Display.Clear = *layer.Display.Clear
		}
		if layer.Display.Pause != nil {
			c.Display.Pause = *layer.Display.Pause
		}
	}
	if layer.Audit != nil && layer.Audit.Path != nil {
		c.Audit.Path = *layer.Audit.Path
	}
}
