package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// Config holds user defaults loaded from the config file. Pointer fields
// distinguish "not set in the file" from an explicit zero.
type Config struct {
	PaddingX      *int  `toml:"padding_x"`
	PaddingY      *int  `toml:"padding_y"`
	BorderPadding *int  `toml:"border_padding"`
	ASCII         *bool `toml:"ascii"`
	Coords        *bool `toml:"coords"`
}

// configPath returns the config file location using the XDG standard
// (~/.config/flowgrid/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads a TOML config file. A missing file is not an error and
// yields the zero Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefaultConfig loads the config from the standard location, falling
// back to defaults when the file is missing or unreadable.
func LoadDefaultConfig() Config {
	path, err := configPath()
	if err != nil {
		return Config{}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}
	}
	return cfg
}

// apply fills unset pipeline options from the config file. Flags that were
// passed explicitly stay untouched.
func (c Config) apply(opts *pipeline.Options) {
	if opts.PaddingX < 0 && c.PaddingX != nil {
		opts.PaddingX = *c.PaddingX
	}
	if opts.PaddingY < 0 && c.PaddingY != nil {
		opts.PaddingY = *c.PaddingY
	}
	if opts.BorderPadding < 0 && c.BorderPadding != nil {
		opts.BorderPadding = *c.BorderPadding
	}
	if !opts.ASCII && c.ASCII != nil {
		opts.ASCII = *c.ASCII
	}
	if !opts.Coords && c.Coords != nil {
		opts.Coords = *c.Coords
	}
}
