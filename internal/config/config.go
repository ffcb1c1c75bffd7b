// Package config loads optional forestctl.toml defaults. Everything in the
// file can also be set with command-line flags; flags win.
package config

import (
	"bytes"
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/forestctl/forestctl/internal/messages"
)

// Paths holds default provisioning directories.
type Paths struct {
	Database string `toml:"database"`
	Log      string `toml:"log"`
	Sysvol   string `toml:"sysvol"`
}

// Config mirrors forestctl.toml.
type Config struct {
	Paths      Paths    `toml:"paths"`
	Repository string   `toml:"repository"`
	Modules    []string `toml:"modules"`
	MinFreeGB  int64    `toml:"min_free_gb"`
	LogFile    string   `toml:"log_file"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return &Config{
		Paths: Paths{
			Database: `C:\Windows\NTDS`,
			Log:      `C:\Windows\NTDS`,
			Sysvol:   `C:\Windows\SYSVOL`,
		},
		Repository: "PSGallery",
		Modules:    []string{"Microsoft.PowerShell.SecretManagement", "Az.KeyVault"},
		MinFreeGB:  10,
	}
}

// Load reads the config file at path, layering it over Default. A missing
// file is not an error when path is empty (no --config given); an explicit
// path that does not exist is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, expanded, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidTOMLFmt, expanded, err)
	}
	if cfg.MinFreeGB < 0 {
		return nil, fmt.Errorf(messages.ConfigNegativeFreeFmt, cfg.MinFreeGB)
	}
	if cfg.LogFile != "" {
		if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
			return nil, fmt.Errorf(messages.ConfigExpandPathFmt, cfg.LogFile, err)
		}
	}
	return cfg, nil
}

// MinFreeBytes converts the configured gigabyte threshold to bytes.
func (c *Config) MinFreeBytes() uint64 {
	return uint64(c.MinFreeGB) << 30
}
