// Package config loads the escrow deployment configuration from a YAML file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full deployment configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Platform PlatformConfig `yaml:"platform"`
	Audit    AuditConfig    `yaml:"audit"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig locates the sqlite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PlatformConfig seeds the owner, treasury, and starting fee.
type PlatformConfig struct {
	Owner          string `yaml:"owner"`
	Treasury       string `yaml:"treasury"`
	FeeBasisPoints int64  `yaml:"fee_basis_points"`
}

// AuditConfig holds the custody sweep schedule.
type AuditConfig struct {
	Schedule string `yaml:"schedule"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Load reads a YAML config file and applies defaults. A missing file yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	// Set defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "escrow.db"
	}
	if cfg.Platform.FeeBasisPoints == 0 {
		cfg.Platform.FeeBasisPoints = 250
	}
	if cfg.Platform.Treasury == "" {
		cfg.Platform.Treasury = cfg.Platform.Owner
	}
	if cfg.Audit.Schedule == "" {
		cfg.Audit.Schedule = "@every 10m"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	return cfg, nil
}
