// Package config loads the daemon configuration from a TOML file,
// environment variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nftmarketd/nftmarketd/internal/storage"
)

// Config represents the complete nftmarketd configuration.
type Config struct {
	Ledger   LedgerConfig   `toml:"ledger" mapstructure:"ledger"`
	Database DatabaseConfig `toml:"database" mapstructure:"database"`
	Server   ServerConfig   `toml:"server" mapstructure:"server"`
	Sweep    SweepConfig    `toml:"sweep" mapstructure:"sweep"`
	Events   EventsConfig   `toml:"events" mapstructure:"events"`
	LogLevel string         `toml:"log_level" mapstructure:"log_level"`

	configPath string `toml:"-" mapstructure:"-"`
}

// LedgerConfig tunes the deposit and expiry parameters of the
// marketplace engine.
type LedgerConfig struct {
	DataDepositPerByte uint64 `toml:"data_deposit_per_byte" mapstructure:"data_deposit_per_byte"`
	ListingDeposit     uint64 `toml:"listing_deposit" mapstructure:"listing_deposit"`
	ExistentialDeposit uint64 `toml:"existential_deposit" mapstructure:"existential_deposit"`
	ListingDuration    uint64 `toml:"listing_duration" mapstructure:"listing_duration"`
	RetainBurnt        bool   `toml:"retain_burnt" mapstructure:"retain_burnt"`
}

// DatabaseConfig selects the key-value backend holding ledger state.
type DatabaseConfig struct {
	Backend string `toml:"backend" mapstructure:"backend"`
	Path    string `toml:"path" mapstructure:"path"`
}

// ServerConfig configures the JSON-RPC listener.
type ServerConfig struct {
	Listen string `toml:"listen" mapstructure:"listen"`
}

// SweepConfig configures the background expiry sweep.
type SweepConfig struct {
	Interval time.Duration `toml:"interval" mapstructure:"interval"`
}

// EventsConfig configures the SQLite event journal.
type EventsConfig struct {
	Path string `toml:"path" mapstructure:"path"`
}

// GetConfigPath returns the path the configuration was loaded from.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Validate checks the configuration for values the daemon cannot run
// with.
func (c *Config) Validate() error {
	switch c.Database.Backend {
	case storage.BackendPebble, storage.BackendBbolt, storage.BackendMemory:
	default:
		return fmt.Errorf("unknown database backend: %q", c.Database.Backend)
	}
	if c.Database.Backend != storage.BackendMemory && c.Database.Path == "" {
		return fmt.Errorf("database path is required for backend %q", c.Database.Backend)
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.Sweep.Interval)
	}
	if c.Events.Path == "" {
		return fmt.Errorf("events path cannot be empty")
	}
	if c.Ledger.ListingDuration == 0 {
		return fmt.Errorf("listing duration must be positive")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}

// DefaultConfigPath returns the default configuration file location,
// preferring a file in the working directory over the system path.
func DefaultConfigPath() string {
	local := "nftmarketd.toml"
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Join("/etc/nftmarketd", "nftmarketd.toml")
}
