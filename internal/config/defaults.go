package config

import "github.com/spf13/viper"

// setDefaults sets all default values for a single-node deployment.
func setDefaults(v *viper.Viper) {
	// Ledger defaults
	v.SetDefault("ledger.data_deposit_per_byte", 1)
	v.SetDefault("ledger.listing_deposit", 10)
	v.SetDefault("ledger.existential_deposit", 5)
	v.SetDefault("ledger.listing_duration", 604800) // seven days
	v.SetDefault("ledger.retain_burnt", false)

	// Database defaults
	v.SetDefault("database.backend", "pebble")
	v.SetDefault("database.path", "/var/lib/nftmarketd/db")

	// Server defaults
	v.SetDefault("server.listen", "127.0.0.1:5005")

	// Sweep defaults
	v.SetDefault("sweep.interval", "1m")

	// Event journal defaults
	v.SetDefault("events.path", "/var/lib/nftmarketd/events.db")

	v.SetDefault("log_level", "info")
}
