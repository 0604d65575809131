package adapter

import (
	"log/slog"

	"github.com/jacentio/sdbmap/sdbql"
)

// Config holds configuration for the Adapter.
type Config struct {
	// TypeAttribute is the reserved attribute holding each item's storage name.
	// Default: "simpledb_type"
	TypeAttribute string

	// VersionAttribute enables optimistic locking when the domain implements
	// store.Swapper. Create writes version 1 and every update claims the next
	// version before changing anything.
	// Default: "" (disabled)
	VersionAttribute string

	// Logger receives operation logs. Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns the configuration matching the store's conventions.
func DefaultConfig() Config {
	return Config{
		TypeAttribute: sdbql.DefaultTypeAttribute,
	}
}

// validate fills in missing values.
func (c *Config) validate() {
	if c.TypeAttribute == "" {
		c.TypeAttribute = sdbql.DefaultTypeAttribute
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
