package repository

import (
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	// LoadConfigFile parses a TOML, YAML or JSON file.
	LoadConfigFile(filePath string) (*types.Config, error)
	// Load reads .env, the optional config file, environment overrides and the
	// given overrides, then applies defaults.
	Load(filePath string, overrides ...func(*types.Config)) (*types.Config, error)
}
