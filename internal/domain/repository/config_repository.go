package repository

import (
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	ResolveEnvironment(fileCfg *types.Config) (*types.Environment, error)
}
