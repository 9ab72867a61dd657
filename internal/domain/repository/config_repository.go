package repository

import (
	"github.com/diillson/agro-console/internal/shared/types"
)

// ConfigRepository defines the interface for loading and writing configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	WriteConfigFile(filePath string, cfg *types.Config) error
	// LoadEnv lê o .env (se existir) e devolve a configuração vinda do ambiente.
	LoadEnv(envFiles ...string) (*types.Config, error)
}
