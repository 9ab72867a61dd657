package usecase

import (
	"fmt"

	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/diillson/agro-console/internal/shared/types"
)

// EnvUseCase gera o arquivo de configuração a partir das variáveis de ambiente.
type EnvUseCase struct {
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
}

// NewEnvUseCase creates a new env use case.
func NewEnvUseCase(configRepo repository.ConfigRepository, console types.ConsoleInterface) *EnvUseCase {
	return &EnvUseCase{configRepo: configRepo, console: console}
}

// Generate lê o .env e o ambiente, escolhe a URL da API conforme environment
// (dev ou prod) e grava o arquivo em outputPath.
func (uc *EnvUseCase) Generate(environment, outputPath string, envFiles ...string) (*types.Config, error) {
	if environment != types.EnvProduction {
		environment = types.EnvDevelopment
	}

	envCfg, err := uc.configRepo.LoadEnv(envFiles...)
	if err != nil {
		return nil, err
	}
	envCfg.Environment = environment

	if envCfg.ActiveAPIURL() == "" {
		uc.console.LogError("API_URL not found in .env for %s environment.", environmentName(environment))
		return nil, types.ErrAPIURLNotConfigured
	}

	cfg := &types.Config{
		APIURL:         envCfg.ActiveAPIURL(),
		Environment:    environment,
		TimeoutSeconds: envCfg.TimeoutSeconds,
		ListenAddr:     envCfg.ListenAddr,
		ReportDir:      envCfg.ReportDir,
		CORSOrigins:    envCfg.CORSOrigins,
	}

	uc.console.LogInfo("Generating configuration file for %s environment at %s...", environment, outputPath)
	if err := uc.configRepo.WriteConfigFile(outputPath, cfg); err != nil {
		return nil, fmt.Errorf("write %s: %w", outputPath, err)
	}
	uc.console.LogSuccess("Configuration file generated successfully.")
	return cfg, nil
}

func environmentName(env string) string {
	if env == types.EnvProduction {
		return "production"
	}
	return "development"
}
