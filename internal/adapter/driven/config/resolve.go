package config

import (
	"fmt"

	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/diillson/agro-console/internal/shared/types"
)

// Resolve monta a configuração efetiva: flags > arquivo > ambiente (.env) > padrões.
func Resolve(repo repository.ConfigRepository, args *types.CLIArgs, envFiles ...string) (*types.Config, error) {
	cfg := Defaults()

	envCfg, err := repo.LoadEnv(envFiles...)
	if err != nil {
		return nil, err
	}
	cfg = Merge(cfg, envCfg)

	if args.ConfigFile != "" {
		fileCfg, err := repo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = Merge(cfg, fileCfg)
	}

	cfg = Merge(cfg, &types.Config{
		Environment:    args.Env,
		TimeoutSeconds: args.Timeout,
		ReportDir:      args.Dir,
		Verbose:        args.Verbose,
	})
	// --api-url vale para qualquer ambiente.
	if args.APIURL != "" {
		cfg.APIURL = args.APIURL
		cfg.APIURLProd = args.APIURL
	}

	if cfg.Environment != types.EnvDevelopment && cfg.Environment != types.EnvProduction {
		return nil, fmt.Errorf("invalid environment %q: expected %s or %s", cfg.Environment, types.EnvDevelopment, types.EnvProduction)
	}
	return cfg, nil
}
