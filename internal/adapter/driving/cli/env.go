package cli

import (
	"errors"

	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/spf13/cobra"
)

func (app *CLIApp) newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Environment configuration helpers",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write a configuration file from .env and the environment (use --env dev|prod)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.envUseCase == nil {
				return errors.New("env use case not configured")
			}
			env, _ := cmd.Flags().GetString("env")
			if env == "" {
				env = types.EnvDevelopment
			}
			output, _ := cmd.Flags().GetString("output")
			envFiles, _ := cmd.Flags().GetStringSlice("env-file")
			_, err := app.envUseCase.Generate(env, output, envFiles...)
			return err
		},
	}
	generate.Flags().StringP("output", "o", "agro-console.yaml", "Configuration file to write (.toml, .yaml or .json)")
	generate.Flags().StringSlice("env-file", []string{".env"}, ".env files to load before reading the environment")

	cmd.AddCommand(generate)
	return cmd
}
