package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/diillson/agro-console/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Console é o console usado pelos comandos; SetAssumeYes liga a flag --yes.
type Console interface {
	types.ConsoleInterface
	SetAssumeYes(yes bool)
}

// Services agrupa os casos de uso que dependem da API.
type Services struct {
	Config    *types.Config
	Logger    *zap.Logger
	Producers *usecase.ProducerUseCase
	Forms     *usecase.ProducerFormUseCase
	Dashboard *usecase.DashboardUseCase
}

// ServicesFactory monta os serviços a partir dos argumentos globais. É chamada
// apenas pelos comandos que falam com a API.
type ServicesFactory func(args *types.CLIArgs) (*Services, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	console    Console
	factory    ServicesFactory
	envUseCase *usecase.EnvUseCase
	version    string

	services *Services
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, console Console, factory ServicesFactory) *CLIApp {
	app := &CLIApp{
		version: versionStr,
		console: console,
		factory: factory,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "agro-console",
		Short:         "Administrative console for agricultural producers",
		Version:       formattedVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Agro Console version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("api-url", "", "Base URL of the producers API (overrides config and environment)")
	rootCmd.PersistentFlags().StringP("env", "e", "", "Environment: dev or prod (selects api_url or api_url_prod)")
	rootCmd.PersistentFlags().IntP("timeout", "t", 0, "HTTP timeout in seconds (default 30)")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("yes", false, "Answer yes to every confirmation prompt")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		app.console.SetAssumeYes(yes)
	}

	rootCmd.AddCommand(
		app.newProducersCmd(),
		app.newCulturesCmd(),
		app.newDashboardCmd(),
		app.newEnvCmd(),
		app.newServeCmd(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with ctx available to every command.
func (app *CLIApp) ExecuteContext(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// SetArgs substitui os argumentos da linha de comando (usado em testes).
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// SetEnvUseCase sets the use case behind "env generate".
func (app *CLIApp) SetEnvUseCase(useCase *usecase.EnvUseCase) {
	app.envUseCase = useCase
}

// parseArgs parses the global command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	apiURL, _ := flags.GetString("api-url")
	env, _ := flags.GetString("env")
	timeout, _ := flags.GetInt("timeout")
	dir, _ := flags.GetString("dir")
	verbose, _ := flags.GetBool("verbose")
	yes, _ := flags.GetBool("yes")

	// Convert to absolute path
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	return &types.CLIArgs{
		ConfigFile: configFile,
		APIURL:     apiURL,
		Env:        env,
		Timeout:    timeout,
		Dir:        dir,
		Verbose:    verbose,
		Yes:        yes,
	}, nil
}

// servicesFor monta os serviços na primeira chamada.
func (app *CLIApp) servicesFor(cmd *cobra.Command) (*Services, error) {
	if app.services != nil {
		return app.services, nil
	}
	args, err := app.parseArgs(cmd)
	if err != nil {
		return nil, err
	}
	services, err := app.factory(args)
	if err != nil {
		app.console.LogError("%s", err)
		return nil, err
	}
	app.services = services
	return services, nil
}

// reportDir devolve o diretório de relatórios: flag --dir, config ou diretório atual.
func reportDir(services *Services) string {
	if services.Config != nil && services.Config.ReportDir != "" {
		return services.Config.ReportDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// runCommand é o ponto de entrada do comando raiz: banner e lista de produtores.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.console)

	ctx := cmd.Context()
	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if latest, newer := version.CheckLatestVersion(checkCtx, app.version); newer {
		app.console.LogWarning("A new version of Agro Console is available: %s", latest)
	}

	services, err := app.servicesFor(cmd)
	if err != nil {
		return err
	}
	return services.Producers.RunList(ctx, types.ReportArgs{})
}
