package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diillson/agro-console/internal/adapter/driven/api"
	"github.com/diillson/agro-console/internal/adapter/driven/config"
	"github.com/diillson/agro-console/internal/adapter/driven/export"
	"github.com/diillson/agro-console/internal/adapter/driving/cli"
	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/diillson/agro-console/pkg/console"
	"github.com/diillson/agro-console/pkg/logger"
	"github.com/diillson/agro-console/pkg/version"
)

func main() {
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Os serviços que falam com a API só são montados pelos comandos que precisam deles
	factory := func(args *types.CLIArgs) (*cli.Services, error) {
		cfg, err := config.Resolve(configRepo, args, ".env")
		if err != nil {
			return nil, err
		}
		log, err := logger.New(cfg.Verbose)
		if err != nil {
			return nil, err
		}

		client, err := api.NewClient(cfg.ActiveAPIURL(), time.Duration(cfg.TimeoutSeconds)*time.Second, log)
		if err != nil {
			return nil, err
		}
		producerRepo := api.NewProducerRepository(client)
		dashboardRepo := api.NewDashboardRepository(client)
		exportRepo := export.NewExportRepository()

		forms := usecase.NewProducerFormUseCase(producerRepo, log)
		return &cli.Services{
			Config:    cfg,
			Logger:    log,
			Producers: usecase.NewProducerUseCase(producerRepo, exportRepo, export.NewImportRepository(), forms, consoleImpl, log),
			Forms:     forms,
			Dashboard: usecase.NewDashboardUseCase(dashboardRepo, exportRepo, consoleImpl, log),
		}, nil
	}

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version, consoleImpl, factory)
	app.SetEnvUseCase(usecase.NewEnvUseCase(configRepo, consoleImpl))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Executa o aplicativo
	if err := app.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
