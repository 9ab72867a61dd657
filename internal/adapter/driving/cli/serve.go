package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/diillson/agro-console/internal/adapter/driving/web"
	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (app *CLIApp) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser console (producers list, form and dashboard)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.servicesFor(cmd)
			if err != nil {
				return err
			}

			addr := types.DefaultListenAddr
			if services.Config != nil && services.Config.ListenAddr != "" {
				addr = services.Config.ListenAddr
			}
			if cmd.Flags().Changed("listen") {
				addr, _ = cmd.Flags().GetString("listen")
			}
			origins, _ := cmd.Flags().GetStringSlice("cors-origin")
			if len(origins) == 0 && services.Config != nil {
				origins = services.Config.CORSOrigins
			}

			server, err := web.NewServer(services.Producers, services.Forms, services.Dashboard, services.Logger, web.Options{CORSOrigins: origins})
			if err != nil {
				return err
			}
			return app.serve(cmd.Context(), services.Logger, addr, server.Routes())
		},
	}
	cmd.Flags().StringP("listen", "l", types.DefaultListenAddr, "Address to listen on")
	cmd.Flags().StringSlice("cors-origin", nil, "Origins allowed to read /dashboard/data.json")
	return cmd
}

// serve roda o servidor HTTP até ctx ser cancelado.
func (app *CLIApp) serve(ctx context.Context, logger *zap.Logger, addr string, handler http.Handler) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	app.console.LogInfo("Agro Console listening on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down web console", zap.String("addr", addr))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		app.console.LogInfo("Agro Console stopped.")
		return nil
	}
}
