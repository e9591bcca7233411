package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/patient-registry/internal/console"
	"github.com/jwalitptl/patient-registry/internal/handler"
	"github.com/jwalitptl/patient-registry/internal/handler/billing"
	"github.com/jwalitptl/patient-registry/internal/handler/inventory"
	"github.com/jwalitptl/patient-registry/internal/handler/patient"
	"github.com/jwalitptl/patient-registry/internal/router"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "registry",
		Short:         "Hospital patient registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	rootCmd.AddCommand(consoleCmd(&configPath))
	rootCmd.AddCommand(serveCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func consoleCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive registry menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			return console.New(a.service, a.logger).Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the registry HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	gin.SetMode(gin.ReleaseMode)

	routerConfig := router.RouterConfig{
		MetricsPrefix: "registry_http",
		Registerer:    a.registry,
	}
	if a.cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(a.cfg.RateLimit.RPS)
		routerConfig.RateBurst = a.cfg.RateLimit.Burst
	}
	if a.cfg.Metrics.Enabled {
		routerConfig.MetricsPath = a.cfg.Metrics.Path
	}

	r := router.NewRouter(
		handler.NewHandler(a.service, a.registry),
		[]router.Handler{
			patient.NewHandler(a.service),
			billing.NewHandler(a.service),
			inventory.NewHandler(a.service),
		},
		routerConfig,
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  a.cfg.Timeout(),
		WriteTimeout: a.cfg.Timeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", a.cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
