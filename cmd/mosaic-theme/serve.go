package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mosaic-theme/internal/config"
	"mosaic-theme/internal/metrics"
	"mosaic-theme/internal/router"
	"mosaic-theme/internal/server"
	"mosaic-theme/internal/themeapi"
)

const (
	httpReadHeaderTimeout = 5 * time.Second
	httpShutdownTimeout   = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SSH form server and the theme API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(os.Stderr, cfg.LogLevel)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (MOSAIC_* environment variables take precedence)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	if cfg.ModeFallback {
		logger.Warn("configured theme mode not recognized", "event", "mode_fallback", "mode", cfg.DefaultMode)
	}
	resolver, err := loadResolver(cfg.OverridesPath, logger)
	if err != nil {
		return err
	}
	m := metrics.Default()

	chain := router.DefaultChain(router.Options{
		DefaultMode: cfg.DefaultMode,
		Resolver:    resolver,
		Logger:      logger,
		Metrics:     m,
	})
	runtime, err := server.New(cfg, chain, logger, m)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runtime.Run(gctx)
	})

	if cfg.HTTPAddr != "" {
		api := themeapi.NewHandler(themeapi.Options{
			DefaultMode: cfg.DefaultMode,
			Resolver:    resolver,
			Logger:      logger,
			Metrics:     m,
		})
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.Routes(),
			ReadHeaderTimeout: httpReadHeaderTimeout,
		}
		g.Go(func() error {
			logger.Info("theme api starting", "event", "startup", "address", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("shutdown complete", "event", "shutdown")
	return err
}
