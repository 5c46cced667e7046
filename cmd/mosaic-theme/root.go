package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mosaic-theme/internal/server"
	"mosaic-theme/internal/theme"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mosaic-theme",
		Short:         "Serve themed admin and client forms over SSH",
		Long:          "mosaic-theme resolves light/dark style configurations for the admin and client applications and serves them as SSH form sessions and a JSON API.",
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newResolveCmd())
	return root
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "mosaic",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// loadResolver builds the resolver with the operator override file at path.
// An empty path disables overrides.
func loadResolver(path string, logger *log.Logger) (theme.Resolver, error) {
	if path == "" {
		return theme.NewResolver(nil), nil
	}
	overrides, err := theme.LoadOverrides(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return theme.Resolver{}, fmt.Errorf("theme overrides file %q not found", path)
		}
		return theme.Resolver{}, err
	}
	logger.Info("theme overrides loaded", "event", "overrides_loaded", "path", path)
	return theme.NewResolver(&overrides), nil
}
