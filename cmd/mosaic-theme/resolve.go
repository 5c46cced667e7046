package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"mosaic-theme/internal/theme"
)

func newResolveCmd() *cobra.Command {
	var (
		appName       string
		mode          string
		overridesPath string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the resolved style configuration as JSON",
		Example: `  mosaic-theme resolve --app client --mode dark
  mosaic-theme resolve --app admin --overrides overrides.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := theme.ParseApp(appName)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), "warn")
			if err != nil {
				return err
			}
			resolver, err := loadResolver(overridesPath, logger)
			if err != nil {
				return err
			}
			cfg, ok := resolver.Resolve(app, mode)
			if !ok {
				logger.Warn("theme mode normalized", "event", "mode_fallback", "input", mode, "mode", cfg.Palette.Mode)
			}
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&appName, "app", "a", string(theme.AppAdmin), "application: admin or client")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(theme.ModeLight), "theme mode: light or dark")
	cmd.Flags().StringVar(&overridesPath, "overrides", "", "YAML file layered on top of the resolved configuration")
	return cmd
}
