// Package theme resolves typed, immutable style configurations for the admin
// and client form applications.
//
// Integration example:
//
//	cfg := theme.ForApp(theme.AppClient, os.Getenv("THEME_MODE"))
//	styles := render.New(cfg, lipgloss.DefaultRenderer())
//	field.PromptStyle = styles.Label
//	field.TextStyle = styles.Input
//
// Every function in this package is pure: the same mode always yields an
// equal Config, and no returned value aliases package state.
package theme
