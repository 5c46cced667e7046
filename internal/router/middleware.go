// Package router builds the SSH middleware chain that selects an application
// and theme mode for each session.
package router

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"mosaic-theme/internal/metrics"
	"mosaic-theme/internal/theme"
)

type contextKey string

const (
	sessionAppKey      contextKey = "app"
	sessionModeKey     contextKey = "theme-mode"
	sessionMetadataKey contextKey = "session-metadata"
)

// ModeEnvKey is the session environment variable clients send (for example
// with `ssh -o SendEnv=THEME_MODE`) to pick a mode.
const ModeEnvKey = "THEME_MODE"

const unknownAppMessage = "unknown application; connect as admin@ or client@\n"

// appPolicy maps exact SSH usernames to applications.
var appPolicy = map[string]theme.App{
	"admin":  theme.AppAdmin,
	"client": theme.AppClient,
}

// Descriptor names one middleware in the chain.
type Descriptor struct {
	Name       string
	Middleware wish.Middleware
}

// Options configures the default chain.
type Options struct {
	DefaultMode theme.Mode
	Resolver    theme.Resolver
	Logger      *log.Logger
	Metrics     *metrics.Metrics
}

// SessionInfo is stored on the session context once routing is complete.
type SessionInfo struct {
	Username   string
	RemoteAddr string
	App        theme.App
	Mode       theme.Mode
	Config     theme.Config
	StartedAt  time.Time
}

// DefaultChain wires the routing middleware in execution order:
// app routing, theme mode, and session metadata.
func DefaultChain(opts Options) []Descriptor {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return []Descriptor{
		{Name: "app-routing", Middleware: appRouting(opts.Logger)},
		{Name: "theme-mode", Middleware: themeMode(opts.DefaultMode, opts.Logger, opts.Metrics)},
		{Name: "session-metadata", Middleware: sessionMetadata(opts.Resolver)},
	}
}

// MiddlewareFromDescriptors returns the middleware of chain in the same
// (execution) order.
func MiddlewareFromDescriptors(chain []Descriptor) []wish.Middleware {
	out := make([]wish.Middleware, 0, len(chain))
	for _, d := range chain {
		out = append(out, d.Middleware)
	}
	return out
}

// Wrap composes chain around h so that chain[0] runs first.
func Wrap(h ssh.Handler, chain []Descriptor) ssh.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i].Middleware(h)
	}
	return h
}

// AppFrom returns the application selected for a session.
func AppFrom(ctx ssh.Context) (theme.App, bool) {
	app, ok := ctx.Value(sessionAppKey).(theme.App)
	return app, ok
}

// ModeFrom returns the normalized mode selected for a session.
func ModeFrom(ctx ssh.Context) (theme.Mode, bool) {
	mode, ok := ctx.Value(sessionModeKey).(theme.Mode)
	return mode, ok
}

// InfoFrom returns the session metadata.
func InfoFrom(ctx ssh.Context) (SessionInfo, bool) {
	info, ok := ctx.Value(sessionMetadataKey).(SessionInfo)
	return info, ok
}

func appRouting(logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			app, ok := appPolicy[s.User()]
			if !ok {
				logger.Warn("session rejected", "event", "unknown_app", "user", s.User(), "remote", remoteAddr(s))
				_, _ = s.Write([]byte(unknownAppMessage))
				_ = s.Exit(1)
				return
			}
			s.Context().SetValue(sessionAppKey, app)
			next(s)
		}
	}
}

func themeMode(defaultMode theme.Mode, logger *log.Logger, m *metrics.Metrics) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			raw, fromEnv := lookupEnv(s.Environ(), ModeEnvKey)
			if !fromEnv {
				raw = string(defaultMode)
			}
			mode, ok := theme.NormalizeMode(raw)
			if !ok {
				logger.Warn("theme mode normalized", "event", "mode_fallback", "input", raw, "mode", mode, "from_env", fromEnv)
			}
			app, _ := AppFrom(s.Context())
			m.ObserveResolution("ssh", string(app), string(mode), !ok)
			s.Context().SetValue(sessionModeKey, mode)
			next(s)
		}
	}
}

func sessionMetadata(resolver theme.Resolver) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			app, _ := AppFrom(s.Context())
			mode, _ := ModeFrom(s.Context())
			cfg, _ := resolver.Resolve(app, string(mode))
			s.Context().SetValue(sessionMetadataKey, SessionInfo{
				Username:   s.User(),
				RemoteAddr: remoteAddr(s),
				App:        app,
				Mode:       mode,
				Config:     cfg,
				StartedAt:  time.Now().UTC(),
			})
			next(s)
		}
	}
}

func lookupEnv(environ []string, key string) (string, bool) {
	prefix := key + "="
	for i := len(environ) - 1; i >= 0; i-- {
		if strings.HasPrefix(environ[i], prefix) {
			return strings.TrimPrefix(environ[i], prefix), true
		}
	}
	return "", false
}

func remoteAddr(s ssh.Session) string {
	if addr := s.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
