// Package server runs the admin and client form applications over SSH.
package server

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"mosaic-theme/internal/config"
	"mosaic-theme/internal/metrics"
	"mosaic-theme/internal/render"
	"mosaic-theme/internal/router"
	"mosaic-theme/internal/theme"
	"mosaic-theme/internal/tui"
)

// Version is reported in startup logs.
var Version = "dev"

const shutdownTimeout = 5 * time.Second

// Runtime wires config + middleware + Wish server as a testable unit.
type Runtime struct {
	cfg           config.Config
	logger        *log.Logger
	middlewareIDs []string
	server        *ssh.Server
}

// New builds the SSH runtime. The chain runs after rate limiting and the
// session cap, in the order given, before the form handler.
func New(cfg config.Config, chain []router.Descriptor, logger *log.Logger, m *metrics.Metrics) (*Runtime, error) {
	if logger == nil {
		logger = log.Default()
	}

	full := append([]router.Descriptor{
		{Name: "rate-limit", Middleware: RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger)},
		{Name: "max-sessions", Middleware: MaxSessionsMiddleware(cfg.MaxSessions, logger, m)},
	}, chain...)
	full = append(full,
		router.Descriptor{Name: "active-term", Middleware: activeterm.Middleware()},
		router.Descriptor{Name: "form", Middleware: bm.Middleware(FormHandler)},
	)

	// wish runs the last middleware first.
	middleware := []wish.Middleware{}
	for i := len(full) - 1; i >= 0; i-- {
		middleware = append(middleware, full[i].Middleware)
	}
	middleware = append(middleware, logging.MiddlewareWithLogger(logger))

	sshServer, err := wish.NewServer(
		wish.WithAddress(cfg.SSHAddress()),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(middleware...),
	)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(full))
	for _, descriptor := range full {
		ids = append(ids, descriptor.Name)
	}

	return &Runtime{cfg: cfg, logger: logger, middlewareIDs: ids, server: sshServer}, nil
}

// MiddlewareIDs lists the middleware names in execution order.
func (r *Runtime) MiddlewareIDs() []string {
	out := make([]string, len(r.middlewareIDs))
	copy(out, r.middlewareIDs)
	return out
}

func (r *Runtime) Address() string {
	return r.server.Addr
}

// Run serves until ctx is cancelled or the listener fails.
func (r *Runtime) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = r.server.Shutdown(shutdownCtx)
	}()

	r.logger.Info("ssh server starting",
		"event", "startup",
		"version", Version,
		"address", r.cfg.SSHAddress(),
		"middleware", r.middlewareIDs,
		"host_key_path", r.cfg.HostKeyPath,
		"idle_timeout", r.cfg.IdleTimeout,
		"max_sessions", r.cfg.MaxSessions,
		"default_mode", r.cfg.DefaultMode,
	)
	err := r.server.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) || err == nil {
		return nil
	}

	return err
}

// FormHandler builds the form program for a routed session.
func FormHandler(s ssh.Session) (tea.Model, []tea.ProgramOption) {
	info, ok := router.InfoFrom(s.Context())
	if !ok {
		info = router.SessionInfo{App: theme.AppAdmin, Config: theme.ResolveBase(""), RemoteAddr: remoteIP(s)}
	}
	return formModel(info, bm.MakeRenderer(s)), []tea.ProgramOption{tea.WithAltScreen()}
}

func formModel(info router.SessionInfo, r *lipgloss.Renderer) tui.Model {
	styles := render.New(info.Config, r)
	return tui.NewModel(info.App, info.Config, styles, info.RemoteAddr)
}
