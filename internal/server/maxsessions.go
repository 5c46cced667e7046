package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"mosaic-theme/internal/metrics"
)

// MaxSessionsMiddleware caps concurrently attached sessions. A slot is
// released once, when the handler returns, panics, or the session context
// ends, whichever happens first.
func MaxSessionsMiddleware(limit int, logger *log.Logger, m *metrics.Metrics) wish.Middleware {
	if limit <= 0 {
		limit = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	slots := make(chan struct{}, limit)

	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			select {
			case slots <- struct{}{}:
			default:
				logger.Warn("session rejected", "event", "max_sessions_exceeded", "remote_ip", remoteIP(s), "limit", limit)
				_, _ = s.Write([]byte("max sessions exceeded\n"))
				_ = s.Exit(1)
				return
			}
			m.SessionStarted()

			var once sync.Once
			release := func() {
				once.Do(func() {
					<-slots
					m.SessionEnded()
				})
			}
			handlerDone := make(chan struct{})
			go func() {
				select {
				case <-s.Context().Done():
					release()
				case <-handlerDone:
				}
			}()
			defer func() {
				close(handlerDone)
				release()
				if r := recover(); r != nil {
					logger.Error("session handler panicked", "event", "session_panic", "remote_ip", remoteIP(s), "panic", r)
				}
			}()

			next(s)
		}
	}
}
