package router

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/prometheus/client_golang/prometheus"

	"mosaic-theme/internal/metrics"
	"mosaic-theme/internal/theme"
)

type fakeContext struct {
	context.Context
	mu     sync.Mutex
	values map[any]any
}

func newFakeContext() *fakeContext {
	return &fakeContext{Context: context.Background(), values: map[any]any{}}
}

func (f *fakeContext) Lock()                         { f.mu.Lock() }
func (f *fakeContext) Unlock()                       { f.mu.Unlock() }
func (f *fakeContext) User() string                  { return "" }
func (f *fakeContext) SessionID() string             { return "router-test" }
func (f *fakeContext) ClientVersion() string         { return "ssh-test-client" }
func (f *fakeContext) ServerVersion() string         { return "ssh-test-server" }
func (f *fakeContext) RemoteAddr() net.Addr          { return nil }
func (f *fakeContext) LocalAddr() net.Addr           { return nil }
func (f *fakeContext) Permissions() *ssh.Permissions { return &ssh.Permissions{} }
func (f *fakeContext) SetValue(key, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}
func (f *fakeContext) Value(key interface{}) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key]; ok {
		return v
	}
	return f.Context.Value(key)
}

type fakeSession struct {
	ssh.Session
	user     string
	env      []string
	ctx      *fakeContext
	writes   []string
	exitCode *int
}

func newFakeSession(user string, env ...string) *fakeSession {
	return &fakeSession{user: user, env: env, ctx: newFakeContext()}
}

func (f *fakeSession) User() string         { return f.user }
func (f *fakeSession) Environ() []string    { return f.env }
func (f *fakeSession) Context() ssh.Context { return f.ctx }
func (f *fakeSession) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("203.0.113.9"), Port: 50022}
}
func (f *fakeSession) Write(p []byte) (int, error) {
	f.writes = append(f.writes, string(p))
	return len(p), nil
}
func (f *fakeSession) Exit(code int) error {
	f.exitCode = &code
	return nil
}

func testOptions(mode theme.Mode) Options {
	return Options{DefaultMode: mode, Logger: log.New(io.Discard), Metrics: metrics.MustNew(prometheus.NewRegistry())}
}

func run(t *testing.T, s *fakeSession, opts Options) bool {
	t.Helper()
	called := false
	h := Wrap(func(ssh.Session) { called = true }, DefaultChain(opts))
	h(s)
	return called
}

func TestDefaultChainOrder(t *testing.T) {
	chain := DefaultChain(testOptions(theme.ModeLight))
	want := []string{"app-routing", "theme-mode", "session-metadata"}
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i := range want {
		if chain[i].Name != want[i] {
			t.Fatalf("chain[%d] = %q, want %q", i, chain[i].Name, want[i])
		}
	}
	if got := len(MiddlewareFromDescriptors(chain)); got != len(want) {
		t.Fatalf("middleware length = %d", got)
	}
}

func TestAppRoutingKnownUsers(t *testing.T) {
	tests := map[string]theme.App{"admin": theme.AppAdmin, "client": theme.AppClient}
	for user, want := range tests {
		t.Run(user, func(t *testing.T) {
			s := newFakeSession(user)
			if !run(t, s, testOptions(theme.ModeLight)) {
				t.Fatalf("expected next handler to be called")
			}
			got, ok := AppFrom(s.Context())
			if !ok || got != want {
				t.Fatalf("AppFrom() = (%q, %t), want %q", got, ok, want)
			}
		})
	}
}

func TestAppRoutingRejectsUnknownUsers(t *testing.T) {
	for _, user := range []string{"", "guest", "Admin", " admin", "client ", strings.Repeat("admin", 64)} {
		t.Run(user, func(t *testing.T) {
			s := newFakeSession(user)
			if run(t, s, testOptions(theme.ModeLight)) {
				t.Fatalf("unexpected next handler call for user %q", user)
			}
			if _, ok := AppFrom(s.Context()); ok {
				t.Fatalf("app should not be set for rejected user %q", user)
			}
			if len(s.writes) != 1 || s.writes[0] != unknownAppMessage {
				t.Fatalf("writes = %#v", s.writes)
			}
			if s.exitCode == nil || *s.exitCode != 1 {
				t.Fatalf("expected exit code 1")
			}
		})
	}
}

func TestThemeModeSelection(t *testing.T) {
	tests := []struct {
		name        string
		env         []string
		defaultMode theme.Mode
		want        theme.Mode
	}{
		{name: "default light", want: theme.ModeLight, defaultMode: theme.ModeLight},
		{name: "default dark", want: theme.ModeDark, defaultMode: theme.ModeDark},
		{name: "env dark", env: []string{"THEME_MODE=dark"}, defaultMode: theme.ModeLight, want: theme.ModeDark},
		{name: "env wins over default", env: []string{"THEME_MODE=light"}, defaultMode: theme.ModeDark, want: theme.ModeLight},
		{name: "env invalid", env: []string{"THEME_MODE=sepia"}, defaultMode: theme.ModeDark, want: theme.ModeLight},
		{name: "last env entry wins", env: []string{"THEME_MODE=light", "THEME_MODE=dark"}, defaultMode: theme.ModeLight, want: theme.ModeDark},
		{name: "unrelated env", env: []string{"TERM=xterm", "THEME_MODES=dark"}, defaultMode: theme.ModeLight, want: theme.ModeLight},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newFakeSession("client", tc.env...)
			if !run(t, s, testOptions(tc.defaultMode)) {
				t.Fatalf("expected next handler to be called")
			}
			got, ok := ModeFrom(s.Context())
			if !ok || got != tc.want {
				t.Fatalf("ModeFrom() = (%q, %t), want %q", got, ok, tc.want)
			}
		})
	}
}

func TestSessionMetadataStoresResolvedConfig(t *testing.T) {
	s := newFakeSession("client", "THEME_MODE=dark")
	if !run(t, s, testOptions(theme.ModeLight)) {
		t.Fatalf("expected next handler to be called")
	}

	info, ok := InfoFrom(s.Context())
	if !ok {
		t.Fatalf("expected session info to be set")
	}
	if info.Username != "client" || info.App != theme.AppClient || info.Mode != theme.ModeDark {
		t.Fatalf("info = %+v", info)
	}
	if !info.Config.Equal(theme.DeriveExtended("dark")) {
		t.Fatalf("config = %+v, want extended dark", info.Config)
	}
	if info.RemoteAddr != "203.0.113.9:50022" || info.StartedAt.IsZero() {
		t.Fatalf("info = %+v", info)
	}
}
