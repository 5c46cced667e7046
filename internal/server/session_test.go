package server

import (
	"context"
	"net"
	"sync"

	"github.com/charmbracelet/ssh"
)

type fakeContext struct {
	context.Context
	mu     sync.Mutex
	values map[any]any
}

func newFakeContext(ctx context.Context) *fakeContext {
	return &fakeContext{Context: ctx, values: map[any]any{}}
}

func (f *fakeContext) Lock()                         { f.mu.Lock() }
func (f *fakeContext) Unlock()                       { f.mu.Unlock() }
func (f *fakeContext) User() string                  { return "client" }
func (f *fakeContext) SessionID() string             { return "server-test" }
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

// fakeSession implements the parts of ssh.Session the middleware touches;
// any other method panics through the nil embedded interface.
type fakeSession struct {
	ssh.Session
	ctx    *fakeContext
	remote net.Addr
	user   string
	env    []string

	mu       sync.Mutex
	writes   []string
	exitCode *int
}

func newFakeSession(ctx context.Context, user string, remote net.Addr, env ...string) *fakeSession {
	return &fakeSession{ctx: newFakeContext(ctx), remote: remote, user: user, env: env}
}

func (f *fakeSession) User() string         { return f.user }
func (f *fakeSession) Environ() []string    { return f.env }
func (f *fakeSession) RemoteAddr() net.Addr { return f.remote }
func (f *fakeSession) Context() ssh.Context { return f.ctx }
func (f *fakeSession) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, string(p))
	return len(p), nil
}
func (f *fakeSession) Exit(code int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exitCode = &code
	return nil
}

func (f *fakeSession) recordedWrites() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeSession) recordedExitCode() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exitCode == nil {
		return 0, false
	}
	return *f.exitCode, true
}

func tcpAddr(ip string) net.Addr {
	return &net.TCPAddr{IP: net.ParseIP(ip), Port: 2222}
}

type testAddr string

func (a testAddr) Network() string { return "test" }
func (a testAddr) String() string  { return string(a) }
