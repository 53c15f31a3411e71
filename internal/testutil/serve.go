package testutil

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

// ContextWithTimeout returns a context cancelled after d or when the test ends.
func ContextWithTimeout(t testing.TB, d time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

// ListenTCP listens on a random loopback port. The listener closes with the test.
func ListenTCP(t testing.TB) (net.Listener, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening on loopback: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	return ln, ln.Addr().String()
}

// ServeFunc matches hud.Server.Serve.
type ServeFunc func(ctx context.Context, ln net.Listener) error

// Served is a server started by Serve.
type Served struct {
	Addr string

	cancel context.CancelFunc
	done   chan error
}

// Serve runs serve on a ListenTCP listener and waits until the port accepts
// connections. Servers the test does not Stop are stopped on cleanup.
func Serve(t testing.TB, serve ServeFunc) *Served {
	t.Helper()

	ln, addr := ListenTCP(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Served{Addr: addr, cancel: cancel, done: make(chan error, 1)}

	go func() { s.done <- serve(ctx, ln) }()
	t.Cleanup(func() { _ = s.Stop(5 * time.Second) })

	if err := WaitForTCPReady(addr, 5*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}
	return s
}

// ErrStopTimeout is returned by Stop when serve does not return in time.
var ErrStopTimeout = errors.New("server did not stop in time")

// Stop cancels the server context and returns what serve returned.
// Calling it again after a successful stop returns nil.
func (s *Served) Stop(timeout time.Duration) error {
	s.cancel()
	select {
	case err, ok := <-s.done:
		if !ok {
			return nil
		}
		close(s.done)
		return err
	case <-time.After(timeout):
		return ErrStopTimeout
	}
}
