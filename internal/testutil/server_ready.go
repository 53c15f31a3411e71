package testutil

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"
)

// WaitForTCPReady polls addr until it accepts a TCP connection or timeout
// passes. Serve calls it before handing the address to the test.
func WaitForTCPReady(addr string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for server at %s: %w", addr, ctx.Err())
		case <-ticker.C:
			conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
			if err == nil {
				_ = conn.Close()
				return nil
			}
		}
	}
}

// WaitForCleanup polls check until it returns true, failing the test after timeout.
//
// Example:
//
//	cancel()
//	testutil.WaitForCleanup(t, func() bool {
//	    return srv.Clients() == 0
//	}, 5*time.Second)
func WaitForCleanup(t testing.TB, check func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("cleanup timeout: condition not met within %v", timeout)
		case <-ticker.C:
			if check() {
				return
			}
		}
	}
}
