package testutil

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForTCPReady(t *testing.T) {
	_, addr := ListenTCP(t)
	require.NoError(t, WaitForTCPReady(addr, time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closed := ln.Addr().String()
	require.NoError(t, ln.Close())

	err = WaitForTCPReady(closed, 100*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServeStop(t *testing.T) {
	served := Serve(t, func(ctx context.Context, ln net.Listener) error {
		<-ctx.Done()
		return nil
	})
	require.NotEmpty(t, served.Addr)

	require.NoError(t, served.Stop(time.Second))
	assert.NoError(t, served.Stop(time.Second), "second Stop is a no-op")
}
