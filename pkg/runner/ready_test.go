package runner

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitTCPImmediate(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.NoError(t, WaitTCP(context.Background(), ln.Addr().String(), 5*time.Second))
}

func TestWaitTCPEventually(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	// rebind shortly after the probe starts
	go func() {
		time.Sleep(300 * time.Millisecond)
		if l, err := net.Listen("tcp", addr); err == nil {
			defer l.Close()
			time.Sleep(3 * time.Second)
		}
	}()

	assert.NoError(t, WaitTCP(context.Background(), addr, 5*time.Second))
}

func TestWaitTCPTimeout(t *testing.T) {
	// a freshly closed ephemeral port: nothing listens here
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	start := time.Now()
	err = WaitTCP(context.Background(), addr, 600*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestWaitTCPCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, WaitTCP(ctx, addr, 10*time.Second))
}
