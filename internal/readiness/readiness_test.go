package readiness

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDelay(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedDelay{Delay: 20 * time.Millisecond}.Await(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFixedDelay_Zero(t *testing.T) {
	assert.NoError(t, FixedDelay{}.Await(context.Background()))
}

func TestFixedDelay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FixedDelay{Delay: time.Hour}.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTCPProbe_Listening(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	p := NewTCPProbe(ln.Addr().String(), 3, time.Millisecond)
	assert.NoError(t, p.Await(context.Background()))
}

func TestTCPProbe_SucceedsAfterRetries(t *testing.T) {
	var calls atomic.Int32
	p := NewTCPProbe("127.0.0.1:4133", 5, time.Millisecond)
	p.dial = func(ctx context.Context, network, address string) (net.Conn, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("connection refused")
		}
		client, server := net.Pipe()
		server.Close()
		return client, nil
	}

	require.NoError(t, p.Await(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestTCPProbe_GivesUp(t *testing.T) {
	var calls atomic.Int32
	p := NewTCPProbe("127.0.0.1:4133", 2, time.Millisecond)
	p.dial = func(ctx context.Context, network, address string) (net.Conn, error) {
		calls.Add(1)
		return nil, errors.New("connection refused")
	}

	err := p.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready after 2 attempts")
	assert.Equal(t, int32(2), calls.Load())
}

func TestTCPProbe_AttemptBudget(t *testing.T) {
	for _, tt := range []struct {
		maxAttempts uint64
		wantCalls   int32
	}{
		{maxAttempts: 0, wantCalls: 1},
		{maxAttempts: 1, wantCalls: 1},
		{maxAttempts: 4, wantCalls: 4},
	} {
		var calls atomic.Int32
		p := NewTCPProbe("127.0.0.1:4133", tt.maxAttempts, time.Millisecond)
		p.dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			calls.Add(1)
			return nil, errors.New("connection refused")
		}

		require.Error(t, p.Await(context.Background()))
		assert.Equal(t, tt.wantCalls, calls.Load(), "maxAttempts=%d", tt.maxAttempts)
	}
}
