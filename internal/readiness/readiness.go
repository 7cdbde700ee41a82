// Package readiness decides when the data service may be used by the
// application server.
//
// The default is a fixed delay after the build step. It narrows the startup
// race but does not prove the service is listening. TCPProbe dials the
// service address with bounded exponential backoff instead and is opt-in,
// since it changes observable startup timing.
package readiness

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"devrunner/pkg/logging"
)

// Waiter blocks until the data service is considered ready.
type Waiter interface {
	Await(ctx context.Context) error
}

// FixedDelay sleeps for Delay.
type FixedDelay struct {
	Delay time.Duration
}

// Await returns after the delay or when ctx is done.
func (d FixedDelay) Await(ctx context.Context) error {
	if d.Delay <= 0 {
		return ctx.Err()
	}
	logging.Debug("Readiness", "Waiting %s for the data service", d.Delay)
	timer := time.NewTimer(d.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TCPProbe dials Address until it accepts a connection, at most MaxAttempts
// times in total.
type TCPProbe struct {
	Address         string
	MaxAttempts     uint64
	InitialInterval time.Duration
	DialTimeout     time.Duration

	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewTCPProbe returns a probe with the dialer from the net package.
func NewTCPProbe(address string, maxAttempts uint64, initial time.Duration) *TCPProbe {
	return &TCPProbe{
		Address:         address,
		MaxAttempts:     maxAttempts,
		InitialInterval: initial,
		DialTimeout:     time.Second,
	}
}

// Await returns nil on the first successful dial, or the last dial error once
// the attempts are exhausted.
func (p *TCPProbe) Await(ctx context.Context) error {
	dial := p.dial
	if dial == nil {
		d := &net.Dialer{Timeout: p.DialTimeout}
		dial = d.DialContext
	}

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	b.MaxElapsedTime = 0
	// WithMaxRetries counts retries after the first dial.
	var retries uint64
	if p.MaxAttempts > 1 {
		retries = p.MaxAttempts - 1
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)

	attempt := 0
	op := func() error {
		attempt++
		conn, err := dial(ctx, "tcp", p.Address)
		if err != nil {
			logging.Debug("Readiness", "Probe %d of %s failed: %v", attempt, p.Address, err)
			return err
		}
		return conn.Close()
	}

	if err := backoff.Retry(op, policy); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("data service at %s not ready after %d attempts: %w", p.Address, attempt, err)
	}
	logging.Info("Readiness", "Data service is accepting connections on %s", p.Address)
	return nil
}
