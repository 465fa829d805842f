// Package poll runs an attempt repeatedly until it succeeds or a deadline
// passes. It is the retry loop behind scout's assertions.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// MinInterval is the smallest poll interval used; shorter values are clamped.
const MinInterval = 10 * time.Millisecond

// ErrTimeout is returned by Until when the deadline passes without success.
var ErrTimeout = errors.New("timed out")

// Config controls one polling run.
type Config struct {
	Timeout  time.Duration
	Interval time.Duration
}

// Override applies per-call values on top of c. Zero values keep c's
// settings, negative values are rejected and positive intervals under
// MinInterval are clamped.
func (c Config) Override(timeout, interval time.Duration) (Config, error) {
	if timeout < 0 {
		return c, fmt.Errorf("negative timeout: %v", timeout)
	}
	if interval < 0 {
		return c, fmt.Errorf("negative poll interval: %v", interval)
	}
	if timeout > 0 {
		c.Timeout = timeout
	}
	if interval > 0 {
		c.Interval = interval
	}
	if c.Interval < MinInterval {
		c.Interval = MinInterval
	}
	return c, nil
}

// Until calls attempt until it reports done, returns an error, or the
// timeout expires. Attempt errors are returned unchanged. The attempt always
// runs at least once.
func Until(ctx context.Context, cfg Config, attempt func(ctx context.Context) (bool, error)) error {
	deadline := time.Now().Add(cfg.Timeout)
	for {
		done, err := attempt(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %v", ErrTimeout, cfg.Timeout)
		}

		timer := time.NewTimer(cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
