package scout

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	timeout      time.Duration
	pollInterval time.Duration
	registry     *Registry
	logger       *zap.Logger
}

// Option configures a Page created by Open.
type Option func(*options)

// WithTimeout sets the default timeout for Should and for actions waiting
// on their target.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithPollInterval sets the default interval between attempts.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithRegistry sets the matcher registry. Defaults to NewRegistry().
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WaitOption configures a single Should or action call.
type WaitOption func(*waitOptions)

type waitOptions struct {
	timeout      time.Duration
	pollInterval time.Duration
}

// WithinTimeout overrides the timeout for a single call.
// A value of 0 means "use defaults". Negative values cause t.Fatal.
func WithinTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.timeout = d
	}
}

// WithWaitPollInterval overrides the polling interval for a single call.
// A value of 0 means "use defaults". Negative values cause t.Fatal.
// Positive values under 10ms are clamped to 10ms.
func WithWaitPollInterval(d time.Duration) WaitOption {
	return func(o *waitOptions) {
		o.pollInterval = d
	}
}

const (
	defaultTimeout      = 4 * time.Second
	defaultPollInterval = 50 * time.Millisecond
)

func defaultOptions() options {
	return options{
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
	}
}
