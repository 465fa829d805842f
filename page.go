package scout

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/cboone/scout/internal/ctxlog"
	"github.com/cboone/scout/internal/poll"
)

// Page binds an Executor to a test. Assertions and actions retry by
// re-resolving their Locator until they succeed or time out, and report
// failures through t.Fatalf.
type Page struct {
	t      testing.TB
	ex     Executor
	ctx    context.Context
	logger *zap.Logger
	opts   options
}

// Open creates a Page for ex. Cleanup is automatic via t.Cleanup.
func Open(t testing.TB, ex Executor, userOpts ...Option) *Page {
	t.Helper()

	opts := defaultOptions()
	for _, o := range userOpts {
		o(&opts)
	}
	if opts.registry == nil {
		opts.registry = NewRegistry()
	}
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
	logger := opts.logger.Named("scout")

	ctx, cancel := context.WithCancel(context.Background())
	ctx = ContextWithRegistry(ctx, opts.registry)
	ctx = ctxlog.WithLogger(ctx, logger)
	t.Cleanup(cancel)

	return &Page{
		t:      t,
		ex:     ex,
		ctx:    ctx,
		logger: logger,
		opts:   opts,
	}
}

// Context returns the context used for executor calls. It carries the
// page's registry and logger.
func (p *Page) Context() context.Context {
	return p.ctx
}

// Registry returns the page's matcher registry.
func (p *Page) Registry() *Registry {
	return p.opts.registry
}

// S builds a Locator. It is By, offered on the page for brevity.
func (p *Page) S(raw string, opts ...QueryOption) Locator {
	return By(raw, opts...)
}

// Should polls until loc satisfies cond or the timeout expires. On timeout
// it calls t.Fatal with the condition's failure message. On success it
// returns the matching collection.
func (p *Page) Should(loc Locator, cond Condition, wopts ...WaitOption) Collection {
	p.t.Helper()

	cfg := p.waitConfig("should", wopts)
	var (
		last     Outcome
		matched  Collection
		attempts int
	)
	err := poll.Until(p.ctx, cfg, func(ctx context.Context) (bool, error) {
		attempts++
		c, err := loc.Resolve(ctx, p.ex)
		if err != nil {
			return false, err
		}
		out, err := cond.Evaluate(p.opts.registry, Subject{Description: loc.String(), Collection: c})
		if err != nil {
			return false, err
		}
		last, matched = out, c
		return out.Passed, nil
	})
	switch {
	case err == nil:
		p.logger.Debug("condition met",
			zap.Stringer("locator", loc),
			zap.Stringer("condition", cond),
			zap.Int("attempts", attempts))
		return matched
	case errors.Is(err, poll.ErrTimeout):
		p.t.Fatalf("scout: should: %v waiting for %s\n%s", err, cond, last.Message())
	default:
		p.t.Fatalf("scout: should: %s: %v", loc, err)
	}
	return nil
}

// Check evaluates cond against loc once, without retrying.
func (p *Page) Check(loc Locator, cond Condition) Outcome {
	p.t.Helper()
	out, err := Evaluate(p.ctx, p.ex, loc, cond)
	if err != nil {
		p.t.Fatalf("scout: check: %s: %v", loc, err)
	}
	return out
}

// Elements resolves loc once and returns the realized collection.
func (p *Page) Elements(loc Locator) Collection {
	p.t.Helper()
	c, err := loc.Resolve(p.ctx, p.ex)
	if err != nil {
		p.t.Fatalf("scout: elements: %s: %v", loc, err)
	}
	return c
}

// Click clicks every element loc resolves to.
func (p *Page) Click(loc Locator, wopts ...WaitOption) {
	p.t.Helper()
	p.act("click", loc, ActionClick, nil, wopts)
}

// Type types s into the elements loc resolves to.
func (p *Page) Type(loc Locator, s string, wopts ...WaitOption) {
	p.t.Helper()
	p.act("type", loc, ActionType, []string{s}, wopts)
}

// Clear empties the value of the elements loc resolves to.
func (p *Page) Clear(loc Locator, wopts ...WaitOption) {
	p.t.Helper()
	p.act("clear", loc, ActionClear, nil, wopts)
}

// SetValue clears the elements loc resolves to, then types s.
func (p *Page) SetValue(loc Locator, s string, wopts ...WaitOption) {
	p.t.Helper()
	p.act("set-value", loc, ActionSetValue, []string{s}, wopts)
}

// Press sends one or more keys to the elements loc resolves to.
func (p *Page) Press(loc Locator, keys ...Key) {
	p.t.Helper()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	p.act("press", loc, ActionPress, names, nil)
}

// PressEnter is Press(loc, Enter).
func (p *Page) PressEnter(loc Locator) {
	p.t.Helper()
	p.Press(loc, Enter)
}

// act waits until loc resolves to at least one element, then performs action.
func (p *Page) act(op string, loc Locator, action string, args []string, wopts []WaitOption) {
	p.t.Helper()

	cfg := p.waitConfig(op, wopts)
	var target Collection
	err := poll.Until(p.ctx, cfg, func(ctx context.Context) (bool, error) {
		c, err := loc.Resolve(ctx, p.ex)
		if err != nil {
			return false, err
		}
		target = c
		return len(c) > 0, nil
	})
	if errors.Is(err, poll.ErrTimeout) {
		p.t.Fatalf("scout: %s: %v waiting for %s to match at least one element", op, err, loc)
	} else if err != nil {
		p.t.Fatalf("scout: %s: %s: %v", op, loc, err)
	}

	if err := p.ex.Act(p.ctx, target, action, args...); err != nil {
		p.t.Fatalf("scout: %s: %s: %v", op, loc, err)
	}
	p.logger.Debug("action performed",
		zap.String("action", action),
		zap.Stringer("locator", loc),
		zap.Int("elements", len(target)))
}

func (p *Page) waitConfig(op string, wopts []WaitOption) poll.Config {
	p.t.Helper()

	wo := waitOptions{}
	for _, o := range wopts {
		o(&wo)
	}
	base := poll.Config{Timeout: p.opts.timeout, Interval: p.opts.pollInterval}
	cfg, err := base.Override(wo.timeout, wo.pollInterval)
	if err != nil {
		p.t.Fatalf("scout: %s: %v", op, err)
	}
	return cfg
}
