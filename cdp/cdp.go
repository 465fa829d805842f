// Package cdp resolves scout locators in a real Chrome page over the Chrome
// DevTools Protocol.
//
// Open starts a headless browser for a test and skips the test when no
// browser is installed:
//
//	func TestTodo(t *testing.T) {
//	    b := cdp.Open(t)
//	    if err := b.Navigate(srv.URL); err != nil {
//	        t.Fatal(err)
//	    }
//	    p := scout.Open(t, b)
//	    p.Type(p.S("new-todo"), "milk")
//	    p.PressEnter(p.S("new-todo"))
//	    p.Should(p.S("#todo-list>li"), scout.Have.ExactTexts("milk"))
//	}
//
// The page keeps the elements of recent resolutions under their refs, out of
// the DOM, so that actions and Has/Is checks address exactly the elements a
// resolution found without modifying the page.
package cdp

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/cboone/scout"
	"github.com/cboone/scout/internal/ctxlog"
	"github.com/cboone/scout/internal/jsquery"
)

const (
	defaultWidth         = 1280
	defaultHeight        = 800
	defaultActionTimeout = 10 * time.Second
)

type options struct {
	chromePath    string
	headless      bool
	width         int
	height        int
	actionTimeout time.Duration
	logger        *zap.Logger
	ownLogger     bool
}

// Option configures a Browser.
type Option func(*options)

// WithChromePath sets the browser binary. Without it, SCOUT_CHROME and then
// $PATH are consulted.
func WithChromePath(path string) Option {
	return func(o *options) {
		o.chromePath = path
	}
}

// WithHeadless controls headless mode. Default is true.
func WithHeadless(headless bool) Option {
	return func(o *options) {
		o.headless = headless
	}
}

// WithWindowSize sets the browser window size. Default is 1280x800.
func WithWindowSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithActionTimeout bounds every single protocol round trip. Default is 10s.
func WithActionTimeout(d time.Duration) Option {
	return func(o *options) {
		o.actionTimeout = d
	}
}

// WithLogger sets the logger. Without it, browser startup is not logged and
// Resolve and Act log through the logger carried by their context, such as
// the one a scout.Page sets.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.ownLogger = l != nil
	}
}

func buildOptions(opts []Option) options {
	o := options{
		headless:      true,
		width:         defaultWidth,
		height:        defaultHeight,
		actionTimeout: defaultActionTimeout,
		logger:        zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.logger = o.logger.Named("cdp")
	return o
}

// Browser is a scout.Executor backed by a single Chrome tab.
type Browser struct {
	ctx     context.Context
	cancel  context.CancelFunc
	runner  *jsquery.Runner
	logger  *zap.Logger
	opts    options
	product string
}

// New starts a browser. The browser lives until Close is called or ctx is
// cancelled.
func New(ctx context.Context, opts ...Option) (*Browser, error) {
	o := buildOptions(opts)
	path, _, err := lookupChrome(o.chromePath)
	if err != nil {
		return nil, err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(path),
		chromedp.Flag("headless", o.headless),
		chromedp.WindowSize(o.width, o.height),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	sugar := o.logger.Sugar()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Errorf),
	)
	b := &Browser{
		ctx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
		runner: jsquery.New(),
		logger: o.logger,
		opts:   o,
	}

	// The first Run starts the browser process; it must use the tab context
	// itself so the browser is not tied to a shorter-lived child.
	err = chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, product, _, _, _, err := browser.GetVersion().Do(ctx)
		b.product = product
		return err
	}))
	if err != nil {
		b.cancel()
		return nil, fmt.Errorf("cdp: start %s: %w", path, err)
	}
	if !versionAtLeast(b.product, minChromeVersion) {
		b.cancel()
		return nil, fmt.Errorf("cdp: %s is below minimum version %s", b.product, minChromeVersion)
	}

	b.logger.Debug("started", zap.String("path", path), zap.String("product", b.product))
	return b, nil
}

// Open starts a browser for t and closes it via t.Cleanup. The test is
// skipped when no browser is found; a browser that was configured explicitly
// but fails to start fails the test.
func Open(t testing.TB, opts ...Option) *Browser {
	t.Helper()

	o := buildOptions(opts)
	_, explicit, err := lookupChrome(o.chromePath)
	if err != nil {
		t.Skip("cdp: open: chrome not found")
	}

	b, err := New(context.Background(), opts...)
	if err != nil {
		if explicit {
			t.Fatalf("cdp: open: %v", err)
		}
		t.Skipf("cdp: open: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancel()
}

// Product returns the browser product string, e.g. "HeadlessChrome/131.0".
func (b *Browser) Product() string {
	return b.product
}

// Navigate loads url and waits for its body to be ready.
func (b *Browser) Navigate(url string) error {
	ctx, cancel := b.runContext(context.Background())
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("cdp: navigate %s: %w", url, err)
	}
	return nil
}

func (b *Browser) log(ctx context.Context) *zap.Logger {
	if b.opts.ownLogger {
		return b.logger
	}
	return ctxlog.FromContext(ctx).Named("cdp")
}

// runContext derives a context usable with chromedp from the tab context. It
// is bounded by the action timeout and cancelled along with ctx.
func (b *Browser) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithTimeout(b.ctx, b.opts.actionTimeout)
	stop := context.AfterFunc(ctx, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

// Resolve implements scout.Executor.
func (b *Browser) Resolve(ctx context.Context, q scout.Query) (scout.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rctx, cancel := b.runContext(ctx)
	defer cancel()

	hits, err := b.runner.Resolve(rctx, b.runner.NewRequest(q))
	if err != nil {
		return nil, fmt.Errorf("cdp: resolve %s: %w", q.Selector, err)
	}
	log := b.log(ctx)
	c := make(scout.Collection, len(hits))
	for i, h := range hits {
		c[i] = &Element{b: b, ref: h.Ref, text: h.Text, html: h.HTML, visible: h.Visible, logger: log}
	}
	log.Debug("resolved",
		zap.String("selector", q.Selector.String()),
		zap.Int("refinements", len(q.Refinements)),
		zap.Int("count", len(c)))
	return c, nil
}

// Act implements scout.Executor.
func (b *Browser) Act(ctx context.Context, c scout.Collection, action string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rctx, cancel := b.runContext(ctx)
	defer cancel()

	var tasks chromedp.Tasks
	for _, el := range c {
		own, ok := el.(*Element)
		if !ok || own.b != b {
			return fmt.Errorf("cdp: %s: element %T does not belong to this browser", action, el)
		}
		sel := jsquery.RefPath(own.ref)
		switch action {
		case scout.ActionClick:
			tasks = append(tasks, chromedp.Click(sel, chromedp.ByJSPath))
		case scout.ActionType:
			tasks = append(tasks, chromedp.SendKeys(sel, strings.Join(args, ""), chromedp.ByJSPath))
		case scout.ActionClear:
			tasks = append(tasks, chromedp.Clear(sel, chromedp.ByJSPath))
		case scout.ActionSetValue:
			tasks = append(tasks, chromedp.SetValue(sel, strings.Join(args, ""), chromedp.ByJSPath))
		case scout.ActionPress:
			for _, k := range args {
				tasks = append(tasks, chromedp.SendKeys(sel, keyValue(k), chromedp.ByJSPath))
			}
		default:
			return fmt.Errorf("cdp: unsupported action %q", action)
		}
	}
	if err := chromedp.Run(rctx, tasks); err != nil {
		return fmt.Errorf("cdp: %s: %w", action, err)
	}
	b.log(ctx).Debug("acted", zap.String("action", action), zap.Int("elements", len(c)))
	return nil
}

var keyValues = map[scout.Key]string{
	scout.Enter:      kb.Enter,
	scout.Escape:     kb.Escape,
	scout.Tab:        kb.Tab,
	scout.Backspace:  kb.Backspace,
	scout.Delete:     kb.Delete,
	scout.ArrowUp:    kb.ArrowUp,
	scout.ArrowDown:  kb.ArrowDown,
	scout.ArrowLeft:  kb.ArrowLeft,
	scout.ArrowRight: kb.ArrowRight,
	scout.Home:       kb.Home,
	scout.End:        kb.End,
	scout.PageUp:     kb.PageUp,
	scout.PageDown:   kb.PageDown,
	scout.Space:      " ",
}

// keyValue maps a key name to the value SendKeys expects. Unknown names are
// sent as literal text.
func keyValue(name string) string {
	if v, ok := keyValues[scout.Key(name)]; ok {
		return v
	}
	return name
}
