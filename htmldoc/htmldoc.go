// Package htmldoc resolves scout locators against a parsed HTML document.
//
// The document can be replaced at any time with Replace, or re-read from disk
// on every resolution with NewFile, which makes it a convenient stand-in for a
// page that re-renders between test steps. There is no script engine: key
// presses are not supported, and actions only change element attributes.
package htmldoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/cboone/scout"
	"github.com/cboone/scout/internal/ctxlog"
)

// ErrUnsupportedAction is returned by Act for actions a static document
// cannot perform.
var ErrUnsupportedAction = errors.New("htmldoc: unsupported action")

// Executor is a scout.Executor over an in-memory HTML tree.
type Executor struct {
	mu     sync.RWMutex
	root   *html.Node
	path   string
	logger *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger. Without it, the executor logs through the logger
// carried by the context of each call, such as the one a scout.Page sets.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

func newExecutor(opts []Option) *Executor {
	e := &Executor{}
	for _, o := range opts {
		o(e)
	}
	if e.logger != nil {
		e.logger = e.logger.Named("htmldoc")
	}
	return e
}

func (e *Executor) log(ctx context.Context) *zap.Logger {
	if e.logger != nil {
		return e.logger
	}
	return ctxlog.FromContext(ctx).Named("htmldoc")
}

// New parses r into a static document.
func New(r io.Reader, opts ...Option) (*Executor, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	e := newExecutor(opts)
	e.root = root
	return e, nil
}

// NewString parses s into a static document.
func NewString(s string, opts ...Option) (*Executor, error) {
	return New(strings.NewReader(s), opts...)
}

// NewFile returns an executor that re-reads and re-parses path every time a
// locator is resolved. Actions change the in-memory tree of the latest read
// only; they are never written back.
func NewFile(path string, opts ...Option) *Executor {
	e := newExecutor(opts)
	e.path = path
	return e
}

// Replace swaps the whole document, as a re-render would.
func (e *Executor) Replace(s string) error {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return fmt.Errorf("htmldoc: parse: %w", err)
	}
	e.mu.Lock()
	e.root = root
	e.mu.Unlock()
	return nil
}

// HTML renders the current document.
func (e *Executor) HTML() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.root == nil {
		return ""
	}
	return render(e.root)
}

func (e *Executor) load() (*html.Node, error) {
	if e.path == "" {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return e.root, nil
	}

	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: read %s: %w", e.path, err)
	}
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse %s: %w", e.path, err)
	}
	e.mu.Lock()
	e.root = root
	e.mu.Unlock()
	return root, nil
}

// Resolve implements scout.Executor.
func (e *Executor) Resolve(ctx context.Context, q scout.Query) (scout.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := e.load()
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	nodes, err := e.resolveNodes(root, q)
	e.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("htmldoc: resolve %s: %w", q.Selector, err)
	}

	log := e.log(ctx)
	c := make(scout.Collection, len(nodes))
	for i, n := range nodes {
		c[i] = &Element{node: n, exec: e, logger: log}
	}
	log.Debug("resolved",
		zap.String("selector", q.Selector.String()),
		zap.Stringer("kind", q.Selector.Kind),
		zap.Int("refinements", len(q.Refinements)),
		zap.Int("count", len(c)))
	return c, nil
}

func (e *Executor) resolveNodes(root *html.Node, q scout.Query) ([]*html.Node, error) {
	if root == nil {
		return nil, nil
	}
	visibleOnly := false
	if v, ok := q.Option(scout.OptVisible); ok {
		visibleOnly, _ = v.(bool)
	}
	onlyRendered := func(nodes []*html.Node) []*html.Node {
		if !visibleOnly {
			return nodes
		}
		out := nodes[:0]
		for _, n := range nodes {
			if rendered(n) {
				out = append(out, n)
			}
		}
		return out
	}

	nodes, err := queryAll(root, q.Selector)
	if err != nil {
		return nil, err
	}
	nodes = onlyRendered(nodes)

	for _, r := range q.Refinements {
		switch r.Kind {
		case scout.FilterBy, scout.Matching:
			var kept []*html.Node
			for _, n := range nodes {
				ok, err := test(n, r)
				if err != nil {
					return nil, err
				}
				if ok {
					kept = append(kept, n)
				}
			}
			nodes = kept
		case scout.Nth:
			i := r.Index
			if i < 0 {
				i += len(nodes)
			}
			if i < 0 || i >= len(nodes) {
				nodes = nil
			} else {
				nodes = []*html.Node{nodes[i]}
			}
		case scout.Find:
			seen := make(map[*html.Node]bool)
			var found []*html.Node
			for _, n := range nodes {
				sub, err := queryAll(n, r.Selector)
				if err != nil {
					return nil, err
				}
				for _, s := range sub {
					if !seen[s] {
						seen[s] = true
						found = append(found, s)
					}
				}
			}
			nodes = onlyRendered(found)
		}
	}
	return nodes, nil
}

func test(n *html.Node, r scout.Refinement) (bool, error) {
	if r.Kind == scout.Matching {
		return matches(n, r.Selector)
	}
	sub, err := queryAll(n, r.Selector)
	return len(sub) > 0, err
}

// Act implements scout.Executor. Supported actions are click (toggles
// checkboxes and selects radios), type, clear and setValue (edit the value
// attribute).
func (e *Executor) Act(ctx context.Context, c scout.Collection, action string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, el := range c {
		own, ok := el.(*Element)
		if !ok || own.exec != e {
			return fmt.Errorf("htmldoc: %s: element %T does not belong to this document", action, el)
		}
		n := own.node
		switch action {
		case scout.ActionClick:
			click(n)
		case scout.ActionType:
			setAttr(n, "value", attr(n, "value")+strings.Join(args, ""))
		case scout.ActionClear:
			setAttr(n, "value", "")
		case scout.ActionSetValue:
			setAttr(n, "value", strings.Join(args, ""))
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
		}
	}
	e.log(ctx).Debug("acted", zap.String("action", action), zap.Int("elements", len(c)))
	return nil
}

func click(n *html.Node) {
	if n.Data != "input" {
		return
	}
	switch strings.ToLower(attr(n, "type")) {
	case "checkbox":
		if hasAttr(n, "checked") {
			removeAttr(n, "checked")
		} else {
			setAttr(n, "checked", "")
		}
	case "radio":
		if name := attr(n, "name"); name != "" {
			for _, other := range collect(topOf(n), func(o *html.Node) bool {
				return o.Data == "input" && strings.EqualFold(attr(o, "type"), "radio") && attr(o, "name") == name
			}) {
				removeAttr(other, "checked")
			}
		}
		setAttr(n, "checked", "")
	}
}

func render(n *html.Node) string {
	var b bytes.Buffer
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}
