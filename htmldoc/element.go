package htmldoc

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/cboone/scout"
)

// Element is a scout.Element backed by a node of an Executor's document.
type Element struct {
	node   *html.Node
	exec   *Executor
	logger *zap.Logger
}

// Node returns the underlying node. Callers must not modify it.
func (el *Element) Node() *html.Node {
	return el.node
}

// Attr returns the value of the named attribute, or "" when absent.
func (el *Element) Attr(key string) string {
	el.exec.mu.RLock()
	defer el.exec.mu.RUnlock()
	return attr(el.node, key)
}

// Text implements scout.Element.
func (el *Element) Text() string {
	el.exec.mu.RLock()
	defer el.exec.mu.RUnlock()
	return textContent(el.node)
}

// HTML implements scout.Element.
func (el *Element) HTML() string {
	el.exec.mu.RLock()
	defer el.exec.mu.RUnlock()
	return render(el.node)
}

// Visible implements scout.Visibility: neither the element nor an ancestor
// is hidden or styled display:none.
func (el *Element) Visible() bool {
	el.exec.mu.RLock()
	defer el.exec.mu.RUnlock()
	return rendered(el.node)
}

// Has implements scout.Element. Invalid selectors match nothing.
func (el *Element) Has(sel scout.Selector) bool {
	el.exec.mu.RLock()
	defer el.exec.mu.RUnlock()
	nodes, err := queryAll(el.node, sel)
	if err != nil {
		el.logger.Warn("has: bad selector", zap.String("selector", sel.String()), zap.Error(err))
		return false
	}
	return len(nodes) > 0
}

// Is implements scout.Element. Invalid selectors match nothing.
func (el *Element) Is(sel scout.Selector) bool {
	el.exec.mu.RLock()
	defer el.exec.mu.RUnlock()
	ok, err := matches(el.node, sel)
	if err != nil {
		el.logger.Warn("is: bad selector", zap.String("selector", sel.String()), zap.Error(err))
		return false
	}
	return ok
}
