package cdp

import (
	"context"

	"go.uber.org/zap"

	"github.com/cboone/scout"
	"github.com/cboone/scout/internal/jsquery"
)

// Element is a scout.Element found in a Browser's page. Text and HTML are
// captured when the element is resolved; Has and Is query the live page.
type Element struct {
	b       *Browser
	ref     string
	text    string
	html    string
	visible bool
	logger  *zap.Logger
}

// Ref returns the key the page keeps this element under.
func (el *Element) Ref() string {
	return el.ref
}

// Text implements scout.Element.
func (el *Element) Text() string {
	return el.text
}

// HTML implements scout.Element.
func (el *Element) HTML() string {
	return el.html
}

// Visible implements scout.Visibility. It reports whether the element had a
// layout box when resolved.
func (el *Element) Visible() bool {
	return el.visible
}

// Has implements scout.Element. Failed checks count as no match.
func (el *Element) Has(sel scout.Selector) bool {
	return el.test("has", sel)
}

// Is implements scout.Element. Failed checks count as no match.
func (el *Element) Is(sel scout.Selector) bool {
	return el.test("is", sel)
}

func (el *Element) test(op string, sel scout.Selector) bool {
	ctx, cancel := el.b.runContext(context.Background())
	defer cancel()
	ok, err := el.b.runner.Test(ctx, op, el.ref, jsquery.Wire(sel))
	if err != nil {
		el.logger.Warn(op+": check failed", zap.String("selector", sel.String()), zap.Error(err))
		return false
	}
	return ok
}
