// Package jsquery evaluates scout queries inside a browser page through
// chromedp. It is internal to the cdp executor.
package jsquery

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/chromedp/chromedp"

	"github.com/cboone/scout"
)

// StoreKey names the symbol, Symbol.for(StoreKey), under which the page keeps
// resolved elements by ref. Elements are never modified; only the last
// KeepGenerations resolutions stay addressable.
const StoreKey = "scout.refs"

// KeepGenerations bounds how many resolutions keep their refs alive.
const KeepGenerations = 32

// Sel is the wire form of a scout.Selector.
type Sel struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Step is the wire form of a scout.Refinement.
type Step struct {
	Kind     string `json:"kind"`
	Selector Sel    `json:"selector"`
	Index    int    `json:"index"`
}

// Request is the wire form of a scout.Query.
type Request struct {
	Attr    string `json:"attr"`
	Gen     string `json:"gen"`
	Root    Sel    `json:"root"`
	Steps   []Step `json:"steps"`
	Visible bool   `json:"visible"`
}

// Hit is one element found by Resolve.
type Hit struct {
	Ref     string `json:"ref"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
	Visible bool   `json:"visible"`
}

// Runner evaluates queries in the page attached to a chromedp context.
// The contexts passed to its methods must derive from a chromedp context.
type Runner struct {
	gen atomic.Int64
}

// New creates a Runner.
func New() *Runner {
	return &Runner{}
}

// Wire converts a selector to its wire form.
func Wire(sel scout.Selector) Sel {
	switch {
	case sel.Kind == scout.TextContains:
		return Sel{Kind: "text", Value: sel.Value}
	case sel.Kind == scout.AttributeID:
		return Sel{Kind: "attr", Value: sel.Value}
	case sel.IsXPath():
		return Sel{Kind: "xpath", Value: sel.Value}
	default:
		return Sel{Kind: "css", Value: sel.Value}
	}
}

// NewRequest converts q to its wire form. Each request gets a fresh ref
// generation so refs from recent resolutions stay valid.
func (r *Runner) NewRequest(q scout.Query) Request {
	req := Request{
		Attr: scout.IDAttribute,
		Gen:  "g" + strconv.FormatInt(r.gen.Add(1), 10),
		Root: Wire(q.Selector),
	}
	for _, ref := range q.Refinements {
		step := Step{Kind: ref.Kind.String(), Index: ref.Index}
		if ref.Kind != scout.Nth {
			step.Selector = Wire(ref.Selector)
		}
		req.Steps = append(req.Steps, step)
	}
	if v, ok := q.Option(scout.OptVisible); ok {
		req.Visible, _ = v.(bool)
	}
	return req
}

// Resolve runs the query in the page and records every hit under its ref.
func (r *Runner) Resolve(ctx context.Context, req Request) ([]Hit, error) {
	arg, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Op: "resolve", Selector: req.Root.Value, Err: err}
	}
	var hits []Hit
	expr := prelude + fmt.Sprintf("return resolve(%s);})()", arg)
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &hits)); err != nil {
		return nil, &Error{Op: "resolve", Selector: req.Root.Value, Err: err}
	}
	return hits, nil
}

// Test answers "has" (a descendant matches) or "is" (the element matches)
// for the element recorded under ref.
func (r *Runner) Test(ctx context.Context, op, ref string, sel Sel) (bool, error) {
	arg, err := json.Marshal(struct {
		Attr     string `json:"attr"`
		Op       string `json:"op"`
		Ref      string `json:"ref"`
		Selector Sel    `json:"selector"`
	}{scout.IDAttribute, op, ref, sel})
	if err != nil {
		return false, &Error{Op: op, Selector: sel.Value, Err: err}
	}
	var ok bool
	expr := prelude + fmt.Sprintf("return test(%s);})()", arg)
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return false, &Error{Op: op, Selector: sel.Value, Err: err}
	}
	return ok, nil
}

// RefPath is a JS expression evaluating to the element recorded under ref,
// for use with chromedp.ByJSPath. It is undefined once the ref has expired.
func RefPath(ref string) string {
	return "window[Symbol.for(" + strconv.Quote(StoreKey) + ")]?.get(" + strconv.Quote(ref) + ")"
}

// Error represents a failed in-page evaluation.
type Error struct {
	Op       string
	Selector string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsquery %s %q failed: %v", e.Op, e.Selector, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// prelude opens an IIFE defining the helpers; callers append the body and
// close it with "})()".
var prelude = `(function() {
const KEY = Symbol.for('` + StoreKey + `');
const KEEP = ` + strconv.Itoa(KeepGenerations) + `;
function store() {
  let s = window[KEY];
  if (!s) {
    const gens = new Map();
    s = {
      put(gen, els) {
        gens.set(gen, els);
        while (gens.size > KEEP) gens.delete(gens.keys().next().value);
      },
      get(ref) {
        const at = ref.lastIndexOf('-');
        const els = gens.get(ref.slice(0, at));
        return els ? els[Number(ref.slice(at + 1))] : undefined;
      },
    };
    Object.defineProperty(window, KEY, { value: s });
  }
  return s;
}
function textOf(el) { return el.textContent || ''; }
function scope(root) { return root === document ? (document.body || document.documentElement) : root; }
function xpathAll(expr, node) {
  const out = [];
  const res = document.evaluate(expr, node, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
  for (let i = 0; i < res.snapshotLength; i++) {
    const n = res.snapshotItem(i);
    if (n.nodeType === Node.ELEMENT_NODE) out.push(n);
  }
  return out;
}
function all(root, sel, attr) {
  const base = scope(root);
  switch (sel.kind) {
  case 'text':
    return Array.from(base.querySelectorAll('*')).filter(el =>
      el.tagName !== 'SCRIPT' && el.tagName !== 'STYLE' &&
      textOf(el).includes(sel.value) &&
      !Array.from(el.children).some(c => textOf(c).includes(sel.value)));
  case 'attr':
    return Array.from(base.querySelectorAll('[' + attr + ']')).filter(el => el.getAttribute(attr) === sel.value);
  case 'xpath':
    return xpathAll(sel.value, root).filter(el => el !== root && root.contains(el));
  default:
    return Array.from(root.querySelectorAll(sel.value));
  }
}
function is(el, sel, attr) {
  switch (sel.kind) {
  case 'text': return textOf(el).includes(sel.value);
  case 'attr': return el.getAttribute(attr) === sel.value;
  case 'xpath': return xpathAll(sel.value, document).includes(el);
  default: return el.matches(sel.value);
  }
}
function rendered(el) { return !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length); }
function resolve(req) {
  const keep = els => req.visible ? els.filter(rendered) : els;
  let els = keep(all(document, req.root, req.attr));
  for (const step of (req.steps || [])) {
    switch (step.kind) {
    case 'filterBy': els = els.filter(el => all(el, step.selector, req.attr).length > 0); break;
    case 'matching': els = els.filter(el => is(el, step.selector, req.attr)); break;
    case 'nth': {
      const i = step.index < 0 ? els.length + step.index : step.index;
      els = (i >= 0 && i < els.length) ? [els[i]] : [];
      break;
    }
    case 'find': {
      const seen = new Set();
      const found = [];
      for (const el of els) for (const d of all(el, step.selector, req.attr)) {
        if (!seen.has(d)) { seen.add(d); found.push(d); }
      }
      els = keep(found);
      break;
    }
    }
  }
  store().put(req.gen, els);
  return els.map((el, i) => ({ ref: req.gen + '-' + i, text: textOf(el), html: el.outerHTML, visible: rendered(el) }));
}
function test(req) {
  const el = store().get(req.ref);
  if (!el) return false;
  return req.op === 'has' ? all(el, req.selector, req.attr).length > 0 : is(el, req.selector, req.attr);
}
`
