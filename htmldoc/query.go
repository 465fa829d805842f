package htmldoc

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/cboone/scout"
)

// queryAll returns the descendants of root matching sel, in document order.
func queryAll(root *html.Node, sel scout.Selector) ([]*html.Node, error) {
	switch {
	case sel.Kind == scout.TextContains:
		return deepestContaining(root, sel.Value), nil
	case sel.Kind == scout.AttributeID:
		return collect(root, func(n *html.Node) bool {
			return attr(n, scout.IDAttribute) == sel.Value
		}), nil
	case sel.IsXPath():
		nodes, err := htmlquery.QueryAll(root, sel.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid xpath %q: %w", sel.Value, err)
		}
		out := nodes[:0]
		for _, n := range nodes {
			if n.Type == html.ElementNode && isDescendant(n, root) {
				out = append(out, n)
			}
		}
		return out, nil
	default:
		m, err := cascadia.ParseGroup(sel.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid css selector %q: %w", sel.Value, err)
		}
		return cascadia.QueryAll(root, m), nil
	}
}

// matches reports whether n itself matches sel.
func matches(n *html.Node, sel scout.Selector) (bool, error) {
	if n.Type != html.ElementNode {
		return false, nil
	}
	switch {
	case sel.Kind == scout.TextContains:
		return strings.Contains(textContent(n), sel.Value), nil
	case sel.Kind == scout.AttributeID:
		return attr(n, scout.IDAttribute) == sel.Value, nil
	case sel.IsXPath():
		nodes, err := htmlquery.QueryAll(topOf(n), sel.Value)
		if err != nil {
			return false, fmt.Errorf("invalid xpath %q: %w", sel.Value, err)
		}
		for _, m := range nodes {
			if m == n {
				return true, nil
			}
		}
		return false, nil
	default:
		m, err := cascadia.ParseGroup(sel.Value)
		if err != nil {
			return false, fmt.Errorf("invalid css selector %q: %w", sel.Value, err)
		}
		return m.Match(n), nil
	}
}

// deepestContaining finds elements whose text contains s and that have no
// child element whose text also contains it. Script and style bodies are not
// text.
func deepestContaining(root *html.Node, s string) []*html.Node {
	return collect(root, func(n *html.Node) bool {
		if n.Data == "script" || n.Data == "style" || !strings.Contains(textContent(n), s) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && strings.Contains(textContent(c), s) {
				return false
			}
		}
		return true
	})
}

// collect walks the descendants of root in document order.
func collect(root *html.Node, keep func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && keep(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func isDescendant(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func topOf(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// rendered reports whether neither n nor an ancestor is hidden.
func rendered(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if hasAttr(p, "hidden") {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(attr(p, "style")), " ", "")
		if strings.Contains(style, "display:none") {
			return false
		}
	}
	return true
}
