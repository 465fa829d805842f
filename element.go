package scout

import (
	"strings"
)

// Element is one realized DOM element. Implementations are provided by
// executors and reflect the document at the moment of resolution.
type Element interface {
	// Text returns the element's rendered text content, untrimmed.
	Text() string
	// HTML returns the element's outer HTML, used for failure dumps.
	HTML() string
	// Has reports whether the element has a descendant matching sel.
	Has(sel Selector) bool
	// Is reports whether the element itself matches sel.
	Is(sel Selector) bool
}

// Visibility is implemented by elements that know whether they were rendered
// when resolved. Elements without it count as visible.
type Visibility interface {
	Visible() bool
}

// Collection is the ordered result of resolving a Locator. It may be empty.
type Collection []Element

// Len returns the number of elements.
func (c Collection) Len() int {
	return len(c)
}

// Texts returns the trimmed text of every element, in order.
func (c Collection) Texts() []string {
	texts := make([]string, len(c))
	for i, el := range c {
		texts[i] = strings.TrimSpace(el.Text())
	}
	return texts
}

// Text returns the combined text of all elements, trimmed. For a single
// element this is that element's text.
func (c Collection) Text() string {
	var b strings.Builder
	for _, el := range c {
		b.WriteString(el.Text())
	}
	return strings.TrimSpace(b.String())
}

// CountHas returns how many elements have a descendant matching sel.
func (c Collection) CountHas(sel Selector) int {
	n := 0
	for _, el := range c {
		if el.Has(sel) {
			n++
		}
	}
	return n
}

// CountIs returns how many elements match sel themselves.
func (c Collection) CountIs(sel Selector) int {
	n := 0
	for _, el := range c {
		if el.Is(sel) {
			n++
		}
	}
	return n
}

// String dumps the outer HTML of every element, one per line.
func (c Collection) String() string {
	if len(c) == 0 {
		return "(empty collection)"
	}
	lines := make([]string, len(c))
	for i, el := range c {
		lines[i] = el.HTML()
	}
	return strings.Join(lines, "\n")
}
