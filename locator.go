package scout

import (
	"context"
	"slices"
	"strconv"
	"strings"
)

// RefinementKind identifies one step of a Locator chain.
type RefinementKind int

const (
	// FilterBy keeps elements with at least one descendant matching.
	FilterBy RefinementKind = iota
	// Matching keeps elements that match themselves.
	Matching
	// Nth keeps the element at an index.
	Nth
	// Find replaces each element with its matching descendants.
	Find
)

func (k RefinementKind) String() string {
	switch k {
	case FilterBy:
		return "filterBy"
	case Matching:
		return "matching"
	case Nth:
		return "nth"
	case Find:
		return "find"
	default:
		return "unknown"
	}
}

// Refinement is one step applied to the elements found so far.
// Index is used by Nth, Selector by every other kind.
type Refinement struct {
	Kind     RefinementKind
	Selector Selector
	Index    int
}

func (r Refinement) String() string {
	if r.Kind == Nth {
		return r.Kind.String() + "(" + strconv.Itoa(r.Index) + ")"
	}
	return r.Kind.String() + "(" + r.Selector.String() + ")"
}

// Locator describes how to find elements without finding them. It is a
// value: chaining methods return new Locators and never modify the receiver,
// so one Locator can be the parent of any number of independent chains.
type Locator struct {
	selector    Selector
	refinements []Refinement
	options     []QueryOption
}

// By builds a Locator from a selector string (see Resolve). Options are
// forwarded to the executor unchanged.
func By(raw string, opts ...QueryOption) Locator {
	return Locator{
		selector: Resolve(raw),
		options:  slices.Clone(opts),
	}
}

func (l Locator) with(r Refinement) Locator {
	refs := make([]Refinement, len(l.refinements), len(l.refinements)+1)
	copy(refs, l.refinements)
	return Locator{
		selector:    l.selector,
		refinements: append(refs, r),
		options:     l.options,
	}
}

// FilterBy keeps the elements that have a descendant matching sub.
// Sub-selectors are classified by SubSelector.
func (l Locator) FilterBy(sub string) Locator {
	return l.with(Refinement{Kind: FilterBy, Selector: SubSelector(sub)})
}

// Matching keeps the elements that match sub themselves.
func (l Locator) Matching(sub string) Locator {
	return l.with(Refinement{Kind: Matching, Selector: SubSelector(sub)})
}

// Nth narrows to the element at index. An index outside the collection
// yields an empty collection when the Locator is resolved.
func (l Locator) Nth(index int) Locator {
	return l.with(Refinement{Kind: Nth, Index: index})
}

// First is Nth(0).
func (l Locator) First() Locator {
	return l.Nth(0)
}

// Find replaces each element with its descendants matching sub.
func (l Locator) Find(sub string) Locator {
	return l.with(Refinement{Kind: Find, Selector: SubSelector(sub)})
}

// Selector returns the root selector.
func (l Locator) Selector() Selector {
	return l.selector
}

// Query returns the description handed to executors. The slices are copies.
func (l Locator) Query() Query {
	return Query{
		Selector:    l.selector,
		Refinements: slices.Clone(l.refinements),
		Options:     slices.Clone(l.options),
	}
}

// String returns the human-readable description used in failure messages.
func (l Locator) String() string {
	var b strings.Builder
	b.WriteString(l.selector.String())
	for _, r := range l.refinements {
		b.WriteByte('.')
		b.WriteString(r.String())
	}
	return b.String()
}

// Resolve runs the full chain against the executor's current document.
// Nothing is cached; each call queries again.
func (l Locator) Resolve(ctx context.Context, ex Executor) (Collection, error) {
	return ex.Resolve(ctx, l.Query())
}

// Act resolves the Locator and performs action on the result.
func (l Locator) Act(ctx context.Context, ex Executor, action string, args ...string) error {
	c, err := l.Resolve(ctx, ex)
	if err != nil {
		return err
	}
	return ex.Act(ctx, c, action, args...)
}
