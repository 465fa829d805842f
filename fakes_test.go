package scout_test

import (
	"context"
	"slices"
	"sync"

	"github.com/cboone/scout"
)

// fakeElement answers Is for its own classes and Has for its children's.
type fakeElement struct {
	text     string
	html     string
	classes  []string
	children []string
	hidden   bool
}

func (e fakeElement) Text() string { return e.text }

func (e fakeElement) HTML() string {
	if e.html != "" {
		return e.html
	}
	return "<li>" + e.text + "</li>"
}

func (e fakeElement) Has(sel scout.Selector) bool { return slices.Contains(e.children, sel.Value) }

func (e fakeElement) Is(sel scout.Selector) bool { return slices.Contains(e.classes, sel.Value) }

func (e fakeElement) Visible() bool { return !e.hidden }

func collectionOf(texts ...string) scout.Collection {
	c := make(scout.Collection, len(texts))
	for i, s := range texts {
		c[i] = fakeElement{text: s}
	}
	return c
}

// recordingExecutor returns a fixed collection and records every call.
type recordingExecutor struct {
	mu         sync.Mutex
	result     scout.Collection
	resolveErr error
	queries    []scout.Query
	actions    []string
	actedOn    []scout.Collection
}

func (r *recordingExecutor) Resolve(_ context.Context, q scout.Query) (scout.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	return r.result, r.resolveErr
}

func (r *recordingExecutor) Act(_ context.Context, c scout.Collection, action string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	r.actedOn = append(r.actedOn, c)
	return nil
}

func (r *recordingExecutor) resolveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}
