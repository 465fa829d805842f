package scout

import "context"

// Action names understood by executors.
const (
	ActionClick    = "click"
	ActionType     = "type"
	ActionClear    = "clear"
	ActionSetValue = "setValue"
	ActionPress    = "press"
)

// OptVisible is the query option name asking executors to drop elements
// that are not rendered.
const OptVisible = "visible"

// QueryOption is an opaque option forwarded from By to the executor.
// Executors ignore names they do not understand.
type QueryOption struct {
	Name  string
	Value any
}

// Visible asks the executor to keep only rendered elements.
func Visible() QueryOption {
	return QueryOption{Name: OptVisible, Value: true}
}

// Query is what an executor receives when a Locator is resolved.
type Query struct {
	Selector    Selector
	Refinements []Refinement
	Options     []QueryOption
}

// Option returns the value of the last option with the given name.
func (q Query) Option(name string) (any, bool) {
	for i := len(q.Options) - 1; i >= 0; i-- {
		if q.Options[i].Name == name {
			return q.Options[i].Value, true
		}
	}
	return nil, false
}

// Executor performs real document access on behalf of Locators. Both methods
// must be safe to call repeatedly with the same arguments; callers retry.
type Executor interface {
	Resolve(ctx context.Context, q Query) (Collection, error)
	Act(ctx context.Context, c Collection, action string, args ...string) error
}
