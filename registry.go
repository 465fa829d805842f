package scout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownMatcher is returned when a condition names an unregistered matcher.
var ErrUnknownMatcher = errors.New("scout: unknown matcher")

// Registry holds the matchers available to conditions. It is filled once at
// session start and only read afterwards.
type Registry struct {
	mu       sync.RWMutex
	matchers map[string]Matcher
}

// NewEmptyRegistry returns a registry with no matchers.
func NewEmptyRegistry() *Registry {
	return &Registry{matchers: make(map[string]Matcher)}
}

// NewRegistry returns a registry holding the built-in matchers.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	registerBuiltins(r)
	return r
}

// Register adds m. Registering a name twice is a programming error and panics.
func (r *Registry) Register(m Matcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := m.Name()
	if _, exists := r.matchers[name]; exists {
		panic(fmt.Sprintf("scout: matcher with name '%s' already registered", name))
	}
	r.matchers[name] = m
}

// Lookup returns the matcher registered under name.
func (r *Registry) Lookup(name string) (Matcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matchers[name]
	return m, ok
}

// Names returns the registered matcher names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.matchers))
	for name := range r.matchers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Evaluate invokes the matcher registered under name.
func (r *Registry) Evaluate(name string, subj Subject, args ...any) (Outcome, error) {
	m, ok := r.Lookup(name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownMatcher, name)
	}
	return m.Evaluate(subj, args...), nil
}

// registryKey is an unexported type to prevent collisions with context keys
// from other packages.
type registryKey struct{}

// ContextWithRegistry returns a context carrying r.
func ContextWithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, r)
}

// RegistryFrom extracts the registry stored by ContextWithRegistry. A missing
// registry is a programming error and panics.
func RegistryFrom(ctx context.Context) *Registry {
	if r, ok := ctx.Value(registryKey{}).(*Registry); ok {
		return r
	}
	panic("scout: registry missing from context")
}
