package spell

import (
	"sync"

	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/store"
)

// Registry holds one Checker per language. Lookups take a shared lock;
// inserting a new language takes the exclusive lock. Checker handles are
// shared: they are created once at load and live for the server's
// lifetime.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]*Checker
	order    []string
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{checkers: make(map[string]*Checker)}
}

// Add installs c as lang's checker. Adding a language twice fails with
// AlreadyExists; replacing a live checker handle would invalidate shared
// references.
func (r *Registry) Add(lang string, c *Checker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.checkers[lang]; dup {
		return errs.New(errs.AlreadyExists, 0, "spell: language %q already registered", lang)
	}
	r.checkers[lang] = c
	r.order = append(r.order, lang)
	return nil
}

// Get returns lang's checker, or a NotFound error when the language has no
// checker loaded.
func (r *Registry) Get(lang string) (*Checker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checkers[lang]
	if !ok {
		return nil, errs.New(errs.NotFound, 0, "spell: no checker for language %q", lang)
	}
	return c, nil
}

// Languages returns the registered language tags in registration order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Check dispatches ctl to lang's checker.
func (r *Registry) Check(lang string, ctl Control) ([]store.WordForm, error) {
	c, err := r.Get(lang)
	if err != nil {
		return nil, err
	}
	return c.Check(ctl)
}
