package errormodel

import "sync"

// Registry holds one Model per language tag, guarded by a single mutex
// protecting both reads and inserts.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Model)}
}

// Set installs model as lang's error model, replacing any previous one.
func (r *Registry) Set(lang string, model *Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[lang] = model
}

// Get returns lang's Model and whether one is registered.
func (r *Registry) Get(lang string) (*Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[lang]
	return m, ok
}

// GetOrEmpty returns lang's Model, or a fresh empty Model (so Transform
// degrades to "identity only") when none is registered.
func (r *Registry) GetOrEmpty(lang string) *Model {
	if m, ok := r.Get(lang); ok {
		return m
	}
	return New()
}
