// Package alphabet implements the per-language permitted-letter filter:
// a word is accepted if every letter it contains belongs to
// the language's registered alphabet, or if no alphabet has been registered
// for that language at all, in which case everything passes.
package alphabet

import (
	"sync"

	"github.com/az-ai-labs/spellgraph/letter"
)

// Registry holds one allowed-letter set per language tag. The zero value is
// ready to use. A Registry is safe for concurrent use by multiple goroutines.
type Registry struct {
	mu    sync.RWMutex
	langs map[string]map[letter.Letter]struct{}
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{langs: make(map[string]map[letter.Letter]struct{})}
}

// Register sets (or replaces) the allowed letter set for lang. Passing the
// same letters twice is idempotent: Ok's behavior afterward is unchanged.
func (r *Registry) Register(lang string, letters []letter.Letter) {
	set := make(map[letter.Letter]struct{}, len(letters))
	for _, l := range letters {
		set[l] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.langs[lang] = set
}

// RegisterString is a convenience wrapper that grapheme-segments s and
// registers the resulting letters as lang's alphabet.
func (r *Registry) RegisterString(lang, s string) {
	r.Register(lang, letter.ToLetters(s))
}

// Ok reports whether every letter in word is a member of lang's registered
// alphabet. If lang has no registered alphabet, Ok always returns true.
func (r *Registry) Ok(lang string, word letter.Sequence) bool {
	r.mu.RLock()
	set, registered := r.langs[lang]
	r.mu.RUnlock()

	if !registered {
		return true
	}
	for _, l := range word {
		if _, ok := set[l]; !ok {
			return false
		}
	}
	return true
}

// Registered reports whether lang has an alphabet registered.
func (r *Registry) Registered(lang string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.langs[lang]
	return ok
}
