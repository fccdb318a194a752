// Package errormodel implements the per-language letter confusion tables
// that constrain candidate generation: two maps, "replace" (applies at
// any position) and "around" (applies only at position > 0, i.e. never to
// the first letter of a word).
package errormodel

import "github.com/az-ai-labs/spellgraph/letter"

// Model is one language's confusion table.
type Model struct {
	Replace map[letter.Letter][]letter.Letter
	Around  map[letter.Letter][]letter.Letter
}

// New returns an empty Model ready for population.
func New() *Model {
	return &Model{
		Replace: make(map[letter.Letter][]letter.Letter),
		Around:  make(map[letter.Letter][]letter.Letter),
	}
}

// AddReplace registers that src may be visually/phonetically confused with
// any of targets, regardless of position in the word.
func (m *Model) AddReplace(src letter.Letter, targets ...letter.Letter) {
	m.Replace[src] = append(m.Replace[src], targets...)
}

// AddAround registers that src may be confused with any of targets due to
// keyboard proximity; this confusion is only applied at position > 0.
func (m *Model) AddAround(src letter.Letter, targets ...letter.Letter) {
	m.Around[src] = append(m.Around[src], targets...)
}

// Transform returns the set of letters that src may be turned into at the
// given 0-based position within a word: always src itself, plus every entry
// of Replace[src], plus (when position != 0) every entry of Around[src].
// This asymmetry keeps the edit generator from ever turning the first
// letter of a word into a keyboard neighbour, while still allowing
// replacement-class confusions everywhere.
func (m *Model) Transform(src letter.Letter, position int) []letter.Letter {
	seen := map[letter.Letter]struct{}{src: {}}
	out := []letter.Letter{src}

	for _, l := range m.Replace[src] {
		if _, dup := seen[l]; !dup {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}

	if position != 0 {
		for _, l := range m.Around[src] {
			if _, dup := seen[l]; !dup {
				seen[l] = struct{}{}
				out = append(out, l)
			}
		}
	}

	return out
}
