// Package editgen generates Norvig-style candidate edits for a word, gated
// by a per-language errormodel.Model: delete, transpose, replace, and
// insert, each applied at every position (inserts only after the first
// letter), with replace and insert
// constrained by the error model's transform rules instead of blindly
// trying every letter of the alphabet.
package editgen

import (
	"github.com/az-ai-labs/spellgraph/errormodel"
	"github.com/az-ai-labs/spellgraph/letter"
)

// Edits1 returns the set of distinct sequences reachable from w by exactly
// one delete, transpose, replace, or insert edit, as constrained by model.
func Edits1(w letter.Sequence, model *errormodel.Model) map[string]letter.Sequence {
	out := make(map[string]letter.Sequence)
	add := func(seq letter.Sequence) {
		out[seq.String()] = seq
	}

	n := len(w)

	// Deletes: remove the letter at i.
	for i := 0; i < n; i++ {
		add(concat(w[:i], w[i+1:]))
	}

	// Transposes: swap adjacent letters at i, i+1.
	for i := 0; i+1 < n; i++ {
		tmp := make(letter.Sequence, 0, n)
		tmp = append(tmp, w[:i]...)
		tmp = append(tmp, w[i+1], w[i])
		tmp = append(tmp, w[i+2:]...)
		add(tmp)
	}

	// Replaces: at every position, swap in each letter the error model
	// offers for that letter at that position.
	for i := 0; i < n; i++ {
		for _, repl := range model.Transform(w[i], i) {
			if repl == w[i] {
				continue
			}
			tmp := make(letter.Sequence, 0, n)
			tmp = append(tmp, w[:i]...)
			tmp = append(tmp, repl)
			tmp = append(tmp, w[i+1:]...)
			add(tmp)
		}
	}

	// Inserts: after every position i >= 1 (i.e. never before the first
	// letter), insert each letter the error model offers for the
	// *previous* letter at the current position.
	for i := 1; i <= n; i++ {
		prev := w[i-1]
		for _, ins := range model.Transform(prev, i) {
			tmp := make(letter.Sequence, 0, n+1)
			tmp = append(tmp, w[:i]...)
			tmp = append(tmp, ins)
			tmp = append(tmp, w[i:]...)
			add(tmp)
		}
	}

	delete(out, w.String())
	return out
}

// Edits2 returns the union of Edits1 applied to every member of Edits1(w):
// every sequence reachable from w by exactly two edits.
func Edits2(w letter.Sequence, model *errormodel.Model) map[string]letter.Sequence {
	out := make(map[string]letter.Sequence)
	for _, e1 := range Edits1(w, model) {
		for key, e2 := range Edits1(e1, model) {
			out[key] = e2
		}
	}
	return out
}

func concat(a, b letter.Sequence) letter.Sequence {
	out := make(letter.Sequence, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
