package spell

import (
	"strings"
	"testing"

	"github.com/az-ai-labs/spellgraph/letter"
	"github.com/az-ai-labs/spellgraph/store"
)

func FuzzApplyCase(f *testing.F) {
	f.Add("WORD", "слово")
	f.Add("Word", "söz")
	f.Add("word", "word")
	f.Add("", "anything")
	f.Add("İiIı", "iıİI")

	c := New(nil, nil, "az")
	f.Fuzz(func(t *testing.T, original, corrected string) {
		got := c.applyCase(original, corrected)
		if corrected == "" && got != "" {
			t.Errorf("applyCase(%q, \"\") = %q, want empty", original, got)
		}
		if original == "" && got != corrected {
			t.Errorf("applyCase(\"\", %q) = %q, want unchanged", corrected, got)
		}
	})
}

func FuzzPreApostropheStem(f *testing.F) {
	f.Add("qarğa'da")
	f.Add("don't")
	f.Add("''")
	f.Add("a’b")

	f.Fuzz(func(t *testing.T, word string) {
		stem, ok := preApostropheStem(word)
		if !ok {
			return
		}
		if stem == "" {
			t.Errorf("preApostropheStem(%q) returned empty stem", word)
		}
		if !strings.HasPrefix(word, stem) {
			t.Errorf("stem %q is not a prefix of %q", stem, word)
		}
		if len(stem) >= len(word) {
			t.Errorf("stem %q not shorter than %q", stem, word)
		}
	})
}

func FuzzRankNeverPanics(f *testing.F) {
	f.Add("превет", "привет", int64(10))
	f.Add("", "x", int64(0))
	f.Add("aa", "aa", int64(-5))

	f.Fuzz(func(t *testing.T, query, candidate string, freq int64) {
		lw := letter.ToLetters(query)
		out := rank(lw, []store.WordForm{{Word: candidate, IndexedID: 1, Freq: freq}}, 3)
		for i := 1; i < len(out); i++ {
			if out[i].FreqNorm > out[i-1].FreqNorm {
				t.Errorf("rank output not descending: %v", out)
			}
		}
	})
}
