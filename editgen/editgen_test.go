package editgen

import (
	"testing"

	"github.com/az-ai-labs/spellgraph/errormodel"
	"github.com/az-ai-labs/spellgraph/letter"
)

func TestEdits1CoversDeletesTransposesInserts(t *testing.T) {
	m := errormodel.New()
	w := letter.ToLetters("cat")
	e1 := Edits1(w, m)

	want := []string{"at", "ct", "ca", "act", "ccat"}
	for _, expected := range want {
		if _, ok := e1[expected]; !ok {
			t.Errorf("edits1(cat) missing %q", expected)
		}
	}
	if _, ok := e1["cat"]; ok {
		t.Error("edits1(w) must not contain w itself")
	}
}

func TestEdits1ReplaceUsesErrorModel(t *testing.T) {
	m := errormodel.New()
	m.AddReplace(letter.Letter("c"), letter.Letter("k"))

	e1 := Edits1(letter.ToLetters("cat"), m)
	if _, ok := e1["kat"]; !ok {
		t.Error("edits1 should include the replace-model substitution at position 0")
	}
}

func TestEdits1InsertNeverBeforeFirstLetter(t *testing.T) {
	m := errormodel.New()
	m.AddAround(letter.Letter("c"), letter.Letter("x"))

	e1 := Edits1(letter.ToLetters("cat"), m)
	// "xcat" would require inserting before the first letter, which the
	// insert loop (i starts at 1) never does.
	if _, ok := e1["xcat"]; ok {
		t.Error("edits1 must never insert before the first letter")
	}
}

func TestEdits2CoversDistanceTwo(t *testing.T) {
	m := errormodel.New()
	e2 := Edits2(letter.ToLetters("cat"), m)

	// "at" (one delete from cat) then another delete gives "t" or "a".
	if _, ok := e2["t"]; !ok {
		t.Error("edits2(cat) should reach \"t\" via two deletes")
	}
}

func TestEdits1CoverageProperty(t *testing.T) {
	// For every w' at edit distance 1 over the alphabet implied by the
	// error model, w' must be in edits1(w). Check a sample directly
	// constructible as one delete/transpose/insert from a fixed word.
	m := errormodel.New()
	w := letter.ToLetters("house")
	e1 := Edits1(w, m)

	for _, wprime := range []string{"ouse", "hose", "huse", "hous", "hhouse", "houuse"} {
		if _, ok := e1[wprime]; !ok {
			t.Errorf("expected %q to be reachable by one delete/insert from %q", wprime, "house")
		}
	}
}
