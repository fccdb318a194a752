package morphdict

import (
	"testing"

	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/store"
)

func TestLanguages(t *testing.T) {
	langs := Languages()
	if len(langs) == 0 {
		t.Fatal("no embedded stem lists")
	}
	seen := make(map[string]bool)
	for _, l := range langs {
		seen[l] = true
	}
	for _, want := range []string{"az", "english", "russian"} {
		if !seen[want] {
			t.Errorf("missing language %q in %v", want, langs)
		}
	}
}

func TestStemsLowercasedAndFiltered(t *testing.T) {
	stems, err := Stems("english")
	if err != nil {
		t.Fatalf("Stems: %v", err)
	}
	if len(stems) == 0 {
		t.Fatal("empty stem list")
	}
	for _, s := range stems {
		if s == "" || s[0] == '#' {
			t.Errorf("comment or blank line leaked: %q", s)
		}
	}
}

func TestStemsUnknownLanguage(t *testing.T) {
	_, err := Stems("klingon")
	if errs.KindOf(err) != errs.NotFound {
		t.Errorf("kind = %v, want NotFound", errs.KindOf(err))
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	st, err := store.Open(store.Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	first, err := Seed(st, "english")
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if first == 0 {
		t.Fatal("first seed wrote nothing")
	}

	second, err := Seed(st, "english")
	if err != nil {
		t.Fatalf("re-Seed: %v", err)
	}
	if second != 0 {
		t.Errorf("re-seed wrote %d stems, want 0", second)
	}

	wf, err := st.GetWordForm("hello")
	if err != nil {
		t.Fatalf("GetWordForm(hello): %v", err)
	}
	if wf.Freq != 0 {
		t.Errorf("seeded stem freq = %d, want 0", wf.Freq)
	}
}
