package errormodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/letter"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	replace := writeTemp(t, "# confusions\nе и ё\n\nо а\n")
	around := writeTemp(t, "к у е\n")

	m, err := LoadFile(replace, around)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	got := m.Transform(letter.Letter("е"), 1)
	want := map[letter.Letter]bool{"е": true, "и": true, "ё": true}
	for _, l := range got {
		if !want[l] {
			t.Errorf("unexpected transform target %q", l)
		}
		delete(want, l)
	}
	if len(want) != 0 {
		t.Errorf("missing transform targets: %v", want)
	}

	// Around applies only past the first position.
	first := m.Transform(letter.Letter("к"), 0)
	for _, l := range first {
		if l == letter.Letter("у") {
			t.Error("around expansion must not apply at position 0")
		}
	}
	later := m.Transform(letter.Letter("к"), 2)
	found := false
	for _, l := range later {
		if l == letter.Letter("у") {
			found = true
		}
	}
	if !found {
		t.Error("around expansion missing at position > 0")
	}
}

func TestLoadFileEmptyPaths(t *testing.T) {
	m, err := LoadFile("", "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := m.Transform(letter.Letter("x"), 1); len(got) != 1 {
		t.Errorf("empty model transform = %v, want identity only", got)
	}
}

func TestLoadFileRejectsBadLines(t *testing.T) {
	path := writeTemp(t, "lonely\n")
	_, err := LoadFile(path, "")
	if errs.KindOf(err) != errs.InvalidArgument {
		t.Errorf("kind = %v, want InvalidArgument", errs.KindOf(err))
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"), "")
	if errs.KindOf(err) != errs.Io {
		t.Errorf("kind = %v, want Io", errs.KindOf(err))
	}
}
