package letter

import (
	"testing"
)

func seqOf(s string) Sequence { return ToLetters(s) }

func TestToLettersRoundTrip(t *testing.T) {
	cases := []string{"hello", "привет", "gözəl", "café"}
	for _, s := range cases {
		seq := ToLetters(s)
		if got := seq.String(); got != s {
			t.Errorf("ToLetters(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestToLettersNFCCollapsesCombiningMarks(t *testing.T) {
	// "e" + combining acute accent should segment as one grapheme.
	decomposed := "é"
	seq := ToLetters(decomposed)
	if len(seq) != 1 {
		t.Fatalf("ToLetters(%q) = %v, want 1 grapheme", decomposed, seq)
	}
}

func TestToLettersCheckedRejectsInvalidUTF8(t *testing.T) {
	if _, err := ToLettersChecked(string([]byte{0xff, 0xfe})); err == nil {
		t.Error("invalid UTF-8 must be rejected")
	}
	if seq, err := ToLettersChecked("valid"); err != nil || seq.String() != "valid" {
		t.Errorf("valid input failed: %v, %v", seq, err)
	}
}

func TestSplitNgrams(t *testing.T) {
	seq := seqOf("hello")
	cases := []struct {
		n    int
		want int
	}{
		{2, 4},
		{3, 3},
		{10, 0},
		{0, 0},
	}
	for _, c := range cases {
		grams := SplitNgrams(seq, c.n)
		if len(grams) != c.want {
			t.Errorf("SplitNgrams(hello, %d) len = %d, want %d", c.n, len(grams), c.want)
		}
	}
}

func TestSplitNgramsRestartable(t *testing.T) {
	seq := seqOf("abcdef")
	first := SplitNgrams(seq, 3)
	second := SplitNgrams(seq, 3)
	if len(first) != len(second) {
		t.Fatalf("restart produced different lengths: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].String() != second[i].String() {
			t.Errorf("restart mismatch at %d: %q vs %q", i, first[i].String(), second[i].String())
		}
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	a := seqOf("профессионал")
	b := seqOf("прафисианал")
	lcs := LongestCommonSubstring(a, b)
	if len(lcs) == 0 {
		t.Fatal("expected non-empty common substring")
	}
}

func TestLevenshteinExact(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
	}
	for _, c := range cases {
		got, ok := Levenshtein(seqOf(c.a), seqOf(c.b), 1<<20)
		if !ok || got != c.want {
			t.Errorf("Levenshtein(%q, %q) = %d, %v; want %d, true", c.a, c.b, got, ok, c.want)
		}
	}
}

func TestLevenshteinBound(t *testing.T) {
	a, b := seqOf("kitten"), seqOf("sitting")
	if _, ok := Levenshtein(a, b, 2); ok {
		t.Error("Levenshtein with bound 2 should early-exit (true distance is 3)")
	}
	if d, ok := Levenshtein(a, b, 3); !ok || d != 3 {
		t.Errorf("Levenshtein with bound 3 = %d, %v; want 3, true (bound is inclusive)", d, ok)
	}
}

func TestLevenshteinBoundMatchesUnbounded(t *testing.T) {
	pairs := [][2]string{
		{"привет", "превет"},
		{"профессионал", "прафисианал"},
		{"hello", "hello"},
		{"a", "abcdef"},
	}
	for _, p := range pairs {
		a, b := seqOf(p[0]), seqOf(p[1])
		want, _ := Levenshtein(a, b, 1<<20)
		for bound := 0; bound <= want+2; bound++ {
			got, ok := Levenshtein(a, b, bound)
			wantOK := want <= bound
			if ok != wantOK {
				t.Errorf("Levenshtein(%q,%q,%d) ok=%v want=%v", p[0], p[1], bound, ok, wantOK)
				continue
			}
			if ok && got != want {
				t.Errorf("Levenshtein(%q,%q,%d) = %d, want %d", p[0], p[1], bound, got, want)
			}
		}
	}
}
