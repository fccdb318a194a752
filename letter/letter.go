// Package letter provides the Unicode grapheme and character n-gram
// primitives every other spellgraph component builds on.
//
// A Letter is a single Unicode grapheme cluster, not a code point: multi-rune
// clusters (a base letter plus combining marks) are kept together so that
// edit distance, n-gram splitting, and substring search never split a
// grapheme in half. Internally a word is a []Letter; conversion to and from
// UTF-8 happens only at serialization and I/O boundaries.
package letter

import (
	"unicode"
	"unicode/utf8"

	"github.com/az-ai-labs/spellgraph/internal/azcase"
	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Letter is one Unicode grapheme cluster, stored as its UTF-8 text.
type Letter string

// Sequence is an ordered run of letters: spellgraph's single in-memory
// representation for a word.
type Sequence []Letter

// ToLetters segments s into grapheme clusters using the Unicode text
// segmentation algorithm (UAX #29). s is first normalized to NFC so that
// decomposed diacritics (e.g. "o" + combining diaeresis) collapse into a
// single letter rather than splitting into a base letter and a mark letter.
func ToLetters(s string) Sequence {
	s = norm.NFC.String(s)

	var out Sequence
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, Letter(gr.Str()))
	}
	return out
}

// ToLettersChecked is ToLetters for untrusted input: it rejects byte
// sequences that are not well-formed UTF-8 instead of segmenting the
// replacement characters they would decode to.
func ToLettersChecked(s string) (Sequence, error) {
	if !utf8.ValidString(s) {
		return nil, errs.New(errs.EncodingError, 0, "letter: input is not valid UTF-8")
	}
	return ToLetters(s), nil
}

// String renders a Sequence back to its UTF-8 form.
func (seq Sequence) String() string {
	var total int
	for _, l := range seq {
		total += len(l)
	}
	b := make([]byte, 0, total)
	for _, l := range seq {
		b = append(b, l...)
	}
	return string(b)
}

// ToLower case-folds seq to lowercase. lang selects a locale-aware mapping:
// Azerbaijani and Turkish ("az", "tr") use the dotted/dotless I rules in
// internal/azcase; every other tag, including the empty string, uses
// Unicode's locale-independent default mapping.
func ToLower(seq Sequence, lang string) Sequence {
	out := make(Sequence, len(seq))
	for i, l := range seq {
		out[i] = lowerLetter(l, lang)
	}
	return out
}

func lowerLetter(l Letter, lang string) Letter {
	if lang == "az" || lang == "tr" {
		if r, size := decodeSingleRune(string(l)); size == len(l) {
			return Letter(string(azcase.Lower(r)))
		}
	}
	runes := []rune(string(l))
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return Letter(string(runes))
}

// decodeSingleRune returns the first rune of s and the byte length of s when
// s encodes exactly one rune (the common case for a letter); size == 0 means
// s is a multi-rune grapheme cluster.
func decodeSingleRune(s string) (rune, int) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, 0
	}
	return runes[0], len(s)
}

// SplitNgrams yields every contiguous window of n letters in seq, in order.
// It yields max(0, len(seq)-n+1) windows and is restartable: each call
// produces a fresh, finite slice rather than an iterator with shared state.
func SplitNgrams(seq Sequence, n int) []Sequence {
	if n <= 0 || len(seq) < n {
		return nil
	}
	out := make([]Sequence, 0, len(seq)-n+1)
	for i := 0; i+n <= len(seq); i++ {
		gram := make(Sequence, n)
		copy(gram, seq[i:i+n])
		out = append(out, gram)
	}
	return out
}

// LongestCommonSubstring returns the longest contiguous run of letters that
// appears in both a and b, computed with the classical O(|a|*|b|) dynamic
// program. Ties are broken by first occurrence in a.
func LongestCommonSubstring(a, b Sequence) Sequence {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	bestLen, bestEnd := 0, 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > bestLen {
					bestLen = curr[j]
					bestEnd = i
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	if bestLen == 0 {
		return nil
	}
	out := make(Sequence, bestLen)
	copy(out, a[bestEnd-bestLen:bestEnd])
	return out
}

// Levenshtein computes the classical edit distance (insert, delete,
// substitute) between a and b, with an early exit once the minimum value
// achievable in the current row exceeds bound. It returns (distance, true)
// when the true distance is within bound (bound itself is a valid, inclusive
// result), or (0, false) when the true distance exceeds bound.
func Levenshtein(a, b Sequence, bound int) (int, bool) {
	if bound < 0 {
		bound = 0
	}

	la, lb := len(a), len(b)
	if abs(la-lb) > bound {
		return 0, false
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > bound {
			return 0, false
		}
		prev, curr = curr, prev
	}

	dist := prev[lb]
	if dist > bound {
		return 0, false
	}
	return dist, true
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
