package spell

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/az-ai-labs/spellgraph/internal/azcase"
	"github.com/az-ai-labs/spellgraph/internal/errs"
)

// maxHyphenParts caps how many hyphen-separated parts of a compound are
// checked independently, bounding CPU on pathological input.
const maxHyphenParts = 8

// IsCorrect reports whether word is in the dictionary, checking
// hyphenated compounds part by part and truncating a trailing clitic at an
// apostrophe. Words containing digits are not natural-language
// misspellings and count as correct, as does the empty string.
func (c *Checker) IsCorrect(word string) (bool, error) {
	if word == "" {
		return true, nil
	}
	if containsDigit(word) {
		return true, nil
	}

	lower := c.Lower(word)

	if idx := strings.IndexByte(lower, '-'); idx > 0 && idx < len(lower)-1 {
		parts := strings.Split(lower, "-")
		if len(parts) > maxHyphenParts {
			return true, nil
		}
		for _, part := range parts {
			if part == "" {
				continue
			}
			ok, err := c.IsCorrect(part)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}

	if stem, ok := preApostropheStem(lower); ok {
		return c.IsCorrect(stem)
	}

	_, err := c.store.GetWordForm(lower)
	switch {
	case err == nil:
		return true, nil
	case errs.KindOf(err) == errs.NotFound:
		return false, nil
	default:
		return false, err
	}
}

// CorrectWord returns the top-ranked correction for word with the input's
// case pattern (all-upper, title-case, lowercase) restored, or word itself
// when it is correct or has no candidates. Title-cased unknown words are
// left alone: they are most likely proper nouns.
func (c *Checker) CorrectWord(word string, level, maxNum int) (string, error) {
	if word == "" {
		return word, nil
	}
	ok, err := c.IsCorrect(word)
	if err != nil {
		return word, err
	}
	if ok {
		return word, nil
	}
	if isTitleCase(word) {
		return word, nil
	}

	forms, err := c.Check(Control{Word: c.Lower(word), Level: level, MaxNum: maxNum})
	if err != nil || len(forms) == 0 {
		return word, err
	}
	return c.applyCase(word, forms[0].Word), nil
}

// Lower case-folds word with the checker's language rules.
func (c *Checker) Lower(word string) string {
	var sb strings.Builder
	sb.Grow(len(word))
	for _, r := range word {
		sb.WriteRune(c.lowerRune(r))
	}
	return sb.String()
}

func (c *Checker) lowerRune(r rune) rune {
	if c.lang == "az" || c.lang == "tr" {
		return azcase.Lower(r)
	}
	return unicode.ToLower(r)
}

func (c *Checker) upperRune(r rune) rune {
	if c.lang == "az" || c.lang == "tr" {
		return azcase.Upper(r)
	}
	return unicode.ToUpper(r)
}

// applyCase transfers the case pattern of original onto corrected.
func (c *Checker) applyCase(original, corrected string) string {
	if original == "" || corrected == "" {
		return corrected
	}

	if isAllUpper(original) {
		var sb strings.Builder
		sb.Grow(len(corrected))
		for _, r := range corrected {
			sb.WriteRune(c.upperRune(r))
		}
		return sb.String()
	}

	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(corrected)
		if size == 0 {
			return corrected
		}
		var sb strings.Builder
		sb.Grow(len(corrected))
		sb.WriteRune(c.upperRune(r))
		sb.WriteString(corrected[size:])
		return sb.String()
	}

	return corrected
}

// preApostropheStem returns the part of lower before an interior
// apostrophe, when one exists.
func preApostropheStem(lower string) (string, bool) {
	for i, r := range lower {
		if i > 0 && isApostrophe(r) && i+utf8.RuneLen(r) < len(lower) {
			return lower[:i], true
		}
	}
	return "", false
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == 'ʼ'
}

// isTitleCase reports whether s has its first rune uppercase and at least
// one lowercase letter after it (an all-uppercase word is an acronym, not
// title case).
func isTitleCase(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return false
	}
	rest := s[size:]
	if rest == "" {
		return false
	}
	for _, c := range rest {
		if unicode.IsLetter(c) && !unicode.IsUpper(c) {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
