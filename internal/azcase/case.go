// Package azcase provides the Turkic dotted/dotless I case mapping used by
// the letter package for the "az" and "tr" language tags.
//
// The four special runes:
//   - I (U+0049) lowercases to ı (U+0131, dotless small i)
//   - İ (U+0130, dotted capital I) lowercases to i (U+0069)
//   - i (U+0069) uppercases to İ (U+0130, dotted capital I)
//   - ı (U+0131, dotless small i) uppercases to I (U+0049)
//
// Every other rune falls through to the standard Unicode mapping.
package azcase

import "unicode"

// Lower returns the Turkic-aware lowercase form of r.
func Lower(r rune) rune {
	switch r {
	case 'I':
		return 'ı'
	case 'İ':
		return 'i'
	}
	return unicode.ToLower(r)
}

// Upper returns the Turkic-aware uppercase form of r.
func Upper(r rune) rune {
	switch r {
	case 'i':
		return 'İ'
	case 'ı':
		return 'I'
	}
	return unicode.ToUpper(r)
}
