package errormodel

import "github.com/az-ai-labs/spellgraph/letter"

func l(s string) letter.Letter { return letter.Letter(s) }

// Default builds the baked-in error models for the languages spellgraph
// ships out of the box: QWERTY keyboard-proximity ("around") plus
// visual/phonetic confusion pairs ("replace") for English, Russian (ЙЦУКЕН
// layout), and Azerbaijani (Latin, schwa-aware).
//
// These are intentionally small seed tables, not exhaustive keyboard maps:
// production deployments load their own mapping files with LoadFile.
func Default() *Registry {
	reg := NewRegistry()
	reg.Set("en", english())
	reg.Set("ru", russian())
	reg.Set("az", azerbaijani())
	return reg
}

func english() *Model {
	m := New()
	around := map[string]string{
		"q": "wa", "w": "qes", "e": "wrd", "r": "etf", "t": "ryg",
		"y": "tuh", "u": "yij", "i": "uok", "o": "ipl", "p": "ol",
		"a": "qsz", "s": "adwxz", "d": "sfec", "f": "dgr", "g": "fht",
		"h": "gjy", "j": "hku", "k": "jli", "l": "ko",
		"z": "asx", "x": "zsdc", "c": "xdfv", "v": "cfgb", "b": "vghn",
		"n": "bhjm", "m": "njk",
	}
	for src, targets := range around {
		for _, t := range targets {
			m.AddAround(l(src), l(string(t)))
		}
	}
	replace := map[string]string{
		"c": "k", "k": "c", "s": "z", "z": "s",
		"i": "y", "y": "i", "e": "i", "o": "0", "0": "o",
		"1": "l", "l": "1",
	}
	for src, targets := range replace {
		for _, t := range targets {
			m.AddReplace(l(src), l(string(t)))
		}
	}
	return m
}

func russian() *Model {
	m := New()
	// ЙЦУКЕН row adjacency (lowercase only; ranking and check paths
	// lowercase input before lookup so uppercase entries are unnecessary).
	around := map[string][]string{
		"й": {"ц"}, "ц": {"й", "у"}, "у": {"ц", "к"}, "к": {"у", "е"},
		"е": {"к", "н"}, "н": {"е", "г"}, "г": {"н", "ш"}, "ш": {"г", "щ"},
		"щ": {"ш", "з"}, "з": {"щ", "х"}, "х": {"з"},
		"ф": {"ы"}, "ы": {"ф", "в"}, "в": {"ы", "а"}, "а": {"в", "п"},
		"п": {"а", "р"}, "р": {"п", "о"}, "о": {"р", "л"}, "л": {"о", "д"},
		"д": {"л", "ж"}, "ж": {"д", "э"}, "э": {"ж"},
		"я": {"ч"}, "ч": {"я", "с"}, "с": {"ч", "м"}, "м": {"с", "и"},
		"и": {"м", "т"}, "т": {"и", "ь"}, "ь": {"т", "б"}, "б": {"ь", "ю"},
		"ю": {"б"},
	}
	for src, targets := range around {
		for _, t := range targets {
			m.AddAround(l(src), l(t))
		}
	}
	replace := map[string][]string{
		"е": {"ё", "и"}, "ё": {"е"},
		"и": {"й", "е"}, "й": {"и"},
		"о": {"а"}, "а": {"о"}, // unstressed vowel reduction (akanye/ikanye)
		"т": {"д"}, "д": {"т"},
	}
	for src, targets := range replace {
		for _, t := range targets {
			m.AddReplace(l(src), l(t))
		}
	}
	return m
}

func azerbaijani() *Model {
	m := New()
	// Latin qwerty-az layout adjacency, schwa included next to 'e'.
	around := map[string][]string{
		"q": {"w", "ü"}, "w": {"q", "e"}, "e": {"w", "r", "ə"}, "r": {"e", "t"},
		"t": {"r", "y"}, "y": {"t", "u"}, "u": {"y", "ı"}, "ı": {"u", "o"},
		"o": {"ı", "p"}, "p": {"o"},
		"a": {"s"}, "s": {"a", "d"}, "d": {"s", "f"}, "f": {"d", "g"},
		"g": {"f", "ğ"}, "ğ": {"g", "h"}, "h": {"ğ", "x"}, "x": {"h"},
		"z": {"x"}, "c": {"v"}, "v": {"c", "b"}, "b": {"v", "n"},
		"n": {"b", "m"}, "m": {"n"},
	}
	for src, targets := range around {
		for _, t := range targets {
			m.AddAround(l(src), l(t))
		}
	}
	replace := map[string][]string{
		"ə": {"e", "a"}, "e": {"ə"},
		"ş": {"s"}, "s": {"ş"},
		"ç": {"c"}, "c": {"ç"},
		"ö": {"o"}, "o": {"ö"},
		"ü": {"u"}, "u": {"ü"},
		"ğ": {"g"}, "g": {"ğ"},
		"ı": {"i"}, "i": {"ı"},
	}
	for src, targets := range replace {
		for _, t := range targets {
			m.AddReplace(l(src), l(t))
		}
	}
	return m
}
