// Package morphdict seeds the dictionary store from hand-curated,
// embedded stem lists, one newline-delimited file per language. Seeded
// stems enter the store as zero-frequency records, so a curated stem is a
// valid correction target even before any corpus has been ingested; corpus
// runs later merge real frequencies on top.
package morphdict

import (
	"bufio"
	"bytes"
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/letter"
	"github.com/az-ai-labs/spellgraph/store"
)

//go:embed data/*.txt
var dictFS embed.FS

// Languages returns the language tags with an embedded stem list, sorted.
func Languages() []string {
	entries, err := dictFS.ReadDir("data")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		out = append(out, strings.TrimSuffix(name, path.Ext(name)))
	}
	sort.Strings(out)
	return out
}

// Stems returns lang's stem list, lowercased, comment and blank lines
// removed. An unknown language fails with NotFound.
func Stems(lang string) ([]string, error) {
	raw, err := dictFS.ReadFile("data/" + lang + ".txt")
	if err != nil {
		return nil, errs.Wrap(errs.NotFound, 0, err, "morphdict: no stem list for %q", lang)
	}

	var out []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, letter.ToLower(letter.ToLetters(line), lang).String())
	}
	return out, nil
}

// Seed writes lang's stems into st as zero-frequency records, skipping
// stems the store already knows so that re-seeding never allocates
// duplicate ids. It returns the number of stems written.
func Seed(st *store.Store, lang string) (int, error) {
	stems, err := Stems(lang)
	if err != nil {
		return 0, err
	}

	batch := store.NewBatch()
	written := 0
	for _, stem := range stems {
		_, err := st.GetWordForm(stem)
		if err == nil {
			continue
		}
		if errs.KindOf(err) != errs.NotFound {
			return written, err
		}
		wf := store.WordForm{Word: stem, IndexedID: st.NextIndexedID()}
		if err := batch.AddForm(&wf); err != nil {
			return written, err
		}
		written++
	}
	if err := st.Write(batch); err != nil {
		return 0, err
	}
	return written, nil
}
