// Package ingest holds the pieces shared by the corpus ingesters: word
// splitting with the fixed punctuation drop class, the per-run frequency
// model, and the boundary-filtered flush into the dictionary store.
package ingest

import (
	"bufio"
	"sort"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/az-ai-labs/spellgraph/store"
)

// DropCharacters is the punctuation class that disqualifies a token: any
// token containing one of these characters is discarded before counting.
const DropCharacters = "~`1234567890-=!@#$%^&*()_+[]\\{}|';\":/.,?><\n\r\t"

// SplitWords segments text on Unicode word boundaries and returns the
// tokens that contain at least one letter and none of DropCharacters.
func SplitWords(text string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(words.SplitFunc)
	for sc.Scan() {
		tok := sc.Text()
		if !keepToken(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// SplitAll segments text into every boundary-delimited token, words and
// separators alike; concatenating the result reproduces text byte for
// byte. Used by callers that rewrite words in place.
func SplitAll(text string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(words.SplitFunc)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out
}

// IsWordToken reports whether tok would survive SplitWords' filtering.
func IsWordToken(tok string) bool { return keepToken(tok) }

func keepToken(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if strings.ContainsRune(DropCharacters, r) || r == ' ' {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// Model accumulates word frequencies for one ingestion run. Each distinct
// word gets documents=1 at first sight; only freq grows afterwards, since
// one run counts as one source unit. Model is not safe for concurrent use:
// the wiki ingester gives each worker its own and merges at the end.
type Model struct {
	words map[string]*store.WordForm
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{words: make(map[string]*store.WordForm)}
}

// Observe counts one occurrence of the lowercased word lw.
func (m *Model) Observe(lw string) {
	if wf, ok := m.words[lw]; ok {
		wf.Freq++
		return
	}
	m.words[lw] = &store.WordForm{Word: lw, Freq: 1, Documents: 1}
}

// Merge folds other into m, summing freq and documents per word.
func (m *Model) Merge(other *Model) {
	for w, owf := range other.words {
		if wf, ok := m.words[w]; ok {
			wf.Freq += owf.Freq
			wf.Documents += owf.Documents
			continue
		}
		m.words[w] = owf
	}
}

// Len returns the number of distinct words observed.
func (m *Model) Len() int { return len(m.words) }

// Freq returns the observed count for lw.
func (m *Model) Freq(lw string) int64 {
	if wf, ok := m.words[lw]; ok {
		return wf.Freq
	}
	return 0
}

// Flush writes every word with freq >= boundary into st, allocating ids
// first, and reports how many words were written. Words below the boundary
// are discarded. The model is left unchanged, so a run can flush once at
// the end.
func (m *Model) Flush(st *store.Store, boundary int64) (int, error) {
	keys := make([]string, 0, len(m.words))
	for w, wf := range m.words {
		if wf.Freq < boundary {
			continue
		}
		keys = append(keys, w)
	}
	sort.Strings(keys)

	batch := store.NewBatch()
	for _, w := range keys {
		wf := *m.words[w]
		wf.IndexedID = st.NextIndexedID()
		if err := batch.AddForm(&wf); err != nil {
			return 0, err
		}
	}
	if err := st.Write(batch); err != nil {
		return 0, err
	}
	return len(keys), nil
}
