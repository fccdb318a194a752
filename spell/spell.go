// Package spell implements the four-level spelling checker over the
// persistent dictionary.
//
// A check escalates through the levels in order and stops at the first one
// that yields a candidate:
//
//	level 0: the word itself is in the dictionary
//	level 1: a known correction is stored for the word
//	level 2: Norvig edits (distance 1 and 2), constrained by the language's
//	         error model, looked up directly
//	level 3: bigram index candidate generation, for words the edit
//	         generator cannot reach
//
// Level-2 and level-3 candidates are ranked by a similarity score combining
// normalized frequency, edit distance, and longest-common-substring overlap
// with the query.
package spell

import (
	"sync"

	"github.com/az-ai-labs/spellgraph/editgen"
	"github.com/az-ai-labs/spellgraph/errormodel"
	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/letter"
	"github.com/az-ai-labs/spellgraph/store"
)

// Check levels.
const (
	LevelExact     = 0
	LevelTransform = 1
	LevelNorvig    = 2
	LevelNGram     = 3
)

// DefaultMaxNum is the number of ranked candidates returned when the caller
// does not ask for a specific count.
const DefaultMaxNum = 3

// ngramMinHits is the shared-bigram threshold for level 3: a candidate is
// resolved only when it shares more than this many bigrams with the query.
const ngramMinHits = 2

// ngramMinQueryLen is the query length (in letters) that level 3 must
// exceed to produce candidates at all; shorter queries share too few
// bigrams to rank.
const ngramMinQueryLen = 4

// Control describes one check request.
type Control struct {
	Word   string          // surface form used for level 0/1 lookups
	LW     letter.Sequence // lowercased letters; derived from Word when nil
	Level  int             // highest level to run, 0..3
	MaxNum int             // ranked candidates to return; DefaultMaxNum when <= 0
}

// Checker checks words of one language against one dictionary store, using
// that language's error model for candidate generation. The model can be
// swapped while checks run (live reload of the model files); everything
// else is immutable after construction. Safe for concurrent use.
type Checker struct {
	store *store.Store
	lang  string

	modelMu sync.RWMutex
	model   *errormodel.Model
}

// New builds a Checker for lang over st. A nil model degrades the edit
// generator to identity transforms (plain deletes, transposes, and
// duplicate inserts).
func New(st *store.Store, model *errormodel.Model, lang string) *Checker {
	if model == nil {
		model = errormodel.New()
	}
	return &Checker{store: st, model: model, lang: lang}
}

// Lang returns the language tag the checker was built for.
func (c *Checker) Lang() string { return c.lang }

// Model returns the current error model.
func (c *Checker) Model() *errormodel.Model {
	c.modelMu.RLock()
	defer c.modelMu.RUnlock()
	return c.model
}

// SetModel installs a replacement error model; in-flight checks keep the
// model they started with.
func (c *Checker) SetModel(model *errormodel.Model) {
	if model == nil {
		model = errormodel.New()
	}
	c.modelMu.Lock()
	c.model = model
	c.modelMu.Unlock()
}

// Check runs the escalation described in the package comment and returns
// the ranked candidates. A word with no candidates at any level yields an
// empty, non-error result; storage failures propagate.
func (c *Checker) Check(ctl Control) ([]store.WordForm, error) {
	if ctl.Word == "" && len(ctl.LW) == 0 {
		return nil, errs.New(errs.InvalidArgument, 0, "spell: no word provided")
	}
	if len(ctl.LW) == 0 {
		ctl.LW = letter.ToLower(letter.ToLetters(ctl.Word), c.lang)
	}
	if ctl.Word == "" {
		ctl.Word = ctl.LW.String()
	}
	if ctl.MaxNum <= 0 {
		ctl.MaxNum = DefaultMaxNum
	}

	// Level 0: exact hit.
	wf, err := c.store.GetWordForm(ctl.Word)
	switch {
	case err == nil:
		return []store.WordForm{wf}, nil
	case errs.KindOf(err) != errs.NotFound:
		return nil, err
	}
	if ctl.Level < LevelTransform {
		return nil, nil
	}

	// Level 1: known correction.
	wf, err = c.store.GetTransform(ctl.Word)
	switch {
	case err == nil:
		return []store.WordForm{wf}, nil
	case errs.KindOf(err) != errs.NotFound:
		return nil, err
	}
	if ctl.Level < LevelNorvig {
		return nil, nil
	}

	// Level 2: Norvig edits at distance 1 and 2.
	candidates, err := c.checkNorvig(ctl.LW)
	if err != nil {
		return nil, err
	}

	// Level 3 runs only when every previous level came up empty.
	if len(candidates) == 0 && ctl.Level >= LevelNGram {
		candidates, err = c.checkNGram(ctl.LW)
		if err != nil {
			return nil, err
		}
	}

	return rank(ctl.LW, candidates, ctl.MaxNum), nil
}

// checkNorvig looks up every distance-1 edit of lw and, through a second
// edit generation, every distance-2 edit. A word reachable both ways keeps
// the smaller distance.
func (c *Checker) checkNorvig(lw letter.Sequence) ([]store.WordForm, error) {
	found := make(map[string]store.WordForm)

	model := c.Model()
	edits1 := editgen.Edits1(lw, model)
	for word := range edits1 {
		wf, err := c.store.GetWordForm(word)
		switch {
		case err == nil:
			wf.EditDistance = 1
			found[word] = wf
		case errs.KindOf(err) != errs.NotFound:
			return nil, err
		}
	}

	for _, e1 := range edits1 {
		for word := range editgen.Edits1(e1, model) {
			if _, dup := found[word]; dup {
				continue
			}
			wf, err := c.store.GetWordForm(word)
			switch {
			case err == nil:
				wf.EditDistance = 2
				found[word] = wf
			case errs.KindOf(err) != errs.NotFound:
				return nil, err
			}
		}
	}

	out := make([]store.WordForm, 0, len(found))
	for _, wf := range found {
		out = append(out, wf)
	}
	return out, nil
}

// checkNGram accumulates bigram-index hits per word id and resolves ids
// that share more than ngramMinHits bigrams with the query.
func (c *Checker) checkNGram(lw letter.Sequence) ([]store.WordForm, error) {
	if len(lw) <= ngramMinQueryLen {
		return nil, nil
	}

	hits := make(map[uint64]int)
	for _, gram := range letter.SplitNgrams(lw, 2) {
		di, err := c.store.GetNGramIndex(gram.String())
		switch {
		case err == nil:
			for _, p := range di.IDs {
				hits[p.IndexedID]++
			}
		case errs.KindOf(err) != errs.NotFound:
			return nil, err
		}
	}

	var out []store.WordForm
	for id, n := range hits {
		if n <= ngramMinHits {
			continue
		}
		wf, err := c.store.GetWordFormByID(id)
		switch {
		case err == nil:
			out = append(out, wf)
		case errs.KindOf(err) != errs.NotFound:
			return nil, err
		}
	}
	return out, nil
}
