package spell

import (
	"cmp"
	"math"
	"slices"

	"github.com/az-ai-labs/spellgraph/letter"
	"github.com/az-ai-labs/spellgraph/store"
)

// rank orders candidates by similarity to the query and truncates to
// maxNum.
//
// The edit-distance cutoff starts at half the query length and tightens to
// the best distance seen so far, so obviously distant candidates are
// dropped without a full distance computation. Survivors score
//
//	f / r                  when the query is a substring-cover of the candidate
//	f / (r * 10 * subdiff) otherwise
//
// where f is the candidate's share of the surviving frequency mass, r the
// edit distance normalized by candidate length, and subdiff the number of
// query letters outside the longest common substring. Equal scores are
// stabilized on ascending indexed id.
func rank(lw letter.Sequence, candidates []store.WordForm, maxNum int) []store.WordForm {
	if len(candidates) == 0 {
		return nil
	}

	minDist := len(lw) / 2

	type scored struct {
		wf store.WordForm
		cl letter.Sequence
	}
	survivors := make([]scored, 0, len(candidates))
	var sumFreq int64

	for _, wf := range candidates {
		cl := letter.ToLetters(wf.Word)
		d, ok := letter.Levenshtein(lw, cl, minDist)
		if !ok {
			continue
		}
		if d < minDist {
			minDist = d
		}
		wf.EditDistance = d
		survivors = append(survivors, scored{wf: wf, cl: cl})
		sumFreq += wf.Freq
	}
	if len(survivors) == 0 {
		return nil
	}
	if sumFreq == 0 {
		sumFreq = 1
	}

	out := make([]store.WordForm, 0, len(survivors))
	for _, s := range survivors {
		f := float64(s.wf.Freq) / float64(sumFreq)
		r := float64(s.wf.EditDistance) / float64(len(s.cl))

		similarity := math.Inf(1)
		if r > 0 {
			subdiff := len(lw) - len(letter.LongestCommonSubstring(lw, s.cl))
			if subdiff == 0 {
				similarity = f / r
			} else {
				similarity = f / (r * 10 * float64(subdiff))
			}
		}

		s.wf.FreqNorm = similarity
		out = append(out, s.wf)
	}

	slices.SortFunc(out, func(a, b store.WordForm) int {
		if a.FreqNorm != b.FreqNorm {
			return cmp.Compare(b.FreqNorm, a.FreqNorm)
		}
		return cmp.Compare(a.IndexedID, b.IndexedID)
	})

	if len(out) > maxNum {
		out = out[:maxNum]
	}
	return out
}
