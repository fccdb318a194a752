// Package detect implements the n-gram character-profile language detector:
// per language and per n in {2,3,4}, train a ranked profile of the K most
// frequent n-grams, then score a query by summing the rank (or a penalty
// when an n-gram is unseen) of every n-gram it contains. The language with
// the lowest total wins.
package detect

import (
	"cmp"
	"os"
	"slices"
	"sync"

	"github.com/az-ai-labs/spellgraph/letter"
	"github.com/vmihailenco/msgpack/v5"
)

// Ns are the n-gram widths trained and scored.
var Ns = [3]int{2, 3, 4}

// profile is one language's trained statistics for one n.
type profile struct {
	Counts map[string]int `msgpack:"counts"`
	Ranks  map[string]int `msgpack:"ranks"` // populated by sort(K)
	K      int            `msgpack:"k"`     // profile size; also the "unseen" penalty
}

func newProfile() *profile {
	return &profile{Counts: make(map[string]int), Ranks: make(map[string]int)}
}

func (p *profile) train(seq letter.Sequence, n int) {
	for _, gram := range letter.SplitNgrams(seq, n) {
		p.Counts[gram.String()]++
	}
}

// sort rebuilds Ranks from the top K entries of Counts, ranked by
// descending count with ties broken by the n-gram string for determinism.
func (p *profile) sort(k int) {
	type kv struct {
		gram  string
		count int
	}
	all := make([]kv, 0, len(p.Counts))
	for g, c := range p.Counts {
		all = append(all, kv{g, c})
	}
	slices.SortFunc(all, func(a, b kv) int {
		if a.count != b.count {
			return cmp.Compare(b.count, a.count)
		}
		return cmp.Compare(a.gram, b.gram)
	})
	if len(all) > k {
		all = all[:k]
	}

	p.K = k
	p.Ranks = make(map[string]int, len(all))
	for i, e := range all {
		p.Ranks[e.gram] = i
	}
}

// rankOrDefault returns the stored rank for gram, or p.K (a penalty equal
// to "worse than any known n-gram") when gram is absent from Ranks.
func (p *profile) rankOrDefault(gram string) int {
	if r, ok := p.Ranks[gram]; ok {
		return r
	}
	return p.K
}

// langProfile bundles the three n-gram-width profiles for one language.
type langProfile struct {
	N map[int]*profile `msgpack:"n"`
}

func newLangProfile() *langProfile {
	lp := &langProfile{N: make(map[int]*profile)}
	for _, n := range Ns {
		lp.N[n] = newProfile()
	}
	return lp
}

// Detector trains and scores per-language n-gram profiles. Training (via
// AddLanguage) and persistence (Save) are serialized under a single mutex;
// Detect and DetectAll are read-only and take only a read lock.
type Detector struct {
	mu sync.RWMutex

	// langOrder preserves insertion order so score ties are broken
	// deterministically by the order languages were first added.
	langOrder []string
	profiles  map[string]*langProfile
}

// New returns an empty Detector.
func New() *Detector {
	return &Detector{profiles: make(map[string]*langProfile)}
}

// AddLanguage trains lang's profile by accumulating n-gram counts from text,
// then re-sorts its ranked profile to the top k n-grams. Calling AddLanguage
// again for the same language adds to its existing counts before resorting,
// so repeated corpus ingestion monotonically improves the profile.
func (d *Detector) AddLanguage(lang, text string, k int) {
	seq := letter.ToLetters(text)

	d.mu.Lock()
	defer d.mu.Unlock()

	lp, ok := d.profiles[lang]
	if !ok {
		lp = newLangProfile()
		d.profiles[lang] = lp
		d.langOrder = append(d.langOrder, lang)
	}
	for _, n := range Ns {
		lp.N[n].train(seq, n)
		lp.N[n].sort(k)
	}
}

// Score is one language's detection score: lower means a better match.
type Score struct {
	Lang  string
	Score float64
}

// score sums, over n in {2,3,4}, the total rank (or penalty) of text's
// n-grams under that width's profile, each divided by n.
func score(text letter.Sequence, lp *langProfile) float64 {
	var total float64
	for _, n := range Ns {
		p := lp.N[n]
		grams := letter.SplitNgrams(text, n)
		if len(grams) == 0 {
			continue
		}
		var sum int
		for _, g := range grams {
			sum += p.rankOrDefault(g.String())
		}
		total += float64(sum) / float64(n)
	}
	return total
}

// DetectAll scores word against every trained language, returning all of
// them ordered by ascending score (best match first). Ties preserve the
// order languages were first added via AddLanguage.
func (d *Detector) DetectAll(word string) []Score {
	seq := letter.ToLetters(word)

	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.langOrder) == 0 {
		return nil
	}

	out := make([]Score, len(d.langOrder))
	for i, lang := range d.langOrder {
		out[i] = Score{Lang: lang, Score: score(seq, d.profiles[lang])}
	}

	slices.SortStableFunc(out, func(a, b Score) int {
		return cmp.Compare(a.Score, b.Score)
	})
	return out
}

// Detect returns the language with the minimum score, and false if no
// language has been trained.
func (d *Detector) Detect(word string) (string, bool) {
	all := d.DetectAll(word)
	if len(all) == 0 {
		return "", false
	}
	return all[0].Lang, true
}

// fileFormat is the self-describing on-disk record for Save/Load: an array
// whose first element is the version, equal to the array's length.
type fileFormat struct {
	_msgpack struct{} `msgpack:",as_array"`
	Version  int
	Langs    []string
	Profiles map[string]*langProfile
}

const detectorFileVersion = 3

// Save serializes every trained profile to path. Writes go to a temporary
// file first and are renamed into place, so a failure mid-write never
// corrupts a previously saved file.
func (d *Detector) Save(path string) error {
	d.mu.RLock()
	ff := fileFormat{
		Version:  detectorFileVersion,
		Langs:    append([]string(nil), d.langOrder...),
		Profiles: d.profiles,
	}
	d.mu.RUnlock()

	data, err := msgpack.Marshal(&ff)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a detector state file written by Save. It is atomic with
// respect to the in-memory Detector: on any error the receiver is left
// untouched.
func (d *Detector) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var ff fileFormat
	if err := msgpack.Unmarshal(data, &ff); err != nil {
		return err
	}
	if ff.Version != detectorFileVersion {
		return errUnknownVersion(ff.Version)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.langOrder = ff.Langs
	d.profiles = ff.Profiles
	for _, lp := range d.profiles {
		for _, n := range Ns {
			if lp.N[n] == nil {
				lp.N[n] = newProfile()
			}
		}
	}
	return nil
}

type errUnknownVersion int

func (e errUnknownVersion) Error() string {
	return "detect: unknown detector file version"
}
