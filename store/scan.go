package store

import (
	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/az-ai-labs/spellgraph/internal/errs"
)

// ForEachWordForm iterates every wf. record in key (byte) order, stopping
// early when fn returns false. Records that fail to deserialize abort the
// scan.
func (s *Store) ForEachWordForm(fn func(WordForm) bool) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(WordFormPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var wf WordForm
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &wf)
			})
			if err != nil {
				return errs.Wrap(errs.DeserializationError, 0, err,
					"store: scan %q", it.Item().Key())
			}
			if !fn(wf) {
				return nil
			}
		}
		return nil
	})
}

// Stats summarizes the store's contents.
type Stats struct {
	WordForms  int64 // wf. records
	Indexed    int64 // wf_indexed. records
	NGrams     int64 // ngram. index keys
	Transforms int64 // transform. records
	TotalFreq  int64 // sum of wf. frequencies
	Sequence   int64 // next id to be allocated
}

// Stats walks every key family and counts its records. It runs on one
// snapshot, so a concurrent writer does not skew the counts against each
// other.
func (s *Store) Stats() (Stats, error) {
	st := Stats{Sequence: s.seq.Load()}

	err := s.db.View(func(txn *badger.Txn) error {
		count := func(prefix string, counter *int64) {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefix)
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				*counter++
			}
		}
		count(WordFormIndexedPrefix, &st.Indexed)
		count(NGramPrefix, &st.NGrams)
		count(TransformPrefix, &st.Transforms)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(WordFormPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			st.WordForms++
			var wf WordForm
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &wf)
			})
			if err != nil {
				return errs.Wrap(errs.DeserializationError, 0, err,
					"store: stats %q", it.Item().Key())
			}
			st.TotalFreq += wf.Freq
		}
		return nil
	})
	if err != nil {
		if e, ok := err.(*errs.Error); ok {
			return Stats{}, e
		}
		return Stats{}, errs.Wrap(errs.StorageError, 0, err, "store: stats")
	}
	return st, nil
}
