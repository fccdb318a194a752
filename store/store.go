// Package store implements the persistent dictionary: an ordered key/value
// database with three index families over WordForm records plus a known-
// correction table and a process-wide sequence counter.
//
// Key layout (exact byte prefixes):
//
//	wf.<word>                  WordForm keyed on the surface word
//	wf_indexed.<decimal id>    the same WordForm keyed on its indexed id
//	ngram.<bigram>             DiskIndex of word ids containing the bigram
//	transform.<word>           WordForm of the known correction for word
//	dictionary.meta.           Metadata (sequence counter)
//
// Writes to the first three families go through merge operations: a Batch
// queues operands per key, and Write folds them into the stored value under
// a single merge mutex. WordForm operands sum freq and documents; DiskIndex
// operands union by id. Keys outside those families fall back to
// last-write-wins. A value that fails to deserialize during a fold causes
// the merge to decline: the previous value is kept and the decline is
// logged, never replaced with garbage.
package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/letter"
)

const (
	WordFormPrefix        = "wf."
	WordFormIndexedPrefix = "wf_indexed."
	NGramPrefix           = "ngram."
	TransformPrefix       = "transform."
	MetadataKey           = "dictionary.meta."
)

// Options controls Open.
type Options struct {
	Dir      string
	ReadOnly bool

	// SyncMetadataTimeout is the period of the background metadata flush.
	// Zero disables the background task; metadata is then only persisted
	// on Close. Negative values are treated as zero.
	SyncMetadataTimeout time.Duration

	Logger *logrus.Logger
}

// openDirs guards against the same process opening one store directory
// twice. Cross-process exclusion is handled by badger's directory lock.
var (
	openDirsMu sync.Mutex
	openDirs   = make(map[string]struct{})
)

// Store is a handle to one dictionary database. It is safe for concurrent
// use: reads run on badger's snapshot transactions, merge folds are
// serialized by an internal mutex, and sequence allocation is atomic.
type Store struct {
	db  *badger.DB
	dir string
	ro  bool
	log *logrus.Entry

	seq   atomic.Int64
	dirty atomic.Bool

	// mergeMu serializes merge folds so that concurrent batches never race
	// on read-modify-write of the same key.
	mergeMu sync.Mutex

	syncStop chan struct{}
	syncDone chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Open opens (creating if missing) the store at opts.Dir. A second open of
// the same directory from this process fails with AlreadyOpen; a read-write
// open while another process holds the directory lock fails with
// StorageError.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errs.New(errs.InvalidArgument, 0, "store: empty directory")
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, errs.Wrap(errs.Io, 0, err, "store: resolve %q", opts.Dir)
	}

	openDirsMu.Lock()
	if _, dup := openDirs[dir]; dup {
		openDirsMu.Unlock()
		return nil, errs.New(errs.AlreadyOpen, 0, "store: %s is already open in this process", dir)
	}
	openDirs[dir] = struct{}{}
	openDirsMu.Unlock()

	release := func() {
		openDirsMu.Lock()
		delete(openDirs, dir)
		openDirsMu.Unlock()
	}

	if !opts.ReadOnly {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			release()
			return nil, errs.Wrap(errs.Io, 0, err, "store: create %s", dir)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
	}
	log := logger.WithField("component", "store")

	bopts := badger.DefaultOptions(dir).
		WithReadOnly(opts.ReadOnly).
		WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		release()
		kind := errs.StorageError
		if os.IsPermission(err) {
			kind = errs.Io
		}
		return nil, errs.Wrap(kind, 0, err, "store: open %s (read-only: %v)", dir, opts.ReadOnly)
	}

	s := &Store{
		db:  db,
		dir: dir,
		ro:  opts.ReadOnly,
		log: log,
	}

	if err := s.loadMetadata(); err != nil {
		_ = db.Close()
		release()
		return nil, err
	}

	if timeout := opts.SyncMetadataTimeout; timeout > 0 && !opts.ReadOnly {
		s.syncStop = make(chan struct{})
		s.syncDone = make(chan struct{})
		go s.syncMetadataLoop(timeout)
	}

	return s, nil
}

// loadMetadata reads the persisted sequence counter; an absent record
// zero-initializes it.
func (s *Store) loadMetadata() error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(MetadataKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var m Metadata
			if err := msgpack.Unmarshal(val, &m); err != nil {
				return errs.Wrap(errs.DeserializationError, 0, err, "store: metadata")
			}
			s.seq.Store(m.Sequence)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		s.seq.Store(0)
		return nil
	}
	if err != nil {
		if e, ok := err.(*errs.Error); ok {
			return e
		}
		return errs.Wrap(errs.StorageError, 0, err, "store: read metadata")
	}
	return nil
}

// NextIndexedID allocates the next word id and marks the metadata dirty.
// Concurrent callers never observe the same id.
func (s *Store) NextIndexedID() uint64 {
	id := s.seq.Add(1) - 1
	s.dirty.Store(true)
	return uint64(id)
}

// Sequence returns the next id that NextIndexedID would allocate.
func (s *Store) Sequence() int64 { return s.seq.Load() }

// ReadOnly reports whether the store was opened read-only.
func (s *Store) ReadOnly() bool { return s.ro }

func (s *Store) syncMetadataLoop(timeout time.Duration) {
	defer close(s.syncDone)
	ticker := time.NewTicker(timeout)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.SyncMetadata(); err != nil {
				s.log.WithError(err).Error("metadata sync failed, will retry next tick")
			}
		case <-s.syncStop:
			return
		}
	}
}

// SyncMetadata persists the sequence counter when it is dirty. It is an
// idempotent snapshot of the atomic counter, so it coexists with concurrent
// writers: a racing NextIndexedID re-marks the record dirty and the next
// tick picks it up.
func (s *Store) SyncMetadata() error {
	if s.ro {
		return errs.New(errs.ReadOnly, 0, "store: read-only")
	}
	if !s.dirty.Swap(false) {
		return nil
	}

	m := Metadata{Sequence: s.seq.Load()}
	data, err := msgpack.Marshal(&m)
	if err != nil {
		s.dirty.Store(true)
		return errs.Wrap(errs.EncodingError, 0, err, "store: metadata")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(MetadataKey), data)
	})
	if err != nil {
		s.dirty.Store(true)
		return errs.Wrap(errs.StorageError, 0, err, "store: write metadata")
	}
	return nil
}

// Close stops the metadata sync task, persists any dirty metadata, and
// closes the underlying database. Close is idempotent.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.syncStop != nil {
			close(s.syncStop)
			<-s.syncDone
		}
		if !s.ro {
			if err := s.SyncMetadata(); err != nil {
				s.log.WithError(err).Error("final metadata sync failed")
				s.closeErr = err
			}
		}
		if err := s.db.Close(); err != nil && s.closeErr == nil {
			s.closeErr = errs.Wrap(errs.StorageError, 0, err, "store: close")
		}
		openDirsMu.Lock()
		delete(openDirs, s.dir)
		openDirsMu.Unlock()
	})
	return s.closeErr
}

// get reads one key and decodes it with decode. A missing key maps to
// NotFound; callers running multi-key lookups convert that to "absent".
func (s *Store) get(key []byte, decode func([]byte) error) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(decode)
	})
	if err == badger.ErrKeyNotFound {
		return errs.New(errs.NotFound, 0, "store: key %q not found", key)
	}
	if err != nil {
		if e, ok := err.(*errs.Error); ok {
			return e
		}
		return errs.Wrap(errs.StorageError, 0, err, "store: read %q", key)
	}
	return nil
}

// GetWordForm reads the WordForm stored under wf.<word>.
func (s *Store) GetWordForm(word string) (WordForm, error) {
	var wf WordForm
	err := s.get([]byte(WordFormPrefix+word), func(val []byte) error {
		if err := msgpack.Unmarshal(val, &wf); err != nil {
			return errs.Wrap(errs.DeserializationError, 0, err, "store: word form %q", word)
		}
		return nil
	})
	return wf, err
}

// GetWordFormByID reads the WordForm stored under wf_indexed.<id>.
func (s *Store) GetWordFormByID(id uint64) (WordForm, error) {
	var wf WordForm
	key := WordFormIndexedPrefix + strconv.FormatUint(id, 10)
	err := s.get([]byte(key), func(val []byte) error {
		if err := msgpack.Unmarshal(val, &wf); err != nil {
			return errs.Wrap(errs.DeserializationError, 0, err, "store: word form id %d", id)
		}
		return nil
	})
	return wf, err
}

// GetTransform reads the known correction stored under transform.<word>.
func (s *Store) GetTransform(word string) (WordForm, error) {
	var wf WordForm
	err := s.get([]byte(TransformPrefix+word), func(val []byte) error {
		if err := msgpack.Unmarshal(val, &wf); err != nil {
			return errs.Wrap(errs.DeserializationError, 0, err, "store: transform %q", word)
		}
		return nil
	})
	return wf, err
}

// GetNGramIndex reads the DiskIndex stored under ngram.<gram>.
func (s *Store) GetNGramIndex(gram string) (DiskIndex, error) {
	var di DiskIndex
	err := s.get([]byte(NGramPrefix+gram), func(val []byte) error {
		if err := msgpack.Unmarshal(val, &di); err != nil {
			return errs.Wrap(errs.DeserializationError, 0, err, "store: ngram %q", gram)
		}
		return nil
	})
	return di, err
}

// PutTransform records that misspelled should be corrected to wf. The
// transform family is outside the merge families, so this is a plain
// last-write-wins put.
func (s *Store) PutTransform(misspelled string, wf *WordForm) error {
	if s.ro {
		return errs.New(errs.ReadOnly, 0, "store: read-only")
	}
	data, err := msgpack.Marshal(wf)
	if err != nil {
		return errs.Wrap(errs.EncodingError, 0, err, "store: transform %q", misspelled)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(TransformPrefix+misspelled), data)
	})
	if err != nil {
		return errs.Wrap(errs.StorageError, 0, err, "store: write transform %q", misspelled)
	}
	return nil
}

// WriteForm issues the full merge fan-out for one WordForm: the word index,
// the id index, and one ngram posting per distinct bigram of the word.
// wf.IndexedID must be assigned (via NextIndexedID) before calling.
func (s *Store) WriteForm(wf *WordForm) error {
	b := NewBatch()
	if err := b.AddForm(wf); err != nil {
		return err
	}
	return s.Write(b)
}

// Batch accumulates merge operands per key. The zero value is not usable;
// call NewBatch.
type Batch struct {
	ops  map[string][][]byte
	keys []string // insertion order, for deterministic apply
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{ops: make(map[string][][]byte)}
}

// Merge queues one raw operand under key.
func (b *Batch) Merge(key string, operand []byte) {
	if _, ok := b.ops[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.ops[key] = append(b.ops[key], operand)
}

// Len returns the number of distinct keys with pending operands.
func (b *Batch) Len() int { return len(b.keys) }

// AddForm queues the three-family merge fan-out for wf.
func (b *Batch) AddForm(wf *WordForm) error {
	data, err := msgpack.Marshal(wf)
	if err != nil {
		return errs.Wrap(errs.EncodingError, 0, err, "store: word form %q", wf.Word)
	}
	b.Merge(WordFormPrefix+wf.Word, data)
	b.Merge(WordFormIndexedPrefix+strconv.FormatUint(wf.IndexedID, 10), data)

	posting, err := msgpack.Marshal(&NGramPosting{IndexedID: wf.IndexedID})
	if err != nil {
		return errs.Wrap(errs.EncodingError, 0, err, "store: posting %d", wf.IndexedID)
	}
	seen := make(map[string]struct{})
	for _, gram := range letter.SplitNgrams(letter.ToLetters(wf.Word), 2) {
		g := gram.String()
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		b.Merge(NGramPrefix+g, posting)
	}
	return nil
}

// Write folds every queued operand of b into the store. Folds across all
// keys of the batch are applied under the merge mutex; badger commits them
// atomically per transaction, splitting into follow-up transactions only
// when a batch exceeds the engine's transaction size.
func (s *Store) Write(b *Batch) error {
	if s.ro {
		return errs.New(errs.ReadOnly, 0, "store: read-only")
	}
	if b.Len() == 0 {
		return nil
	}

	s.mergeMu.Lock()
	defer s.mergeMu.Unlock()

	txn := s.db.NewTransaction(true)
	defer func() { txn.Discard() }()

	for _, key := range b.keys {
		merged, keep, err := s.foldKey(txn, []byte(key), b.ops[key])
		if err != nil {
			return err
		}
		if !keep {
			continue
		}
		if err := txn.Set([]byte(key), merged); err == badger.ErrTxnTooBig {
			if err := txn.Commit(); err != nil {
				return errs.Wrap(errs.StorageError, 0, err, "store: commit batch")
			}
			txn = s.db.NewTransaction(true)
			if err := txn.Set([]byte(key), merged); err != nil {
				return errs.Wrap(errs.StorageError, 0, err, "store: merge %q", key)
			}
		} else if err != nil {
			return errs.Wrap(errs.StorageError, 0, err, "store: merge %q", key)
		}
	}

	if err := txn.Commit(); err != nil {
		return errs.Wrap(errs.StorageError, 0, err, "store: commit batch")
	}
	return nil
}

// foldKey reads the existing value of key inside txn and folds operands
// into it via the prefix's merge operator. keep reports whether a new value
// should be written; a declined merge with a corrupt existing value keeps
// the prior bytes untouched.
func (s *Store) foldKey(txn *badger.Txn, key []byte, operands [][]byte) (merged []byte, keep bool, err error) {
	var existing []byte
	item, err := txn.Get(key)
	switch err {
	case nil:
		existing, err = item.ValueCopy(nil)
		if err != nil {
			return nil, false, errs.Wrap(errs.StorageError, 0, err, "store: read %q", key)
		}
	case badger.ErrKeyNotFound:
		existing = nil
	default:
		return nil, false, errs.Wrap(errs.StorageError, 0, err, "store: read %q", key)
	}

	merged, ok := s.mergeOperator(key, existing, operands)
	if ok {
		return merged, true, nil
	}

	// Declined by prefix: last-write-wins on the final operand.
	if !isMergePrefix(key) {
		return operands[len(operands)-1], true, nil
	}

	// Declined by deserialization failure: keep the previous value.
	return nil, false, nil
}

func isMergePrefix(key []byte) bool {
	return bytes.HasPrefix(key, []byte(WordFormPrefix)) ||
		bytes.HasPrefix(key, []byte(WordFormIndexedPrefix)) ||
		bytes.HasPrefix(key, []byte(NGramPrefix))
}

// mergeOperator combines an existing value with the queued operands for
// key. It returns ok=false when the key's prefix is outside the merge
// families or when any value fails to deserialize.
func (s *Store) mergeOperator(key, existing []byte, operands [][]byte) ([]byte, bool) {
	switch {
	case bytes.HasPrefix(key, []byte(WordFormPrefix)),
		bytes.HasPrefix(key, []byte(WordFormIndexedPrefix)):
		return s.mergeWordForms(key, existing, operands)
	case bytes.HasPrefix(key, []byte(NGramPrefix)):
		return s.mergeNGramIndex(key, existing, operands)
	}
	return nil, false
}

// mergeWordForms sums freq and documents across the existing record and
// every operand, keeping the first non-empty word.
func (s *Store) mergeWordForms(key, existing []byte, operands [][]byte) ([]byte, bool) {
	var wf WordForm
	if existing != nil {
		if err := msgpack.Unmarshal(existing, &wf); err != nil {
			s.log.WithError(err).WithField("key", string(key)).
				Warn("merge declined: existing word form did not deserialize")
			return nil, false
		}
	}

	for _, op := range operands {
		var operand WordForm
		if err := msgpack.Unmarshal(op, &operand); err != nil {
			s.log.WithError(err).WithField("key", string(key)).
				Warn("merge declined: word form operand did not deserialize")
			return nil, false
		}
		wf.Freq += operand.Freq
		wf.Documents += operand.Documents
		if wf.Word == "" {
			wf.Word = operand.Word
			wf.IndexedID = operand.IndexedID
		}
	}

	data, err := msgpack.Marshal(&wf)
	if err != nil {
		s.log.WithError(err).WithField("key", string(key)).
			Warn("merge declined: word form did not serialize")
		return nil, false
	}
	return data, true
}

// mergeNGramIndex unions the operand postings into the existing DiskIndex,
// keyed on indexed id.
func (s *Store) mergeNGramIndex(key, existing []byte, operands [][]byte) ([]byte, bool) {
	var di DiskIndex
	if existing != nil {
		if err := msgpack.Unmarshal(existing, &di); err != nil {
			s.log.WithError(err).WithField("key", string(key)).
				Warn("merge declined: existing ngram index did not deserialize")
			return nil, false
		}
	}

	for _, op := range operands {
		var posting NGramPosting
		if err := msgpack.Unmarshal(op, &posting); err != nil {
			s.log.WithError(err).WithField("key", string(key)).
				Warn("merge declined: ngram posting did not deserialize")
			return nil, false
		}
		di.insertSorted(posting.IndexedID)
	}

	data, err := msgpack.Marshal(&di)
	if err != nil {
		s.log.WithError(err).WithField("key", string(key)).
			Warn("merge declined: ngram index did not serialize")
		return nil, false
	}
	return data, true
}
