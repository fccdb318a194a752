package store

import (
	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/vmihailenco/msgpack/v5"
)

// WordForm is the canonical dictionary record: a surface word with its
// aggregate corpus statistics and the opaque id shared by the three index
// families.
type WordForm struct {
	Word      string
	IndexedID uint64
	Freq      int64
	Documents int64

	// Derived at read time by the spell checker; never persisted.
	EditDistance int     `msgpack:"-"`
	FreqNorm     float64 `msgpack:"-"`
}

const wordFormVersion = 5 // 4 fields + the version element itself

// EncodeMsgpack writes wf as [version, word, indexed_id, freq, documents].
func (wf *WordForm) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(wordFormVersion); err != nil {
		return err
	}
	return enc.EncodeMulti(wordFormVersion, wf.Word, wf.IndexedID, wf.Freq, wf.Documents)
}

// DecodeMsgpack reads the framing written by EncodeMsgpack, rejecting any
// version other than wordFormVersion.
func (wf *WordForm) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	var version int
	if err := dec.Decode(&version); err != nil {
		return err
	}
	if version != n || version != wordFormVersion {
		return errs.New(errs.DeserializationError, 0,
			"word form: unknown version %d (array length %d)", version, n)
	}
	return dec.DecodeMulti(&wf.Word, &wf.IndexedID, &wf.Freq, &wf.Documents)
}

// Metadata is the store's process-wide persisted sequence counter,
// serialized as [2, sequence].
type Metadata struct {
	Sequence int64
}

const metadataVersion = 2

func (m *Metadata) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(metadataVersion); err != nil {
		return err
	}
	return enc.EncodeMulti(metadataVersion, m.Sequence)
}

func (m *Metadata) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	var version int
	if err := dec.Decode(&version); err != nil {
		return err
	}
	if version != n || version != metadataVersion {
		return errs.New(errs.DeserializationError, 0,
			"metadata: unknown version %d (array length %d)", version, n)
	}
	return dec.Decode(&m.Sequence)
}

// NGramPosting is one entry of a DiskIndex: the id of a WordForm that
// contains the bigram a ngram. key is derived, not persisted.
type NGramPosting struct {
	IndexedID uint64
}

const ngramPostingVersion = 2

func (p *NGramPosting) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(ngramPostingVersion); err != nil {
		return err
	}
	return enc.EncodeMulti(ngramPostingVersion, p.IndexedID)
}

func (p *NGramPosting) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	var version int
	if err := dec.Decode(&version); err != nil {
		return err
	}
	if version != n || version != ngramPostingVersion {
		return errs.New(errs.DeserializationError, 0,
			"ngram posting: unknown version %d (array length %d)", version, n)
	}
	return dec.Decode(&p.IndexedID)
}

// DiskIndex is the value stored under an ngram. key: a set of postings kept
// as a slice sorted and de-duplicated by IndexedID.
type DiskIndex struct {
	IDs []NGramPosting
}

const diskIndexVersion = 2

func (d *DiskIndex) EncodeMsgpack(enc *msgpack.Encoder) error {
	ids := make([]uint64, len(d.IDs))
	for i, p := range d.IDs {
		ids[i] = p.IndexedID
	}
	if err := enc.EncodeArrayLen(diskIndexVersion); err != nil {
		return err
	}
	return enc.EncodeMulti(diskIndexVersion, ids)
}

func (d *DiskIndex) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	var version int
	if err := dec.Decode(&version); err != nil {
		return err
	}
	if version != n || version != diskIndexVersion {
		return errs.New(errs.DeserializationError, 0,
			"disk index: unknown version %d (array length %d)", version, n)
	}
	var ids []uint64
	if err := dec.Decode(&ids); err != nil {
		return err
	}
	d.IDs = make([]NGramPosting, len(ids))
	for i, id := range ids {
		d.IDs[i] = NGramPosting{IndexedID: id}
	}
	return nil
}

// insertSorted inserts id into d, keeping IDs strictly increasing and
// duplicate-free.
func (d *DiskIndex) insertSorted(id uint64) {
	lo, hi := 0, len(d.IDs)
	for lo < hi {
		mid := (lo + hi) / 2
		if d.IDs[mid].IndexedID < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(d.IDs) && d.IDs[lo].IndexedID == id {
		return
	}
	d.IDs = append(d.IDs, NGramPosting{})
	copy(d.IDs[lo+1:], d.IDs[lo:])
	d.IDs[lo] = NGramPosting{IndexedID: id}
}
