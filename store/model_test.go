package store

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/az-ai-labs/spellgraph/internal/errs"
)

func TestWordFormRoundTrip(t *testing.T) {
	in := WordForm{Word: "gözəl", IndexedID: 42, Freq: 17, Documents: 4}
	data, err := msgpack.Marshal(&in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out WordForm
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
}

func TestWordFormRejectsUnknownVersion(t *testing.T) {
	// A hand-built array whose version element does not match.
	data, err := msgpack.Marshal([]any{9, "word", uint64(1), int64(1), int64(1), "extra", "extra2", "extra3", "extra4"})
	if err != nil {
		t.Fatal(err)
	}
	var wf WordForm
	err = msgpack.Unmarshal(data, &wf)
	if errs.KindOf(err) != errs.DeserializationError {
		t.Errorf("kind = %v, want DeserializationError", errs.KindOf(err))
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	in := Metadata{Sequence: 12345}
	data, err := msgpack.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	var out Metadata
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip: got %+v, want %+v", out, in)
	}
}

func TestDiskIndexRoundTripKeepsOrder(t *testing.T) {
	in := DiskIndex{IDs: []NGramPosting{{1}, {5}, {9}}}
	data, err := msgpack.Marshal(&in)
	if err != nil {
		t.Fatal(err)
	}
	var out DiskIndex
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.IDs) != 3 || out.IDs[0].IndexedID != 1 || out.IDs[2].IndexedID != 9 {
		t.Errorf("round trip: got %+v", out.IDs)
	}
}

func TestDiskIndexInsertSorted(t *testing.T) {
	var di DiskIndex
	for _, id := range []uint64{5, 1, 9, 5, 1, 7} {
		di.insertSorted(id)
	}
	want := []uint64{1, 5, 7, 9}
	if len(di.IDs) != len(want) {
		t.Fatalf("got %v, want %v", di.IDs, want)
	}
	for i, id := range want {
		if di.IDs[i].IndexedID != id {
			t.Errorf("position %d: got %d, want %d", i, di.IDs[i].IndexedID, id)
		}
	}
}
