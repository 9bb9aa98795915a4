package types

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotSchema changes whenever the Snapshot layout changes.
const snapshotSchema uint16 = 1

// SnapshotRecord is one arena entry as exported by Snapshot.
type SnapshotRecord struct {
	ID      TypeID
	Kind    string
	Text    string
	Elem    TypeID `msgpack:",omitempty"`
	Aux     TypeID `msgpack:",omitempty"`
	Payload uint32 `msgpack:",omitempty"`
}

// Snapshot is a point-in-time export of the interner arena.
type Snapshot struct {
	Schema  uint16
	Records []SnapshotRecord
	Stats   Stats
}

// Snapshot exports every interned descriptor in allocation order. Because
// the arena is append-only, a later snapshot extends an earlier one.
func (in *Interner) Snapshot(namer DefNamer) *Snapshot {
	snap := &Snapshot{
		Schema:  snapshotSchema,
		Records: make([]SnapshotRecord, 0, len(in.types)-1),
		Stats:   in.Stats(),
	}
	for i := 1; i < len(in.types); i++ {
		id := TypeID(i) //nolint:gosec // bounded by internRaw
		tt := in.types[i]
		snap.Records = append(snap.Records, SnapshotRecord{
			ID:      id,
			Kind:    tt.Kind.String(),
			Text:    LabelWith(in, namer, id),
			Elem:    tt.Elem,
			Aux:     tt.Aux,
			Payload: tt.Payload,
		})
	}
	return snap
}

// WriteSnapshot encodes snap with msgpack.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Schema != snapshotSchema {
		return nil, fmt.Errorf("snapshot schema %d, want %d", snap.Schema, snapshotSchema)
	}
	return &snap, nil
}
