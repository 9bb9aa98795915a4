package types

import (
	"encoding/binary"
	"math"
)

// sigWriter builds the canonical byte signature of a side-table shape.
// Two shapes share a slot exactly when their signatures are equal.
type sigWriter struct {
	buf []byte
}

func (w *sigWriter) uint(v uint64) {
	w.buf = binary.AppendUvarint(w.buf, v)
}

func (w *sigWriter) id(id TypeID) {
	w.uint(uint64(id))
}

func (w *sigWriter) ids(ids []TypeID) {
	w.uint(uint64(len(ids)))
	for _, id := range ids {
		w.id(id)
	}
}

func (w *sigWriter) bool(b bool) {
	if b {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *sigWriter) str(s string) {
	w.uint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *sigWriter) float(f float64) {
	w.uint(math.Float64bits(f))
}

// param writes the identity of a type parameter: its name and owning
// declaration. Bounds are attached later and do not take part in identity.
func (w *sigWriter) param(p TypeParamInfo) {
	w.str(p.Name)
	w.uint(uint64(p.Decl))
}

func (w *sigWriter) String() string {
	return string(w.buf)
}
