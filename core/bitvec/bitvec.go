// core/bitvec/bitvec.go
// Fixed-width bit vectors and the set-similarity metrics computed on them.
// One vector encodes one frame's fingerprint row in a stable column order;
// similarity between two rows is intersection/union arithmetic on the raw
// bits.
package bitvec

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/errors"
)

// ErrWidthMismatch reports a similarity call over vectors of different
// widths; such vectors come from different column universes and must not
// be compared.
var ErrWidthMismatch = errors.New("bitvec: width mismatch")

// Vector is a fixed-length ordered sequence of booleans. The zero value is
// unusable; construct with New.
type Vector struct {
	width uint
	bits  *bitset.BitSet
}

// New returns an all-false vector of the given width.
func New(width uint) Vector {
	return Vector{width: width, bits: bitset.New(width)}
}

// Width returns the column count.
func (v Vector) Width() uint { return v.width }

// Set turns bit i on. Out-of-range indices panic: column indices come from
// the projector and are always in range.
func (v Vector) Set(i uint) Vector {
	if i >= v.width {
		panic(errors.Newf("bitvec: bit %d out of width %d", i, v.width))
	}
	v.bits.Set(i)
	return v
}

// Test reports bit i.
func (v Vector) Test(i uint) bool { return i < v.width && v.bits.Test(i) }

// Count returns the number of true bits.
func (v Vector) Count() uint { return v.bits.Count() }

// OnBits returns the indices of true bits in ascending order.
func (v Vector) OnBits() []uint {
	out := make([]uint, 0, v.bits.Count())
	for i, ok := v.bits.NextSet(0); ok; i, ok = v.bits.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

// Equal reports identical width and identical bits.
func (v Vector) Equal(o Vector) bool {
	return v.width == o.width && v.bits.Equal(o.bits)
}

// Tanimoto returns |a∧b| / |a∨b| in [0, 1]. Two all-false vectors encode
// identical (empty) interaction sets and score 1.
func Tanimoto(a, b Vector) (float64, error) {
	if a.width != b.width {
		return 0, errors.Wrapf(ErrWidthMismatch, "%d vs %d", a.width, b.width)
	}
	union := a.bits.UnionCardinality(b.bits)
	if union == 0 {
		return 1, nil
	}
	return float64(a.bits.IntersectionCardinality(b.bits)) / float64(union), nil
}

// Dice returns 2|a∧b| / (|a|+|b|) in [0, 1], with the same empty-set
// convention as Tanimoto.
func Dice(a, b Vector) (float64, error) {
	if a.width != b.width {
		return 0, errors.Wrapf(ErrWidthMismatch, "%d vs %d", a.width, b.width)
	}
	total := a.bits.Count() + b.bits.Count()
	if total == 0 {
		return 1, nil
	}
	return 2 * float64(a.bits.IntersectionCardinality(b.bits)) / float64(total), nil
}
