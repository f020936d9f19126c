// core/geom/geom.go
// Vector geometry for interaction detection: centroids, ring normals, and
// angle-window tests. Units: lengths in Å, angles in radians unless a
// function says otherwise.
//
// Determinism: every reduction here runs in fixed slice order, so identical
// inputs give bit-identical outputs regardless of caller scheduling.
//
// This package has no chemistry or app deps; detectors import it cleanly.

package geom

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrEmpty is returned for reductions over zero coordinates.
	ErrEmpty = errors.New("geom: empty coordinate set")
	// ErrDegenerate is returned when a direction cannot be defined
	// (zero-length vector, collinear ring edge).
	ErrDegenerate = errors.New("geom: degenerate geometry")
)

// epsilon below which a vector norm is treated as zero.
const eps = 1e-10

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// Dist returns the Euclidean distance between two points.
func Dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// MinDist returns the minimum pairwise distance between two coordinate
// sets. Either set being empty yields +Inf, which compares as "never
// within cutoff" for selection purposes.
func MinDist(as, bs []r3.Vec) float64 {
	min := math.Inf(1)
	for _, a := range as {
		for _, b := range bs {
			if d := Dist(a, b); d < min {
				min = d
			}
		}
	}
	return min
}

// Centroid returns the arithmetic mean of a coordinate set.
func Centroid(ps []r3.Vec) (r3.Vec, error) {
	if len(ps) == 0 {
		return r3.Vec{}, ErrEmpty
	}
	var sum r3.Vec
	for _, p := range ps {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(ps)), sum), nil
}

// RingNormal returns a vector normal to the plane of a ring, computed as
// the cross product of the centroid-to-first-atom and centroid-to-second-atom
// edges. The sign of the direction is arbitrary; angle tests against ring
// normals must use the ring mirror rule (BetweenLimitsRing).
func RingNormal(centroid r3.Vec, ring []r3.Vec) (r3.Vec, error) {
	if len(ring) < 2 {
		return r3.Vec{}, ErrDegenerate
	}
	ca := r3.Sub(ring[0], centroid)
	cb := r3.Sub(ring[1], centroid)
	n := r3.Cross(ca, cb)
	if r3.Norm(n) < eps {
		return r3.Vec{}, ErrDegenerate
	}
	return n, nil
}

// Angle returns the angle between two vectors in [0, π].
func Angle(a, b r3.Vec) (float64, error) {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na < eps || nb < eps {
		return 0, ErrDegenerate
	}
	cos := r3.Dot(a, b) / (na * nb)
	// Clamp: the quotient can drift a ULP past ±1.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos), nil
}

// BetweenLimits reports whether angle lies in the inclusive window
// [lo, hi]. All angle windows in this module are inclusive on both ends.
func BetweenLimits(angle, lo, hi float64) bool {
	return lo <= angle && angle <= hi
}

// BetweenLimitsRing is BetweenLimits for angles measured against a ring
// normal. A ring plane has two equivalent normals, so for angles past π/2
// the mirrored angle π/2 - (angle mod π/2) is accepted as well.
func BetweenLimitsRing(angle, lo, hi float64) bool {
	if angle > math.Pi/2 {
		mirror := math.Pi/2 - math.Mod(angle, math.Pi/2)
		return BetweenLimits(angle, lo, hi) || BetweenLimits(mirror, lo, hi)
	}
	return BetweenLimits(angle, lo, hi)
}
