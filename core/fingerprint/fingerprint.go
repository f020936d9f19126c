// core/fingerprint/fingerprint.go
// The fingerprint result: a sparse arena of true entries over
// (frame × ligand × residue × interaction), plus the projection of any
// frame onto a fixed-order bit vector.
//
// Entries are materialized only when a detector fired; absence always
// means false. The column universe is a derived view recomputed on
// demand, never cached mutable state.
package fingerprint

import (
	"sort"

	"github.com/cockroachdb/errors"

	"ifp/core/bitvec"
	"ifp/core/chem"
	"ifp/core/detect"
)

// Entry is one true fingerprint bit with its contact metadata.
type Entry struct {
	Frame       int
	Ligand      chem.ResidueID
	Residue     chem.ResidueID
	Interaction string
	Meta        detect.Meta
}

// Column identifies one bit-vector position.
type Column struct {
	Ligand      chem.ResidueID
	Residue     chem.ResidueID
	Interaction string
}

// Less orders columns: ligand, then residue (chain, number, name), then
// interaction name lexicographically. This is the projection order
// contract; it must be stable across calls.
func (c Column) Less(o Column) bool {
	if c.Ligand != o.Ligand {
		return c.Ligand.Less(o.Ligand)
	}
	if c.Residue != o.Residue {
		return c.Residue.Less(o.Residue)
	}
	return c.Interaction < o.Interaction
}

// Manifest summarizes a run, including every recoverable condition hit.
// Nothing is silently dropped: missing frames and detector errors are
// counted here even though they never abort a run.
type Manifest struct {
	RunID           string
	FramesRequested int
	FramesProcessed int
	FramesEmpty     int // processed, zero true entries
	FramesMissing   int // no geometry available
	PairsEvaluated  int
	DetectorErrors  map[string]int // detector name → degenerate evaluations
}

// TotalDetectorErrors sums DetectorErrors.
func (m Manifest) TotalDetectorErrors() int {
	n := 0
	for _, c := range m.DetectorErrors {
		n += c
	}
	return n
}

type entryKey struct {
	frame       int
	ligand      chem.ResidueID
	residue     chem.ResidueID
	interaction string
}

// Result is the complete fingerprint of one run. Immutable once Run
// returns; owned exclusively by the caller.
type Result struct {
	selection string   // selection directive, for reporting
	detectors []string // evaluated detector names, registration order
	ligands   []chem.ResidueID
	frames    []int // processed frame indices, request order
	entries   []Entry
	index     map[entryKey]int
	evaluated []chem.ResidueID // union of residues evaluated across the run, sorted
	manifest  Manifest
}

// Entries returns all true entries in frame order. The slice is shared;
// callers must not mutate it.
func (r *Result) Entries() []Entry { return r.entries }

// Frames returns the processed frame indices in request order.
func (r *Result) Frames() []int { return r.frames }

// Detectors returns the evaluated detector names in registration order.
func (r *Result) Detectors() []string { return r.detectors }

// Ligands returns the ligand axis values.
func (r *Result) Ligands() []chem.ResidueID { return r.ligands }

// EvaluatedResidues returns the union of residues evaluated over the whole
// run, in identifier order. This is the residue axis of the full
// cross-product column universe.
func (r *Result) EvaluatedResidues() []chem.ResidueID { return r.evaluated }

// Selection returns the residue selection directive the run used.
func (r *Result) Selection() string { return r.selection }

// Manifest returns the run summary.
func (r *Result) Manifest() Manifest { return r.manifest }

// Has reports whether the given bit is true. O(1).
func (r *Result) Has(frame int, ligand, residue chem.ResidueID, interaction string) bool {
	_, ok := r.index[entryKey{frame, ligand, residue, interaction}]
	return ok
}

// Lookup returns the entry for a true bit.
func (r *Result) Lookup(frame int, ligand, residue chem.ResidueID, interaction string) (Entry, bool) {
	i, ok := r.index[entryKey{frame, ligand, residue, interaction}]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Columns derives the column universe. dropEmpty=true (the default view)
// keeps only columns with at least one true entry across the run;
// dropEmpty=false yields the full cross-product of ligands × evaluated
// residues × detector names, all-false columns included. Both modes use
// the same ordering and agree on frame rows.
func (r *Result) Columns(dropEmpty bool) []Column {
	var cols []Column
	if dropEmpty {
		seen := make(map[Column]struct{})
		for _, e := range r.entries {
			c := Column{Ligand: e.Ligand, Residue: e.Residue, Interaction: e.Interaction}
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	} else {
		names := append([]string(nil), r.detectors...)
		sort.Strings(names)
		for _, lig := range r.ligands {
			for _, res := range r.evaluated {
				for _, name := range names {
					cols = append(cols, Column{Ligand: lig, Residue: res, Interaction: name})
				}
			}
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Less(cols[j]) })
	return cols
}

// BitVectors projects every processed frame onto the given column
// universe, one vector per frame in frame order. Projecting twice with
// the same columns yields identical vectors.
func (r *Result) BitVectors(cols []Column) []bitvec.Vector {
	out := make([]bitvec.Vector, len(r.frames))
	for i, frame := range r.frames {
		out[i] = r.FrameVector(frame, cols)
	}
	return out
}

// FrameVector projects one frame's row.
func (r *Result) FrameVector(frame int, cols []Column) bitvec.Vector {
	v := bitvec.New(uint(len(cols)))
	for i, c := range cols {
		if r.Has(frame, c.Ligand, c.Residue, c.Interaction) {
			v.Set(uint(i))
		}
	}
	return v
}

// TrueColumns inverts a projection: given a vector and the column universe
// it was projected with, return the columns of its true bits.
func TrueColumns(v bitvec.Vector, cols []Column) ([]Column, error) {
	if v.Width() != uint(len(cols)) {
		return nil, errors.Newf("fingerprint: vector width %d vs %d columns", v.Width(), len(cols))
	}
	var out []Column
	for _, i := range v.OnBits() {
		out = append(out, cols[i])
	}
	return out, nil
}
