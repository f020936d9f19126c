// core/chem/source.go
package chem

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrNoGeometry reports that a requested frame has no coordinates. Callers
// treat the frame as empty and continue; it is never fatal to a run.
var ErrNoGeometry = errors.New("chem: no geometry for frame")

// Frame bundles the fragments of one trajectory frame. A ligand that spans
// several residues yields several ligand fragments; each is an independent
// fingerprint axis value.
type Frame struct {
	Index   int
	Ligand  []*Fragment
	Protein []*Fragment
}

// FrameSource is the upstream geometry/chemistry adapter. Implementations
// own file parsing, selection, and perception; the engine only consumes
// resolved fragments through this interface.
//
// Frames must be reported in ascending order. Frame returns ErrNoGeometry
// (possibly wrapped) when coordinates for the index cannot be supplied.
type FrameSource interface {
	// Frames lists the frame indices this source can serve, ascending.
	Frames() []int
	// LigandResidues and ProteinResidues describe the static topology,
	// available before any frame is read. Selection validation runs
	// against ProteinResidues before frame work begins.
	LigandResidues() []ResidueID
	ProteinResidues() []ResidueID
	// Frame materializes one frame's fragments.
	Frame(ctx context.Context, index int) (*Frame, error)
}
