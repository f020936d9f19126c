// core/residues/residues.go
// Residue selection: which protein residues participate in a frame's
// interaction evaluation. Selection is a pure function of the frame's
// geometry and the configured mode; nothing is cached across frames,
// because residues drift in and out of range over a trajectory.
package residues

import (
	"strings"

	"github.com/cockroachdb/errors"

	"ifp/core/chem"
	"ifp/core/geom"
)

// ErrUnknownResidue reports an explicit selection naming a residue absent
// from the protein pool. Fatal: surfaced before any frame is processed.
var ErrUnknownResidue = errors.New("residues: unknown residue in selection")

// Mode picks the selection strategy.
type Mode int

const (
	// ModeCutoff keeps residues whose minimum atomic distance to the
	// ligand is within Selection.Cutoff, recomputed every frame.
	ModeCutoff Mode = iota
	// ModeExplicit keeps exactly Selection.IDs, in the given order.
	ModeExplicit
	// ModeAll keeps every residue in the pool, every frame.
	ModeAll
)

// DefaultCutoff is the default neighborhood radius in Å.
const DefaultCutoff = 6.0

// Selection describes which residues to evaluate.
type Selection struct {
	Mode   Mode
	Cutoff float64 // ModeCutoff only; inclusive upper bound
	IDs    []chem.ResidueID
}

// Auto selects by distance cutoff. cutoff <= 0 means DefaultCutoff.
func Auto(cutoff float64) Selection {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	return Selection{Mode: ModeCutoff, Cutoff: cutoff}
}

// All selects the whole pool.
func All() Selection { return Selection{Mode: ModeAll} }

// Explicit selects exactly the given residues.
func Explicit(ids ...chem.ResidueID) Selection {
	return Selection{Mode: ModeExplicit, IDs: ids}
}

// Parse builds a Selection from a CLI-style directive: "auto", "all", or a
// comma-separated residue identifier list ("TYR109.A,HIS51.B").
func Parse(s string, cutoff float64) (Selection, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "auto":
		return Auto(cutoff), nil
	case "all":
		return All(), nil
	}
	var ids []chem.ResidueID
	for _, part := range strings.Split(s, ",") {
		id, err := chem.ParseResidueID(part)
		if err != nil {
			return Selection{}, err
		}
		ids = append(ids, id)
	}
	return Explicit(ids...), nil
}

// String renders the directive form accepted by Parse.
func (s Selection) String() string {
	switch s.Mode {
	case ModeAll:
		return "all"
	case ModeExplicit:
		parts := make([]string, len(s.IDs))
		for i, id := range s.IDs {
			parts[i] = id.String()
		}
		return strings.Join(parts, ",")
	default:
		return "auto"
	}
}

// Validate checks an explicit selection against the pool's residue set.
// Runs once per run, before any frame work. Cutoff/all modes never fail.
func Validate(sel Selection, pool []chem.ResidueID) error {
	if sel.Mode != ModeExplicit {
		return nil
	}
	known := make(map[chem.ResidueID]struct{}, len(pool))
	for _, id := range pool {
		known[id] = struct{}{}
	}
	for _, id := range sel.IDs {
		if _, ok := known[id]; !ok {
			return errors.Wrapf(ErrUnknownResidue, "%s", id)
		}
	}
	return nil
}

// Select returns the residues to evaluate this frame, in pool order for
// cutoff/all modes and in selection order for explicit mode. An empty
// return is valid: the frame simply yields no entries.
func Select(sel Selection, ligand *chem.Fragment, pool []*chem.Fragment) []*chem.Fragment {
	switch sel.Mode {
	case ModeAll:
		out := make([]*chem.Fragment, len(pool))
		copy(out, pool)
		return out

	case ModeExplicit:
		byID := make(map[chem.ResidueID]*chem.Fragment, len(pool))
		for _, f := range pool {
			byID[f.ID] = f
		}
		var out []*chem.Fragment
		for _, id := range sel.IDs {
			if f, ok := byID[id]; ok {
				out = append(out, f)
			}
		}
		return out

	default: // ModeCutoff
		cutoff := sel.Cutoff
		if cutoff <= 0 {
			cutoff = DefaultCutoff
		}
		var out []*chem.Fragment
		for _, f := range pool {
			// Inclusive boundary: a residue at exactly the cutoff
			// distance qualifies.
			if geom.MinDist(ligand.Coords, f.Coords) <= cutoff {
				out = append(out, f)
			}
		}
		return out
	}
}
