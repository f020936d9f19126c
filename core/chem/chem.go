// core/chem/chem.go
// Chemistry-facing data model for the fingerprint engine. Everything here is
// a fixed-shape record: upstream perception (elements, formal charges,
// aromaticity, interaction roles, ring membership) is resolved before these
// types are built, and absent data is an explicit zero-value-plus-flag,
// never a probed attribute.

package chem

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// ResidueID uniquely identifies a residue (protein or ligand) across all
// frames of a run. The zero value is not a valid identifier.
type ResidueID struct {
	Name   string // residue or ligand code, e.g. "TYR", "LIG"
	Number int    // sequence number
	Chain  string // chain identifier; may be empty
}

// String renders the canonical form NAME<number>.<chain>, e.g. "TYR109.A".
// The chain suffix is omitted when Chain is empty.
func (id ResidueID) String() string {
	if id.Chain == "" {
		return fmt.Sprintf("%s%d", id.Name, id.Number)
	}
	return fmt.Sprintf("%s%d.%s", id.Name, id.Number, id.Chain)
}

// IsZero reports whether id is the zero identifier.
func (id ResidueID) IsZero() bool {
	return id.Name == "" && id.Number == 0 && id.Chain == ""
}

// Less orders identifiers by chain, then sequence number, then name.
// This is the column order contract for bit-vector projection.
func (id ResidueID) Less(other ResidueID) bool {
	if id.Chain != other.Chain {
		return id.Chain < other.Chain
	}
	if id.Number != other.Number {
		return id.Number < other.Number
	}
	return id.Name < other.Name
}

var residuePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9']*?)?(\d+)(?:\.(\w+))?$`)

// ParseResidueID inverts ResidueID.String. Accepted forms: "TYR109",
// "TYR109.A", "109" (nameless), "HIS51.B".
func ParseResidueID(s string) (ResidueID, error) {
	m := residuePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ResidueID{}, errors.Newf("chem: malformed residue identifier %q", s)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return ResidueID{}, errors.Wrapf(err, "chem: residue number in %q", s)
	}
	return ResidueID{Name: m[1], Number: n, Chain: m[3]}, nil
}

// Roles is a bit set of interaction roles assigned to an atom by upstream
// chemistry perception. Detectors match on roles, never on element symbols.
type Roles uint16

const (
	RoleHydrophobic Roles = 1 << iota // C/S/halogen in an apolar environment
	RoleHBDonor                       // polar heavy atom carrying at least one H
	RoleHBAcceptor                    // lone-pair bearing N/O/F
	RoleXBDonor                       // halogen atom of a C-X sigma hole
	RoleXBAcceptor                    // halogen-bond acceptor
	RoleCation                        // positively charged group member
	RoleAnion                         // negatively charged group member
	RoleMetal                         // metal ion
	RoleChelating                     // metal-coordinating O/N
)

// Has reports whether r contains every role in want.
func (r Roles) Has(want Roles) bool { return r&want == want }

var roleNames = map[string]Roles{
	"hydrophobic": RoleHydrophobic,
	"hb_donor":    RoleHBDonor,
	"hb_acceptor": RoleHBAcceptor,
	"xb_donor":    RoleXBDonor,
	"xb_acceptor": RoleXBAcceptor,
	"cation":      RoleCation,
	"anion":       RoleAnion,
	"metal":       RoleMetal,
	"chelating":   RoleChelating,
}

// ParseRole maps a wire name (e.g. "hb_donor") to its role bit.
func ParseRole(name string) (Roles, error) {
	r, ok := roleNames[name]
	if !ok {
		return 0, errors.Newf("chem: unknown atom role %q", name)
	}
	return r, nil
}

// RoleNames returns the wire names set in r, in declaration order.
func RoleNames(r Roles) []string {
	ordered := []string{
		"hydrophobic", "hb_donor", "hb_acceptor", "xb_donor", "xb_acceptor",
		"cation", "anion", "metal", "chelating",
	}
	var out []string
	for _, name := range ordered {
		if r.Has(roleNames[name]) {
			out = append(out, name)
		}
	}
	return out
}

// Atom is one atom's static chemistry. Coordinates live on the Fragment,
// one set per frame.
type Atom struct {
	Name   string // atom name within the residue, e.g. "OG1"
	Symbol string // element symbol, e.g. "O"

	// Formal charge. Charge is meaningful only when ChargeKnown is true;
	// upstream sources that do not assign charges leave both zero.
	Charge      int
	ChargeKnown bool

	Aromatic bool
	Roles    Roles

	// Hydrogens lists fragment-local indices of hydrogens bonded to this
	// atom. nil means the upstream source did not resolve hydrogen
	// positions; donor detectors then skip the angle criterion.
	Hydrogens []int
}

// Fragment is an immutable view of one residue's atoms for exactly one
// frame. It is built by a FrameSource, handed to detectors, and must not
// be retained past the frame's evaluation.
type Fragment struct {
	ID    ResidueID
	Frame int

	Atoms  []Atom
	Coords []r3.Vec // same length and order as Atoms

	// Rings holds aromatic ring systems as groups of atom indices,
	// as perceived upstream.
	Rings [][]int
}

// NewFragment validates and assembles a fragment. Coordinates must map
// one-to-one onto atoms; ring and hydrogen indices must be in range.
func NewFragment(id ResidueID, frame int, atoms []Atom, coords []r3.Vec, rings [][]int) (*Fragment, error) {
	if id.IsZero() {
		return nil, errors.New("chem: fragment requires a residue identifier")
	}
	if len(atoms) != len(coords) {
		return nil, errors.Newf("chem: fragment %s: %d atoms vs %d coordinates", id, len(atoms), len(coords))
	}
	for ri, ring := range rings {
		if len(ring) < 3 {
			return nil, errors.Newf("chem: fragment %s: ring %d has %d atoms", id, ri, len(ring))
		}
		for _, ai := range ring {
			if ai < 0 || ai >= len(atoms) {
				return nil, errors.Newf("chem: fragment %s: ring %d references atom %d of %d", id, ri, ai, len(atoms))
			}
		}
	}
	for ai, a := range atoms {
		for _, h := range a.Hydrogens {
			if h < 0 || h >= len(atoms) {
				return nil, errors.Newf("chem: fragment %s: atom %d hydrogen index %d of %d", id, ai, h, len(atoms))
			}
		}
	}
	return &Fragment{ID: id, Frame: frame, Atoms: atoms, Coords: coords, Rings: rings}, nil
}

// Len returns the atom count.
func (f *Fragment) Len() int { return len(f.Atoms) }

// Coord returns atom i's position this frame.
func (f *Fragment) Coord(i int) r3.Vec { return f.Coords[i] }

// WithRole returns the indices of atoms carrying every role in want,
// in atom order.
func (f *Fragment) WithRole(want Roles) []int {
	var out []int
	for i, a := range f.Atoms {
		if a.Roles.Has(want) {
			out = append(out, i)
		}
	}
	return out
}

// RingCoords returns the coordinates of ring r.
func (f *Fragment) RingCoords(r int) []r3.Vec {
	ring := f.Rings[r]
	out := make([]r3.Vec, len(ring))
	for i, ai := range ring {
		out[i] = f.Coords[ai]
	}
	return out
}
