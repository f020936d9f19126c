// internal/frames/frames.go
// JSON frame source: the module's own interchange for resolved geometry
// and chemistry. Upstream tooling (topology parsing, bond/charge
// perception) emits one document per complex:
//
//	{
//	  "ligand":  [ {"id": "LIG1", "atoms": [...], "rings": [[0,1,2,3,4,5]]} ],
//	  "protein": [ {"id": "TYR109.A", "atoms": [...]} ],
//	  "frames":  [ {"index": 0, "coords": {"LIG1": [[x,y,z], ...], ...}} ]
//	}
//
// Atoms carry upstream typing: {"name", "symbol", "charge", "aromatic",
// "roles": ["hb_donor", ...], "hydrogens": [i, ...]}. A "charge" key left
// out means the formal charge is unknown, not zero.
package frames

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"
	"gonum.org/v1/gonum/spatial/r3"

	"ifp/core/chem"
)

type atomJSON struct {
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	Charge    *int     `json:"charge,omitempty"`
	Aromatic  bool     `json:"aromatic,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Hydrogens []int    `json:"hydrogens,omitempty"`
}

type residueJSON struct {
	ID    string     `json:"id"`
	Atoms []atomJSON `json:"atoms"`
	Rings [][]int    `json:"rings,omitempty"`
}

type frameJSON struct {
	Index  int                     `json:"index"`
	Coords map[string][][3]float64 `json:"coords"`
}

type document struct {
	Ligand  []residueJSON `json:"ligand"`
	Protein []residueJSON `json:"protein"`
	Frames  []frameJSON   `json:"frames"`
}

// topRes is one residue's static topology, resolved once at open.
type topRes struct {
	id    chem.ResidueID
	atoms []chem.Atom
	rings [][]int
}

// Source implements chem.FrameSource over one decoded document.
type Source struct {
	ligand  []topRes
	protein []topRes
	frames  map[int]frameJSON
	order   []int
}

// Load opens and decodes a frame document from disk.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "frames: open")
	}
	defer func() { _ = f.Close() }()
	return Open(f)
}

// Open decodes a frame document from r and validates its topology.
func Open(r io.Reader) (*Source, error) {
	var doc document
	if err := gojson.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "frames: decode")
	}
	if len(doc.Ligand) == 0 {
		return nil, errors.New("frames: document has no ligand group")
	}
	if len(doc.Protein) == 0 {
		return nil, errors.New("frames: document has no protein group")
	}

	s := &Source{frames: make(map[int]frameJSON, len(doc.Frames))}
	var err error
	if s.ligand, err = buildTopology(doc.Ligand); err != nil {
		return nil, err
	}
	if s.protein, err = buildTopology(doc.Protein); err != nil {
		return nil, err
	}
	for _, fr := range doc.Frames {
		if _, dup := s.frames[fr.Index]; dup {
			return nil, errors.Newf("frames: duplicate frame index %d", fr.Index)
		}
		s.frames[fr.Index] = fr
		s.order = append(s.order, fr.Index)
	}
	sort.Ints(s.order)
	return s, nil
}

func buildTopology(rs []residueJSON) ([]topRes, error) {
	out := make([]topRes, 0, len(rs))
	seen := make(map[chem.ResidueID]struct{}, len(rs))
	for _, r := range rs {
		id, err := chem.ParseResidueID(r.ID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			return nil, errors.Newf("frames: duplicate residue %s", id)
		}
		seen[id] = struct{}{}
		atoms := make([]chem.Atom, len(r.Atoms))
		for i, a := range r.Atoms {
			atom := chem.Atom{
				Name:      a.Name,
				Symbol:    a.Symbol,
				Aromatic:  a.Aromatic,
				Hydrogens: a.Hydrogens,
			}
			if a.Charge != nil {
				atom.Charge = *a.Charge
				atom.ChargeKnown = true
			}
			for _, name := range a.Roles {
				role, err := chem.ParseRole(name)
				if err != nil {
					return nil, errors.Wrapf(err, "residue %s atom %d", id, i)
				}
				atom.Roles |= role
			}
			atoms[i] = atom
		}
		out = append(out, topRes{id: id, atoms: atoms, rings: r.Rings})
	}
	return out, nil
}

func ids(rs []topRes) []chem.ResidueID {
	out := make([]chem.ResidueID, len(rs))
	for i, r := range rs {
		out[i] = r.id
	}
	return out
}

// Frames lists available frame indices, ascending.
func (s *Source) Frames() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// LigandResidues lists the ligand axis values in document order.
func (s *Source) LigandResidues() []chem.ResidueID { return ids(s.ligand) }

// ProteinResidues lists the protein pool in document order.
func (s *Source) ProteinResidues() []chem.ResidueID { return ids(s.protein) }

// Frame materializes one frame. A frame without stored geometry, or with
// a ligand coordinate block missing or malformed, reports
// chem.ErrNoGeometry; a protein residue without coordinates this frame is
// skipped (it simply cannot interact).
func (s *Source) Frame(ctx context.Context, index int) (*chem.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fr, ok := s.frames[index]
	if !ok {
		return nil, errors.Wrapf(chem.ErrNoGeometry, "frame %d", index)
	}

	out := &chem.Frame{Index: index}
	for _, t := range s.ligand {
		frag, err := buildFragment(t, index, fr.Coords[t.id.String()])
		if err != nil {
			return nil, errors.Wrapf(chem.ErrNoGeometry, "frame %d ligand %s: %v", index, t.id, err)
		}
		out.Ligand = append(out.Ligand, frag)
	}
	for _, t := range s.protein {
		block, ok := fr.Coords[t.id.String()]
		if !ok {
			continue
		}
		frag, err := buildFragment(t, index, block)
		if err != nil {
			return nil, errors.Wrapf(chem.ErrNoGeometry, "frame %d residue %s: %v", index, t.id, err)
		}
		out.Protein = append(out.Protein, frag)
	}
	return out, nil
}

func buildFragment(t topRes, frame int, block [][3]float64) (*chem.Fragment, error) {
	if block == nil {
		return nil, errors.New("no coordinates")
	}
	coords := make([]r3.Vec, len(block))
	for i, p := range block {
		coords[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	return chem.NewFragment(t.id, frame, t.atoms, coords, t.rings)
}
