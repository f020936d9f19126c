package detect

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"ifp/core/chem"
)

type testAtom struct {
	symbol string
	roles  chem.Roles
	at     r3.Vec
	hs     []int
}

func frag(t *testing.T, name string, atoms []testAtom, rings ...[]int) *chem.Fragment {
	t.Helper()
	as := make([]chem.Atom, len(atoms))
	cs := make([]r3.Vec, len(atoms))
	for i, a := range atoms {
		as[i] = chem.Atom{Name: a.symbol, Symbol: a.symbol, Roles: a.roles, Hydrogens: a.hs}
		cs[i] = a.at
	}
	f, err := chem.NewFragment(chem.ResidueID{Name: name, Number: 1, Chain: "A"}, 0, as, cs, rings)
	if err != nil {
		t.Fatalf("fragment %s: %v", name, err)
	}
	return f
}

// hexRing builds a benzene-like ring of radius ~1.4 Å in the XY plane at
// height z, plus a ring index group covering all atoms.
func hexRing(t *testing.T, name string, z float64, extraRoles chem.Roles) *chem.Fragment {
	t.Helper()
	pts := []r3.Vec{
		{X: 1.4, Y: 0, Z: z}, {X: 0.7, Y: 1.21, Z: z}, {X: -0.7, Y: 1.21, Z: z},
		{X: -1.4, Y: 0, Z: z}, {X: -0.7, Y: -1.21, Z: z}, {X: 0.7, Y: -1.21, Z: z},
	}
	atoms := make([]testAtom, 6)
	for i, p := range pts {
		atoms[i] = testAtom{symbol: "C", roles: extraRoles, at: p}
	}
	return frag(t, name, atoms, []int{0, 1, 2, 3, 4, 5})
}

func TestHydrophobic(t *testing.T) {
	d := &Hydrophobic{Distance: 4.5}
	lig := frag(t, "LIG", []testAtom{{symbol: "C", roles: chem.RoleHydrophobic}})
	near := frag(t, "ALA", []testAtom{{symbol: "C", roles: chem.RoleHydrophobic, at: r3.Vec{X: 4.0}}})
	edge := frag(t, "VAL", []testAtom{{symbol: "C", roles: chem.RoleHydrophobic, at: r3.Vec{X: 4.5}}})
	far := frag(t, "LEU", []testAtom{{symbol: "C", roles: chem.RoleHydrophobic, at: r3.Vec{X: 5.0}}})
	noRole := frag(t, "SER", []testAtom{{symbol: "O", at: r3.Vec{X: 1.0}}})

	if m, ok, err := d.Detect(lig, near); !ok || err != nil || m.Distance != 4.0 {
		t.Errorf("near: ok=%v err=%v meta=%+v", ok, err, m)
	}
	// Inclusive bound.
	if _, ok, _ := d.Detect(lig, edge); !ok {
		t.Error("pair at exactly 4.5 Å must fire")
	}
	if _, ok, _ := d.Detect(lig, far); ok {
		t.Error("pair at 5.0 Å must not fire")
	}
	if _, ok, err := d.Detect(lig, noRole); ok || err != nil {
		t.Errorf("no hydrophobic atoms: ok=%v err=%v (want quiet false)", ok, err)
	}
}

// Donor and acceptor 2.8 Å apart with a well-placed hydrogen fires; the
// same pair at 10 Å does not.
func TestHBondDistanceScenario(t *testing.T) {
	d := &HBond{Distance: 3.5, AngleMin: 130, AngleMax: 180, LigandDonates: true}
	// N at origin with H on the O axis: D–H···A angle = 180°.
	lig := frag(t, "LIG", []testAtom{
		{symbol: "N", roles: chem.RoleHBDonor, hs: []int{1}},
		{symbol: "H", at: r3.Vec{X: 1.0}},
	})
	near := frag(t, "SER", []testAtom{{symbol: "O", roles: chem.RoleHBAcceptor, at: r3.Vec{X: 2.8}}})
	far := frag(t, "SER", []testAtom{{symbol: "O", roles: chem.RoleHBAcceptor, at: r3.Vec{X: 10}}})

	m, ok, err := d.Detect(lig, near)
	if !ok || err != nil {
		t.Fatalf("2.8 Å oriented pair: ok=%v err=%v", ok, err)
	}
	if m.Distance != 2.8 || !m.AngleSet || m.Angle < 179 {
		t.Errorf("meta = %+v, want distance 2.8 and ~180° angle", m)
	}
	if _, ok, _ := d.Detect(lig, far); ok {
		t.Error("10 Å pair must not fire")
	}
}

// A hydrogen pointing away from the acceptor fails the angle window even
// inside the distance cutoff.
func TestHBondAngleRejects(t *testing.T) {
	d := &HBond{Distance: 3.5, AngleMin: 130, AngleMax: 180, LigandDonates: true}
	lig := frag(t, "LIG", []testAtom{
		{symbol: "N", roles: chem.RoleHBDonor, hs: []int{1}},
		{symbol: "H", at: r3.Vec{X: -1.0}}, // opposite side: angle ~0°
	})
	res := frag(t, "SER", []testAtom{{symbol: "O", roles: chem.RoleHBAcceptor, at: r3.Vec{X: 2.8}}})
	if _, ok, err := d.Detect(lig, res); ok || err != nil {
		t.Errorf("misoriented hydrogen: ok=%v err=%v", ok, err)
	}
}

// Without resolved hydrogens the distance criterion stands alone.
func TestHBondNoHydrogens(t *testing.T) {
	d := &HBond{Distance: 3.5, AngleMin: 130, AngleMax: 180, LigandDonates: true}
	lig := frag(t, "LIG", []testAtom{{symbol: "N", roles: chem.RoleHBDonor}})
	res := frag(t, "SER", []testAtom{{symbol: "O", roles: chem.RoleHBAcceptor, at: r3.Vec{X: 2.8}}})
	m, ok, err := d.Detect(lig, res)
	if !ok || err != nil || m.AngleSet {
		t.Errorf("ok=%v err=%v meta=%+v, want distance-only hit", ok, err, m)
	}
}

func TestIonicOrientations(t *testing.T) {
	cationic := &Ionic{Label: "Cationic", Distance: 4.5, LigandCation: true}
	anionic := &Ionic{Label: "Anionic", Distance: 4.5}
	ligPlus := frag(t, "LIG", []testAtom{{symbol: "N", roles: chem.RoleCation}})
	asp := frag(t, "ASP", []testAtom{{symbol: "O", roles: chem.RoleAnion, at: r3.Vec{X: 3.0}}})

	if _, ok, _ := cationic.Detect(ligPlus, asp); !ok {
		t.Error("Cationic: ligand(+) vs ASP(−) at 3.0 Å must fire")
	}
	if _, ok, _ := anionic.Detect(ligPlus, asp); ok {
		t.Error("Anionic must not fire for a ligand cation")
	}
}

func TestCationPi(t *testing.T) {
	d := &CationRing{Label: "CationPi", Distance: 4.5, AngleMax: 30, LigandCation: true}
	ring := hexRing(t, "TYR", 0, 0)
	above := frag(t, "LIG", []testAtom{{symbol: "N", roles: chem.RoleCation, at: r3.Vec{Z: 3.0}}})
	side := frag(t, "LIG", []testAtom{{symbol: "N", roles: chem.RoleCation, at: r3.Vec{X: 4.0}}})

	m, ok, err := d.Detect(above, ring)
	if !ok || err != nil {
		t.Fatalf("stacked cation: ok=%v err=%v", ok, err)
	}
	if m.Distance != 3.0 || !m.AngleSet {
		t.Errorf("meta = %+v", m)
	}
	// In-plane cation: distance passes, 90° to the normal fails.
	if _, ok, _ := d.Detect(side, ring); ok {
		t.Error("in-plane cation must not fire")
	}
}

func TestRingStackingGeometries(t *testing.T) {
	f2f := &RingStacking{Label: "FaceToFace", Distance: 5.5, AngleMin: 0, AngleMax: 35}
	e2f := &RingStacking{Label: "EdgeToFace", Distance: 6.5, AngleMin: 50, AngleMax: 90}
	pi := &PiStacking{FaceToFace: f2f, EdgeToFace: e2f}

	base := hexRing(t, "PHE", 0, 0)
	parallel := hexRing(t, "LIG", 3.5, 0)

	// Perpendicular ring: same hexagon rotated into the XZ plane, offset in Y.
	perpPts := []r3.Vec{
		{X: 1.4, Y: 4.5, Z: 0}, {X: 0.7, Y: 4.5, Z: 1.21}, {X: -0.7, Y: 4.5, Z: 1.21},
		{X: -1.4, Y: 4.5, Z: 0}, {X: -0.7, Y: 4.5, Z: -1.21}, {X: 0.7, Y: 4.5, Z: -1.21},
	}
	perpAtoms := make([]testAtom, 6)
	for i, p := range perpPts {
		perpAtoms[i] = testAtom{symbol: "C", at: p}
	}
	perp := frag(t, "LIG", perpAtoms, []int{0, 1, 2, 3, 4, 5})

	if _, ok, _ := f2f.Detect(parallel, base); !ok {
		t.Error("parallel rings 3.5 Å apart must face-to-face stack")
	}
	if _, ok, _ := e2f.Detect(parallel, base); ok {
		t.Error("parallel rings must not edge-to-face stack")
	}
	if _, ok, _ := f2f.Detect(perp, base); ok {
		t.Error("perpendicular rings must not face-to-face stack")
	}
	if _, ok, _ := e2f.Detect(perp, base); !ok {
		t.Error("perpendicular rings 4.5 Å apart must edge-to-face stack")
	}
	for _, f := range []*chem.Fragment{parallel, perp} {
		if _, ok, err := pi.Detect(f, base); !ok || err != nil {
			t.Errorf("PiStacking(%v): ok=%v err=%v", f.ID, ok, err)
		}
	}
}

func TestVdWContact(t *testing.T) {
	d := &VdWContact{}
	lig := frag(t, "LIG", []testAtom{{symbol: "C"}})
	touch := frag(t, "ALA", []testAtom{{symbol: "C", at: r3.Vec{X: 3.3}}}) // 1.70+1.70=3.40
	apart := frag(t, "ALA", []testAtom{{symbol: "C", at: r3.Vec{X: 3.5}}})
	if _, ok, _ := d.Detect(lig, touch); !ok {
		t.Error("3.3 Å C–C must be a vdW contact (limit 3.40)")
	}
	if _, ok, _ := d.Detect(lig, apart); ok {
		t.Error("3.5 Å C–C must not be a vdW contact")
	}
	loose := &VdWContact{Tolerance: 0.2}
	if _, ok, _ := loose.Detect(lig, apart); !ok {
		t.Error("tolerance 0.2 must admit the 3.5 Å pair")
	}
}

func TestMetalAndHalogen(t *testing.T) {
	md := &MetalBond{Label: "MetalDonor", Distance: 2.8, LigandMetal: true}
	lig := frag(t, "ZN", []testAtom{{symbol: "ZN", roles: chem.RoleMetal}})
	his := frag(t, "HIS", []testAtom{{symbol: "N", roles: chem.RoleChelating, at: r3.Vec{X: 2.1}}})
	if _, ok, _ := md.Detect(lig, his); !ok {
		t.Error("Zn–N at 2.1 Å must fire MetalDonor")
	}

	xb := &HalogenBond{Label: "XBDonor", Distance: 3.5, LigandDonates: true}
	cl := frag(t, "LIG", []testAtom{{symbol: "CL", roles: chem.RoleXBDonor}})
	bb := frag(t, "GLY", []testAtom{{symbol: "O", roles: chem.RoleXBAcceptor, at: r3.Vec{X: 3.2}}})
	if _, ok, _ := xb.Detect(cl, bb); !ok {
		t.Error("Cl···O at 3.2 Å must fire XBDonor")
	}
}

// Collinear ring atoms cannot define a plane: the detector reports an
// error, never fires, never panics.
func TestDegenerateRingReportsError(t *testing.T) {
	d := &CationRing{Label: "CationPi", Distance: 4.5, AngleMax: 30, LigandCation: true}
	flat := frag(t, "BAD", []testAtom{
		{symbol: "C", at: r3.Vec{X: 0}},
		{symbol: "C", at: r3.Vec{X: 1}},
		{symbol: "C", at: r3.Vec{X: 2}},
	}, []int{0, 1, 2})
	cation := frag(t, "LIG", []testAtom{{symbol: "N", roles: chem.RoleCation, at: r3.Vec{X: 1, Z: 2}}})
	if _, ok, err := d.Detect(cation, flat); ok || err == nil {
		t.Errorf("collinear ring: ok=%v err=%v, want quiet error", ok, err)
	}
}

func TestRegistrySubsetAndOverride(t *testing.T) {
	r := Default(DefaultParams())
	names := r.Names()
	if len(names) == 0 || names[0] != "Hydrophobic" {
		t.Fatalf("default registry order starts with %v", names)
	}

	sub, err := r.Subset([]string{"HBDonor", "Hydrophobic"})
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	got := sub.Names()
	if len(got) != 2 || got[0] != "HBDonor" || got[1] != "Hydrophobic" {
		t.Errorf("subset order = %v", got)
	}
	if _, err := r.Subset([]string{"NoSuchRule"}); err == nil {
		t.Error("unknown detector name accepted")
	}

	// Override keeps the original position.
	r.Register(&Hydrophobic{Label: "Hydrophobic", Distance: 4.0})
	if r.Names()[0] != "Hydrophobic" {
		t.Error("override moved the detector")
	}
	d, _ := r.Get("Hydrophobic")
	if d.(*Hydrophobic).Distance != 4.0 {
		t.Error("override did not replace the detector")
	}
}
