// core/detect/detectors.go
// Built-in detector implementations. Every scan iterates atoms, rings, and
// pairs in fixed fragment order, and minima are improved only on strict
// decrease, so identical coordinates give identical answers regardless of
// caller scheduling.
package detect

import (
	"gonum.org/v1/gonum/spatial/r3"

	"ifp/core/chem"
	"ifp/core/geom"
)

// closestRolePair finds the minimum-distance pair between a-atoms carrying
// ra and b-atoms carrying rb. ok is false when either side has no candidate.
func closestRolePair(a, b *chem.Fragment, ra, rb chem.Roles) (ai, bi int, d float64, ok bool) {
	ais := a.WithRole(ra)
	bis := b.WithRole(rb)
	if len(ais) == 0 || len(bis) == 0 {
		return 0, 0, 0, false
	}
	best := -1.0
	for _, i := range ais {
		for _, j := range bis {
			if dd := geom.Dist(a.Coord(i), b.Coord(j)); best < 0 || dd < best {
				best, ai, bi = dd, i, j
			}
		}
	}
	return ai, bi, best, true
}

// Hydrophobic fires when any hydrophobic-role atom pair sits within
// Distance.
type Hydrophobic struct {
	Label    string
	Distance float64
}

func (h *Hydrophobic) Name() string {
	if h.Label != "" {
		return h.Label
	}
	return "Hydrophobic"
}

func (h *Hydrophobic) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	_, _, d, ok := closestRolePair(lig, res, chem.RoleHydrophobic, chem.RoleHydrophobic)
	if !ok || d > h.Distance {
		return Meta{}, false, nil
	}
	return Meta{Distance: d}, true, nil
}

// HBond fires on a donor/acceptor heavy-atom pair within Distance. When the
// donor's attached hydrogens are resolved upstream, at least one D–H···A
// angle must additionally fall inside [AngleMin, AngleMax]; without
// hydrogen positions the distance criterion stands alone.
//
// LigandDonates=true is the HBDonor orientation (ligand donor, residue
// acceptor); false is HBAcceptor.
type HBond struct {
	Label         string
	Distance      float64
	AngleMin      float64 // degrees
	AngleMax      float64
	LigandDonates bool
}

func (h *HBond) Name() string {
	if h.Label != "" {
		return h.Label
	}
	if h.LigandDonates {
		return "HBDonor"
	}
	return "HBAcceptor"
}

func (h *HBond) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	donor, acceptor := lig, res
	if !h.LigandDonates {
		donor, acceptor = res, lig
	}
	dis := donor.WithRole(chem.RoleHBDonor)
	ais := acceptor.WithRole(chem.RoleHBAcceptor)
	if len(dis) == 0 || len(ais) == 0 {
		return Meta{}, false, nil
	}

	var degenerate error
	best := Meta{Distance: -1}
	for _, di := range dis {
		for _, aj := range ais {
			d := geom.Dist(donor.Coord(di), acceptor.Coord(aj))
			if d > h.Distance {
				continue
			}
			hs := donor.Atoms[di].Hydrogens
			if len(hs) == 0 {
				if best.Distance < 0 || d < best.Distance {
					best = Meta{Distance: d}
				}
				continue
			}
			for _, hi := range hs {
				hp := donor.Coord(hi)
				ang, err := geom.Angle(
					r3.Sub(donor.Coord(di), hp),
					r3.Sub(acceptor.Coord(aj), hp),
				)
				if err != nil {
					degenerate = err
					continue
				}
				deg := geom.Deg(ang)
				if !geom.BetweenLimits(deg, h.AngleMin, h.AngleMax) {
					continue
				}
				if best.Distance < 0 || d < best.Distance {
					best = Meta{Distance: d, Angle: deg, AngleSet: true}
				}
			}
		}
	}
	if best.Distance >= 0 {
		return best, true, nil
	}
	if degenerate != nil {
		return Meta{}, false, degenerate
	}
	return Meta{}, false, nil
}

// Ionic fires on opposite formal-charge roles within Distance.
// LigandCation=true is the Cationic orientation (ligand +, residue −).
type Ionic struct {
	Label        string
	Distance     float64
	LigandCation bool
}

func (c *Ionic) Name() string {
	if c.Label != "" {
		return c.Label
	}
	if c.LigandCation {
		return "Cationic"
	}
	return "Anionic"
}

func (c *Ionic) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	lr, rr := chem.RoleCation, chem.RoleAnion
	if !c.LigandCation {
		lr, rr = chem.RoleAnion, chem.RoleCation
	}
	_, _, d, ok := closestRolePair(lig, res, lr, rr)
	if !ok || d > c.Distance {
		return Meta{}, false, nil
	}
	return Meta{Distance: d}, true, nil
}

// CationRing fires when a cation sits within Distance of an aromatic ring
// centroid and the ring normal makes an angle within [0, AngleMax] of the
// centroid→cation axis. Ring normals are sign-ambiguous, so the mirrored
// angle is accepted too.
//
// LigandCation=true is CationPi (ligand cation, residue ring); false is
// PiCation (ligand ring, residue cation).
type CationRing struct {
	Label        string
	Distance     float64
	AngleMax     float64 // degrees
	LigandCation bool
}

func (c *CationRing) Name() string {
	if c.Label != "" {
		return c.Label
	}
	if c.LigandCation {
		return "CationPi"
	}
	return "PiCation"
}

func (c *CationRing) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	cations, ringSide := lig, res
	if !c.LigandCation {
		cations, ringSide = res, lig
	}
	cis := cations.WithRole(chem.RoleCation)
	if len(cis) == 0 || len(ringSide.Rings) == 0 {
		return Meta{}, false, nil
	}

	var degenerate error
	best := Meta{Distance: -1}
	for ri := range ringSide.Rings {
		ring := ringSide.RingCoords(ri)
		centroid, err := geom.Centroid(ring)
		if err != nil {
			degenerate = err
			continue
		}
		normal, err := geom.RingNormal(centroid, ring)
		if err != nil {
			degenerate = err
			continue
		}
		for _, ci := range cis {
			p := cations.Coord(ci)
			d := geom.Dist(centroid, p)
			if d > c.Distance {
				continue
			}
			ang, err := geom.Angle(normal, r3.Sub(p, centroid))
			if err != nil {
				degenerate = err
				continue
			}
			if !geom.BetweenLimitsRing(ang, 0, geom.Rad(c.AngleMax)) {
				continue
			}
			if best.Distance < 0 || d < best.Distance {
				best = Meta{Distance: d, Angle: geom.Deg(ang), AngleSet: true}
			}
		}
	}
	if best.Distance >= 0 {
		return best, true, nil
	}
	if degenerate != nil {
		return Meta{}, false, degenerate
	}
	return Meta{}, false, nil
}

// RingStacking fires when two aromatic ring centroids sit within Distance
// and the plane angle between the ring normals falls in
// [AngleMin, AngleMax], mirror rule applied. FaceToFace and EdgeToFace are
// the two stock parameterizations.
type RingStacking struct {
	Label    string
	Distance float64
	AngleMin float64 // degrees
	AngleMax float64
}

func (s *RingStacking) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "RingStacking"
}

func (s *RingStacking) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	if len(lig.Rings) == 0 || len(res.Rings) == 0 {
		return Meta{}, false, nil
	}
	var degenerate error
	best := Meta{Distance: -1}
	for li := range lig.Rings {
		lring := lig.RingCoords(li)
		lc, err := geom.Centroid(lring)
		if err != nil {
			degenerate = err
			continue
		}
		ln, err := geom.RingNormal(lc, lring)
		if err != nil {
			degenerate = err
			continue
		}
		for ri := range res.Rings {
			rring := res.RingCoords(ri)
			rc, err := geom.Centroid(rring)
			if err != nil {
				degenerate = err
				continue
			}
			rn, err := geom.RingNormal(rc, rring)
			if err != nil {
				degenerate = err
				continue
			}
			d := geom.Dist(lc, rc)
			if d > s.Distance {
				continue
			}
			ang, err := geom.Angle(ln, rn)
			if err != nil {
				degenerate = err
				continue
			}
			if !geom.BetweenLimitsRing(ang, geom.Rad(s.AngleMin), geom.Rad(s.AngleMax)) {
				continue
			}
			if best.Distance < 0 || d < best.Distance {
				best = Meta{Distance: d, Angle: geom.Deg(ang), AngleSet: true}
			}
		}
	}
	if best.Distance >= 0 {
		return best, true, nil
	}
	if degenerate != nil {
		return Meta{}, false, degenerate
	}
	return Meta{}, false, nil
}

// PiStacking fires when either stacking geometry fires. An error surfaces
// only when neither fires and at least one sub-detector hit degenerate
// geometry.
type PiStacking struct {
	Label      string
	FaceToFace *RingStacking
	EdgeToFace *RingStacking
}

func (p *PiStacking) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return "PiStacking"
}

func (p *PiStacking) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	m, ok, errF := p.FaceToFace.Detect(lig, res)
	if ok {
		return m, true, nil
	}
	m, ok, errE := p.EdgeToFace.Detect(lig, res)
	if ok {
		return m, true, nil
	}
	if errF != nil {
		return Meta{}, false, errF
	}
	return Meta{}, false, errE
}

// VdWContact fires when any atom pair sits within the sum of the two
// van der Waals radii plus Tolerance.
type VdWContact struct {
	Label     string
	Tolerance float64
}

func (v *VdWContact) Name() string {
	if v.Label != "" {
		return v.Label
	}
	return "VdWContact"
}

func (v *VdWContact) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	best := -1.0
	for i := range lig.Atoms {
		ri := chem.VdWRadius(lig.Atoms[i].Symbol)
		for j := range res.Atoms {
			limit := ri + chem.VdWRadius(res.Atoms[j].Symbol) + v.Tolerance
			if d := geom.Dist(lig.Coord(i), res.Coord(j)); d <= limit && (best < 0 || d < best) {
				best = d
			}
		}
	}
	if best < 0 {
		return Meta{}, false, nil
	}
	return Meta{Distance: best}, true, nil
}

// HalogenBond fires on a halogen donor/acceptor role pair within Distance.
// LigandDonates=true is XBDonor (ligand halogen, residue acceptor).
type HalogenBond struct {
	Label         string
	Distance      float64
	LigandDonates bool
}

func (x *HalogenBond) Name() string {
	if x.Label != "" {
		return x.Label
	}
	if x.LigandDonates {
		return "XBDonor"
	}
	return "XBAcceptor"
}

func (x *HalogenBond) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	lr, rr := chem.RoleXBDonor, chem.RoleXBAcceptor
	if !x.LigandDonates {
		lr, rr = chem.RoleXBAcceptor, chem.RoleXBDonor
	}
	_, _, d, ok := closestRolePair(lig, res, lr, rr)
	if !ok || d > x.Distance {
		return Meta{}, false, nil
	}
	return Meta{Distance: d}, true, nil
}

// MetalBond fires on a metal / chelating role pair within Distance.
// LigandMetal=true is MetalDonor (ligand metal, residue chelator).
type MetalBond struct {
	Label       string
	Distance    float64
	LigandMetal bool
}

func (m *MetalBond) Name() string {
	if m.Label != "" {
		return m.Label
	}
	if m.LigandMetal {
		return "MetalDonor"
	}
	return "MetalAcceptor"
}

func (m *MetalBond) Detect(lig, res *chem.Fragment) (Meta, bool, error) {
	lr, rr := chem.RoleMetal, chem.RoleChelating
	if !m.LigandMetal {
		lr, rr = chem.RoleChelating, chem.RoleMetal
	}
	_, _, d, ok := closestRolePair(lig, res, lr, rr)
	if !ok || d > m.Distance {
		return Meta{}, false, nil
	}
	return Meta{Distance: d}, true, nil
}
