// core/detect/params.go
// Geometric thresholds for the built-in detectors. Distances in Å, angles
// in degrees; every window is inclusive at both bounds. Defaults follow the
// ranges conventionally used for protein–ligand fingerprinting; callers may
// tune any of them and register the result under a new name.
package detect

// Params collects the thresholds of the default detector set.
type Params struct {
	HydrophobicDistance float64 // hydrophobic atom pair max distance

	HBondDistance float64 // donor–acceptor heavy-atom max distance
	HBondAngleMin float64 // D–H···A angle window, applied when H known
	HBondAngleMax float64

	IonicDistance float64 // opposite formal-charge max distance

	CationPiDistance float64 // cation to ring centroid max distance
	CationPiAngleMax float64 // normal vs centroid→cation, from 0

	FaceToFaceDistance float64 // ring centroid separation
	FaceToFaceAngleMax float64 // plane angle window, from 0
	EdgeToFaceDistance float64
	EdgeToFaceAngleMin float64
	EdgeToFaceAngleMax float64

	VdWTolerance float64 // added to r_vdw(a)+r_vdw(b)

	XBondDistance float64 // halogen-bond donor–acceptor max distance
	MetalDistance float64 // metal to chelating atom max distance
}

// DefaultParams returns the stock thresholds.
func DefaultParams() Params {
	return Params{
		HydrophobicDistance: 4.5,

		HBondDistance: 3.5,
		HBondAngleMin: 130,
		HBondAngleMax: 180,

		IonicDistance: 4.5,

		CationPiDistance: 4.5,
		CationPiAngleMax: 30,

		FaceToFaceDistance: 5.5,
		FaceToFaceAngleMax: 35,
		EdgeToFaceDistance: 6.5,
		EdgeToFaceAngleMin: 50,
		EdgeToFaceAngleMax: 90,

		VdWTolerance: 0,

		XBondDistance: 3.5,
		MetalDistance: 2.8,
	}
}

// Default builds the stock registry from p. Registration order is the
// canonical interaction order used everywhere a detector list is rendered.
func Default(p Params) *Registry {
	r := NewRegistry()
	f2f := &RingStacking{
		Label: "FaceToFace", Distance: p.FaceToFaceDistance,
		AngleMin: 0, AngleMax: p.FaceToFaceAngleMax,
	}
	e2f := &RingStacking{
		Label: "EdgeToFace", Distance: p.EdgeToFaceDistance,
		AngleMin: p.EdgeToFaceAngleMin, AngleMax: p.EdgeToFaceAngleMax,
	}
	for _, d := range []Detector{
		&Hydrophobic{Distance: p.HydrophobicDistance},
		&HBond{Label: "HBDonor", Distance: p.HBondDistance, AngleMin: p.HBondAngleMin, AngleMax: p.HBondAngleMax, LigandDonates: true},
		&HBond{Label: "HBAcceptor", Distance: p.HBondDistance, AngleMin: p.HBondAngleMin, AngleMax: p.HBondAngleMax},
		&Ionic{Label: "Cationic", Distance: p.IonicDistance, LigandCation: true},
		&Ionic{Label: "Anionic", Distance: p.IonicDistance},
		&CationRing{Label: "CationPi", Distance: p.CationPiDistance, AngleMax: p.CationPiAngleMax, LigandCation: true},
		&CationRing{Label: "PiCation", Distance: p.CationPiDistance, AngleMax: p.CationPiAngleMax},
		f2f,
		e2f,
		&PiStacking{FaceToFace: f2f, EdgeToFace: e2f},
		&VdWContact{Tolerance: p.VdWTolerance},
		&HalogenBond{Label: "XBDonor", Distance: p.XBondDistance, LigandDonates: true},
		&HalogenBond{Label: "XBAcceptor", Distance: p.XBondDistance},
		&MetalBond{Label: "MetalDonor", Distance: p.MetalDistance, LigandMetal: true},
		&MetalBond{Label: "MetalAcceptor", Distance: p.MetalDistance},
	} {
		r.Register(d)
	}
	return r
}
