// core/chem/radii.go
// Van der Waals radii in Å, Bondi (1964) with the Rowland & Taylor (1996)
// revision for H. Used by the VdWContact detector; elements missing from
// the table fall back to DefaultVdW.
package chem

import "strings"

const DefaultVdW = 2.0 // Å, generic heavy-atom fallback

var vdwRadii = map[string]float64{
	"H":  1.10,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"P":  1.80,
	"S":  1.80,
	"CL": 1.75,
	"BR": 1.85,
	"I":  1.98,
	"B":  1.92,
	"SE": 1.90,
	"ZN": 1.39,
	"MG": 1.73,
	"CA": 2.31,
	"FE": 2.05,
	"MN": 2.05,
	"CU": 1.40,
	"NA": 2.27,
	"K":  2.75,
}

// VdWRadius returns the van der Waals radius for an element symbol,
// case-insensitive. Unknown elements get DefaultVdW.
func VdWRadius(symbol string) float64 {
	if r, ok := vdwRadii[strings.ToUpper(symbol)]; ok {
		return r
	}
	return DefaultVdW
}
