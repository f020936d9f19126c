// internal/output/json.go
package output

import (
	"io"

	"github.com/samber/lo"

	"ifp/core/chem"
	"ifp/core/fingerprint"
	"ifp/internal/jsonutil"
	"ifp/pkg/api"
)

// ToAPIEntry converts a domain entry to the stable wire schema (v1).
func ToAPIEntry(e fingerprint.Entry) api.EntryV1 {
	return api.EntryV1{
		Frame:       e.Frame,
		Ligand:      e.Ligand.String(),
		Residue:     e.Residue.String(),
		Interaction: e.Interaction,
		Distance:    e.Meta.Distance,
		Angle:       e.Meta.Angle,
		AngleSet:    e.Meta.AngleSet,
	}
}

// ToAPIResult converts a complete run to the stable wire schema (v1).
func ToAPIResult(res *fingerprint.Result) api.ResultV1 {
	m := res.Manifest()
	return api.ResultV1{
		Selection: res.Selection(),
		Detectors: res.Detectors(),
		Ligands:   lo.Map(res.Ligands(), func(id chem.ResidueID, _ int) string { return id.String() }),
		Residues:  lo.Map(res.EvaluatedResidues(), func(id chem.ResidueID, _ int) string { return id.String() }),
		Frames:    res.Frames(),
		Entries:   lo.Map(res.Entries(), func(e fingerprint.Entry, _ int) api.EntryV1 { return ToAPIEntry(e) }),
		Manifest: api.ManifestV1{
			RunID:           m.RunID,
			FramesRequested: m.FramesRequested,
			FramesProcessed: m.FramesProcessed,
			FramesEmpty:     m.FramesEmpty,
			FramesMissing:   m.FramesMissing,
			PairsEvaluated:  m.PairsEvaluated,
			DetectorErrors:  m.DetectorErrors,
		},
	}
}

// WriteJSON writes the whole run as one pretty-indented v1 document.
func WriteJSON(w io.Writer, res *fingerprint.Result, _ Options) error {
	return jsonutil.EncodePretty(w, ToAPIResult(res))
}
