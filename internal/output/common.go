// internal/output/common.go
package output

import (
	"sort"

	"ifp/core/fingerprint"
)

// TSVHeader is the canonical header row for text/TSV outputs.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "frame\tligand\tresidue\tinteraction\tdistance\tangle"

// Options control rendering across formats.
type Options struct {
	Header    bool // text/table header row
	Sort      bool // text: re-sort rows (Frame,Ligand,Residue,Interaction)
	KeepEmpty bool // column universe: full cross-product instead of drop-empty
	Compress  bool // jsonl: wrap in zstd
}

// SortEntries orders entries by frame, ligand, residue, interaction — the
// deterministic tabular order. Entries from a run already arrive in frame
// order; this additionally normalizes within-frame order for --sort.
func SortEntries(entries []fingerprint.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		if a.Ligand != b.Ligand {
			return a.Ligand.Less(b.Ligand)
		}
		if a.Residue != b.Residue {
			return a.Residue.Less(b.Residue)
		}
		return a.Interaction < b.Interaction
	})
}

// columnLabel renders a column as LIGAND:RESIDUE:INTERACTION for table and
// frequency outputs.
func columnLabel(c fingerprint.Column) string {
	return c.Ligand.String() + ":" + c.Residue.String() + ":" + c.Interaction
}
