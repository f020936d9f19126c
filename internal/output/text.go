// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"ifp/core/fingerprint"
)

// WriteText prints one TSV row per true entry. Distance is always present;
// the angle column is empty when the detector had no angular criterion.
func WriteText(w io.Writer, res *fingerprint.Result, opt Options) error {
	entries := res.Entries()
	if opt.Sort {
		entries = append([]fingerprint.Entry(nil), entries...)
		SortEntries(entries)
	}
	if opt.Header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, e := range entries {
		angle := ""
		if e.Meta.AngleSet {
			angle = fmt.Sprintf("%.1f", e.Meta.Angle)
		}
		_, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\n",
			e.Frame, e.Ligand, e.Residue, e.Interaction, e.Meta.Distance, angle)
		if err != nil {
			return err
		}
	}
	return nil
}
