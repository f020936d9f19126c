// internal/output/freq.go
package output

import (
	"fmt"
	"io"

	"ifp/core/fingerprint"
)

// WriteFreq prints, per column, the fraction of processed frames on which
// the interaction fired — the occurrence summary used to rank contacts
// over a trajectory.
func WriteFreq(w io.Writer, res *fingerprint.Result, opt Options) error {
	cols := res.Columns(!opt.KeepEmpty)
	frames := res.Frames()
	if opt.Header {
		if _, err := fmt.Fprintln(w, "ligand\tresidue\tinteraction\tcount\tfrequency"); err != nil {
			return err
		}
	}
	for _, c := range cols {
		count := 0
		for _, frame := range frames {
			if res.Has(frame, c.Ligand, c.Residue, c.Interaction) {
				count++
			}
		}
		freq := 0.0
		if len(frames) > 0 {
			freq = float64(count) / float64(len(frames))
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3f\n",
			c.Ligand, c.Residue, c.Interaction, count, freq)
		if err != nil {
			return err
		}
	}
	return nil
}
