// internal/output/table.go
// Boolean frame × column grid, the tabular view of the fingerprint.
package output

import (
	"fmt"
	"io"
	"strings"

	"ifp/core/fingerprint"
)

// WriteTable prints one row per frame with a 0/1 cell per column. Columns
// follow the projection order; KeepEmpty switches to the full
// cross-product universe.
func WriteTable(w io.Writer, res *fingerprint.Result, opt Options) error {
	cols := res.Columns(!opt.KeepEmpty)
	if opt.Header {
		labels := make([]string, 1, len(cols)+1)
		labels[0] = "frame"
		for _, c := range cols {
			labels = append(labels, columnLabel(c))
		}
		if _, err := fmt.Fprintln(w, strings.Join(labels, "\t")); err != nil {
			return err
		}
	}
	for _, frame := range res.Frames() {
		vec := res.FrameVector(frame, cols)
		row := make([]string, 1, len(cols)+1)
		row[0] = fmt.Sprintf("%d", frame)
		for i := range cols {
			if vec.Test(uint(i)) {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}
