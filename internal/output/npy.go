// internal/output/npy.go
package output

import (
	"io"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"ifp/core/fingerprint"
)

// WriteNPY exports the bit-vector matrix as a NumPy array file:
// rows = frames (run order), cols = columns (projection order), cells 0/1.
// Downstream analysis loads it directly with numpy.load.
func WriteNPY(w io.Writer, res *fingerprint.Result, opt Options) error {
	cols := res.Columns(!opt.KeepEmpty)
	frames := res.Frames()

	data := make([]float64, len(frames)*len(cols))
	for i, frame := range frames {
		vec := res.FrameVector(frame, cols)
		for j := range cols {
			if vec.Test(uint(j)) {
				data[i*len(cols)+j] = 1
			}
		}
	}
	if len(data) == 0 {
		// mat.NewDense panics on zero dimensions; an empty run writes a
		// flat empty array instead (numpy.load yields shape (0,)).
		return npyio.Write(w, []float64{})
	}
	return npyio.Write(w, mat.NewDense(len(frames), len(cols), data))
}
