// core/fingerprint/config.go
package fingerprint

import (
	"runtime"

	"go.uber.org/zap"

	"ifp/core/residues"
)

// Config holds the run parameters. The zero value selects residues by the
// default cutoff, evaluates every registered detector over every frame the
// source reports, and uses one worker per CPU.
type Config struct {
	// Selection picks the residues evaluated each frame.
	Selection residues.Selection
	// Detectors restricts the run to the named subset of the registry,
	// in the order given. Empty means every registered detector.
	Detectors []string
	// Frames restricts the run to these frame indices, in the order
	// given (strides and arbitrary subsets allowed). Nil means every
	// frame the source reports. An empty non-nil slice is a valid
	// 0-frame run.
	Frames []int
	// Workers caps frame-level parallelism. <=0 means NumCPU.
	Workers int
	// Logger receives recoverable-condition warnings. Nil means no-op.
	Logger *zap.Logger
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Stride returns the frame sequence 0, step, 2*step, … below n.
func Stride(n, step int) []int {
	if n <= 0 || step <= 0 {
		return []int{}
	}
	out := make([]int, 0, (n+step-1)/step)
	for i := 0; i < n; i += step {
		out = append(out, i)
	}
	return out
}
