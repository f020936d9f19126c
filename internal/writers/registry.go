// internal/writers/registry.go
package writers

import (
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"

	"ifp/core/fingerprint"
	"ifp/internal/output"
)

// WriteFunc renders a complete fingerprint result in one format.
type WriteFunc func(w io.Writer, res *fingerprint.Result, opt output.Options) error

// registry maps format name → writer. Populated from init() in formats.go;
// Register is last-wins so callers can override a stock format.
var registry = map[string]WriteFunc{}

// Register adds or replaces a format.
func Register(format string, fn WriteFunc) { registry[format] = fn }

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Write dispatches to the registered writer, layering zstd compression on
// when requested.
func Write(format string, w io.Writer, res *fingerprint.Result, opt output.Options) error {
	fn, ok := registry[format]
	if !ok {
		return errors.Newf("writers: unknown format %q (no writer registered)", format)
	}
	if !opt.Compress {
		return fn(w, res, opt)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "writers: zstd")
	}
	if err := fn(zw, res, opt); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}
