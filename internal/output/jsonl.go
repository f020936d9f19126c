// internal/output/jsonl.go
package output

import (
	"io"

	"ifp/core/fingerprint"
	"ifp/internal/jsonutil"
)

// WriteJSONL streams one v1 entry per line. Compression (zstd) is layered
// on by the writer registry so this stays a plain line emitter.
func WriteJSONL(w io.Writer, res *fingerprint.Result, opt Options) error {
	entries := res.Entries()
	if opt.Sort {
		entries = append([]fingerprint.Entry(nil), entries...)
		SortEntries(entries)
	}
	for _, e := range entries {
		if err := jsonutil.EncodeLine(w, ToAPIEntry(e)); err != nil {
			return err
		}
	}
	return nil
}
