// internal/jsonutil/json.go
package jsonutil

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EncodeLine writes v as one compact JSON line to w.
func EncodeLine(w io.Writer, v any) error {
	return gojson.NewEncoder(w).Encode(v)
}

// Decode reads one JSON value from r into v.
func Decode(r io.Reader, v any) error {
	return gojson.NewDecoder(r).Decode(v)
}
