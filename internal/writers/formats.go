// internal/writers/formats.go
package writers

import "ifp/internal/output"

func init() {
	Register("text", output.WriteText)
	Register("json", output.WriteJSON)
	Register("jsonl", output.WriteJSONL)
	Register("table", output.WriteTable)
	Register("freq", output.WriteFreq)
	Register("npy", output.WriteNPY)
}
