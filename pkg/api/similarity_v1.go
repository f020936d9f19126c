// pkg/api/similarity_v1.go
package api

// SimilarityV1 is the stable schema for frame-similarity output. Matrix is
// present in all-pairs mode; Scores in reference-frame mode.
type SimilarityV1 struct {
	Metric    string      `json:"metric"`
	Frames    []int       `json:"frames"`
	Reference *int        `json:"reference,omitempty"`
	Matrix    [][]float64 `json:"matrix,omitempty"`
	Scores    []float64   `json:"scores,omitempty"`
}
