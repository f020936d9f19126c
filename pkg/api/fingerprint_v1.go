// pkg/api/fingerprint_v1.go
package api

// EntryV1 is the stable JSON/JSONL schema for one true fingerprint bit.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type EntryV1 struct {
	Frame       int     `json:"frame"`
	Ligand      string  `json:"ligand"`
	Residue     string  `json:"residue"`
	Interaction string  `json:"interaction"`
	Distance    float64 `json:"distance,omitempty"`
	Angle       float64 `json:"angle,omitempty"`
	AngleSet    bool    `json:"angle_set,omitempty"`
}

// ManifestV1 is the stable schema for the run summary.
type ManifestV1 struct {
	RunID           string         `json:"run_id"`
	FramesRequested int            `json:"frames_requested"`
	FramesProcessed int            `json:"frames_processed"`
	FramesEmpty     int            `json:"frames_empty,omitempty"`
	FramesMissing   int            `json:"frames_missing,omitempty"`
	PairsEvaluated  int            `json:"pairs_evaluated"`
	DetectorErrors  map[string]int `json:"detector_errors,omitempty"`
}

// ResultV1 is the stable schema for a complete fingerprint run. Frames
// lists the processed frame indices in run order; Residues is the union of
// residues evaluated over the run; Detectors is the evaluated detector set.
type ResultV1 struct {
	Selection string     `json:"selection"`
	Detectors []string   `json:"detectors"`
	Ligands   []string   `json:"ligands"`
	Residues  []string   `json:"residues"`
	Frames    []int      `json:"frames"`
	Entries   []EntryV1  `json:"entries"`
	Manifest  ManifestV1 `json:"manifest"`
}
