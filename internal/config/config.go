// internal/config/config.go
// Optional YAML/TOML/JSON config file for run options and detector
// threshold overrides. Precedence is flags > file > built-in defaults;
// the merge happens in internal/cli, this package only loads and applies.
//
//	cutoff: 5.0
//	residues: all
//	detectors: [Hydrophobic, HBDonor, HBAcceptor]
//	workers: 4
//	params:
//	  hydrophobic: {distance: 4.0}
//	  hbond: {distance: 3.3, angle_min: 140}
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"ifp/core/detect"
)

// File holds the values a config file may set. Pointer fields distinguish
// "absent" from zero.
type File struct {
	Cutoff    *float64
	Residues  *string
	Detectors []string
	Frames    *string
	Workers   *int
	Output    *string
	Params    map[string]map[string]any
}

// Load reads a config file. The format is inferred from the extension.
func Load(path string) (File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return File{}, errors.Wrap(err, "config: read")
	}

	var f File
	if v.IsSet("cutoff") {
		c, err := cast.ToFloat64E(v.Get("cutoff"))
		if err != nil {
			return File{}, errors.Wrap(err, "config: cutoff")
		}
		f.Cutoff = &c
	}
	if v.IsSet("residues") {
		s := v.GetString("residues")
		f.Residues = &s
	}
	if v.IsSet("detectors") {
		f.Detectors = v.GetStringSlice("detectors")
	}
	if v.IsSet("frames") {
		s := v.GetString("frames")
		f.Frames = &s
	}
	if v.IsSet("workers") {
		n, err := cast.ToIntE(v.Get("workers"))
		if err != nil {
			return File{}, errors.Wrap(err, "config: workers")
		}
		f.Workers = &n
	}
	if v.IsSet("output") {
		s := v.GetString("output")
		f.Output = &s
	}
	if v.IsSet("params") {
		f.Params = make(map[string]map[string]any)
		for group, raw := range v.GetStringMap("params") {
			m, err := cast.ToStringMapE(raw)
			if err != nil {
				return File{}, errors.Wrapf(err, "config: params.%s", group)
			}
			f.Params[group] = m
		}
	}
	return f, nil
}

// paramSetters maps params.<group>.<key> onto Params fields. Groups follow
// the detector kinds, not individual orientation names: "hbond" covers
// HBDonor and HBAcceptor alike.
var paramSetters = map[string]map[string]func(*detect.Params, float64){
	"hydrophobic": {
		"distance": func(p *detect.Params, v float64) { p.HydrophobicDistance = v },
	},
	"hbond": {
		"distance":  func(p *detect.Params, v float64) { p.HBondDistance = v },
		"angle_min": func(p *detect.Params, v float64) { p.HBondAngleMin = v },
		"angle_max": func(p *detect.Params, v float64) { p.HBondAngleMax = v },
	},
	"ionic": {
		"distance": func(p *detect.Params, v float64) { p.IonicDistance = v },
	},
	"cationpi": {
		"distance":  func(p *detect.Params, v float64) { p.CationPiDistance = v },
		"angle_max": func(p *detect.Params, v float64) { p.CationPiAngleMax = v },
	},
	"facetoface": {
		"distance":  func(p *detect.Params, v float64) { p.FaceToFaceDistance = v },
		"angle_max": func(p *detect.Params, v float64) { p.FaceToFaceAngleMax = v },
	},
	"edgetoface": {
		"distance":  func(p *detect.Params, v float64) { p.EdgeToFaceDistance = v },
		"angle_min": func(p *detect.Params, v float64) { p.EdgeToFaceAngleMin = v },
		"angle_max": func(p *detect.Params, v float64) { p.EdgeToFaceAngleMax = v },
	},
	"vdw": {
		"tolerance": func(p *detect.Params, v float64) { p.VdWTolerance = v },
	},
	"xbond": {
		"distance": func(p *detect.Params, v float64) { p.XBondDistance = v },
	},
	"metal": {
		"distance": func(p *detect.Params, v float64) { p.MetalDistance = v },
	},
}

// ApplyParams folds the file's params section into p. Unknown groups or
// keys fail: a typo must not silently run with stock thresholds.
func (f File) ApplyParams(p *detect.Params) error {
	for group, kv := range f.Params {
		setters, ok := paramSetters[group]
		if !ok {
			return errors.Newf("config: unknown params group %q", group)
		}
		for key, raw := range kv {
			set, ok := setters[key]
			if !ok {
				return errors.Newf("config: unknown key params.%s.%s", group, key)
			}
			val, err := cast.ToFloat64E(raw)
			if err != nil {
				return errors.Wrapf(err, "config: params.%s.%s", group, key)
			}
			set(p, val)
		}
	}
	return nil
}
