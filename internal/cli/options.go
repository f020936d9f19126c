// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"ifp/internal/config"
	"ifp/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Input      string
	ConfigFile string

	// Run parameters
	Cutoff    float64
	Residues  string // auto | all | comma-separated identifiers
	Detectors string // comma-separated detector names; "" = all registered
	Frames    string // all | start:stop[:step] | comma-separated indices
	Workers   int

	// Output
	Output    string // text | json | jsonl | table | freq | npy
	Compress  bool   // zstd-wrap jsonl
	Sort      bool
	Header    bool // true unless --no-header
	KeepEmpty bool // keep all-false columns (full cross-product universe)

	Quiet   bool
	Verbose bool
	Version bool
}

var outputFormats = map[string]bool{
	"text": true, "json": true, "jsonl": true, "table": true, "freq": true, "npy": true,
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: protein-ligand interaction fingerprints

License: MIT
Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// File-sourced values are merged afterwards via ApplyFile; explicit flags
// always win.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.Input, "input", "", "frame document (JSON) [*]")
	fs.StringVar(&opt.ConfigFile, "config", "", "config file (YAML/TOML/JSON) with run options and detector thresholds")

	fs.Float64Var(&opt.Cutoff, "cutoff", 6.0, "residue selection cutoff in Å (auto mode) [6.0]")
	fs.StringVar(&opt.Residues, "residues", "auto", "residue selection: auto | all | ID list (TYR109.A,HIS51.B) [auto]")
	fs.StringVar(&opt.Detectors, "detectors", "", "comma-separated detector subset (default: all registered)")
	fs.StringVar(&opt.Frames, "frames", "all", "frame selection: all | start:stop[:step] | index list [all]")
	fs.IntVar(&opt.Workers, "workers", 0, "number of worker threads (0 = all CPUs) [0]")

	fs.StringVar(&opt.Output, "output", "text", "output format: text | json | jsonl | table | freq | npy [text]")
	fs.BoolVar(&opt.Compress, "compress", false, "zstd-compress jsonl output [false]")
	fs.BoolVar(&opt.Sort, "sort", false, "sort text rows (Frame,Ligand,Residue,Interaction) [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text/table [false]")
	fs.BoolVar(&opt.KeepEmpty, "keep-empty", false, "keep all-false columns (full residue × detector universe) [false]")

	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings [false]")
	fs.BoolVar(&opt.Verbose, "verbose", false, "debug logging [false]")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Header = !noHeader

	// Positional input file is accepted like --input.
	switch rest := fs.Args(); {
	case len(rest) == 1 && opt.Input == "":
		opt.Input = rest[0]
	case len(rest) > 0:
		return opt, fmt.Errorf("unexpected argument %q", rest[0])
	}

	return opt, opt.Validate()
}

// Validate checks cross-flag consistency. Called from ParseArgs and again
// after config-file merging, which can rewrite several fields.
func (opt Options) Validate() error {
	if opt.Input == "" {
		return errors.New("an --input frame document is required")
	}
	if opt.Cutoff <= 0 {
		return errors.New("--cutoff must be > 0")
	}
	if opt.Workers < 0 {
		return errors.New("--workers must be ≥ 0")
	}
	if !outputFormats[opt.Output] {
		return fmt.Errorf("invalid --output %q", opt.Output)
	}
	if opt.Compress && opt.Output != "jsonl" {
		return errors.New("--compress applies to --output jsonl only")
	}
	if opt.Quiet && opt.Verbose {
		return errors.New("--quiet conflicts with --verbose")
	}
	if _, err := ParseFrames(opt.Frames); err != nil {
		return err
	}
	return nil
}

// ApplyFile fills options the caller did not set explicitly from a config
// file. set is the flag names seen on the command line (flag.FlagSet.Visit).
func ApplyFile(opt *Options, set map[string]bool, f config.File) {
	if f.Cutoff != nil && !set["cutoff"] {
		opt.Cutoff = *f.Cutoff
	}
	if f.Residues != nil && !set["residues"] {
		opt.Residues = *f.Residues
	}
	if len(f.Detectors) > 0 && !set["detectors"] {
		opt.Detectors = joinComma(f.Detectors)
	}
	if f.Frames != nil && !set["frames"] {
		opt.Frames = *f.Frames
	}
	if f.Workers != nil && !set["workers"] {
		opt.Workers = *f.Workers
	}
	if f.Output != nil && !set["output"] {
		opt.Output = *f.Output
	}
}

// SetFlags collects the names explicitly present on the command line.
func SetFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
