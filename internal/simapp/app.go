// internal/simapp/app.go
// ifp-sim: frame-against-frame similarity over a saved fingerprint run.
// Reads the v1 JSON a fingerprint run exported, rebuilds each frame's bit
// vector over the run's column universe, and prints either the full
// frame × frame matrix or every frame's score against one reference frame.
package simapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"ifp/core/bitvec"
	"ifp/core/chem"
	"ifp/core/fingerprint"
	"ifp/internal/jsonutil"
	"ifp/internal/version"
	"ifp/internal/writers"
	"ifp/pkg/api"
)

type options struct {
	Input     string
	Reference int // -1 = all-pairs matrix
	Metric    string
	Output    string
	Header    bool
	Version   bool
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: fingerprint frame similarity

License: MIT
Version: %s

Usage of %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

func parseArgs(fs *flag.FlagSet, argv []string) (options, error) {
	var opt options
	var help, noHeader bool

	fs.StringVar(&opt.Input, "input", "", "fingerprint run (JSON, as written by ifp --output json) [*]")
	fs.IntVar(&opt.Reference, "reference", -1, "reference frame index; -1 = full matrix [-1]")
	fs.StringVar(&opt.Metric, "metric", "tanimoto", "similarity metric: tanimoto | dice [tanimoto]")
	fs.StringVar(&opt.Output, "output", "text", "output format: text | json [text]")
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text [false]")
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

	switch rest := fs.Args(); {
	case len(rest) == 1 && opt.Input == "":
		opt.Input = rest[0]
	case len(rest) > 0:
		return opt, fmt.Errorf("unexpected argument %q", rest[0])
	}
	if opt.Input == "" {
		return opt, errors.New("an --input fingerprint run is required")
	}
	if opt.Metric != "tanimoto" && opt.Metric != "dice" {
		return opt, fmt.Errorf("invalid --metric %q", opt.Metric)
	}
	if opt.Output != "text" && opt.Output != "json" {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	return opt, nil
}

// vectors rebuilds per-frame bit vectors from a saved run: the column
// universe is the union of true entries, ordered by the same
// (ligand, residue, interaction) rule the projector uses.
func vectors(v1 api.ResultV1) ([]bitvec.Vector, error) {
	type key = fingerprint.Column
	colSet := make(map[key]struct{})

	perFrame := make(map[int][]key, len(v1.Frames))
	for _, e := range v1.Entries {
		lig, err := chem.ParseResidueID(e.Ligand)
		if err != nil {
			return nil, err
		}
		res, err := chem.ParseResidueID(e.Residue)
		if err != nil {
			return nil, err
		}
		c := key{Ligand: lig, Residue: res, Interaction: e.Interaction}
		colSet[c] = struct{}{}
		perFrame[e.Frame] = append(perFrame[e.Frame], c)
	}

	cols := make([]key, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Less(cols[j]) })
	idx := make(map[key]uint, len(cols))
	for i, c := range cols {
		idx[c] = uint(i)
	}

	out := make([]bitvec.Vector, len(v1.Frames))
	for i, frame := range v1.Frames {
		v := bitvec.New(uint(len(cols)))
		for _, c := range perFrame[frame] {
			v.Set(idx[c])
		}
		out[i] = v
	}
	return out, nil
}

// RunContext is the ifp-sim entry point. Exit codes match ifp.
func RunContext(_ context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := newFlagSet("ifp-sim")
	fs.SetOutput(io.Discard)

	usage := func() int {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	if len(argv) == 0 {
		return usage()
	}
	opt, err := parseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage()
		}
		_, _ = fmt.Fprintln(stderr, err)
		_ = usage()
		return 2
	}
	if opt.Version {
		_, _ = fmt.Fprintf(outw, "ifp-sim version %s\n", version.Version)
		return 0
	}

	f, err := os.Open(opt.Input)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	var v1 api.ResultV1
	err = jsonutil.Decode(f, &v1)
	_ = f.Close()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	vecs, err := vectors(v1)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	sim := bitvec.Tanimoto
	if opt.Metric == "dice" {
		sim = bitvec.Dice
	}

	refRow := -1
	if opt.Reference >= 0 {
		for i, frame := range v1.Frames {
			if frame == opt.Reference {
				refRow = i
				break
			}
		}
		if refRow < 0 {
			_, _ = fmt.Fprintf(stderr, "reference frame %d not in run\n", opt.Reference)
			return 2
		}
	}

	out := api.SimilarityV1{Metric: opt.Metric, Frames: v1.Frames}
	if refRow >= 0 {
		ref := opt.Reference
		out.Reference = &ref
		out.Scores = make([]float64, len(vecs))
		for i := range vecs {
			if out.Scores[i], err = sim(vecs[refRow], vecs[i]); err != nil {
				_, _ = fmt.Fprintln(stderr, err)
				return 3
			}
		}
	} else {
		out.Matrix = make([][]float64, len(vecs))
		for i := range vecs {
			out.Matrix[i] = make([]float64, len(vecs))
			for j := range vecs {
				if out.Matrix[i][j], err = sim(vecs[i], vecs[j]); err != nil {
					_, _ = fmt.Fprintln(stderr, err)
					return 3
				}
			}
		}
	}

	if opt.Output == "json" {
		err = jsonutil.EncodePretty(outw, out)
	} else {
		err = writeText(outw, out, opt.Header)
	}
	if writers.IsBrokenPipe(err) {
		return 0
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return 3
	}
	return 0
}

func writeText(w io.Writer, out api.SimilarityV1, header bool) error {
	if out.Scores != nil {
		if header {
			if _, err := fmt.Fprintln(w, "frame\tsimilarity"); err != nil {
				return err
			}
		}
		for i, frame := range out.Frames {
			if _, err := fmt.Fprintf(w, "%d\t%.4f\n", frame, out.Scores[i]); err != nil {
				return err
			}
		}
		return nil
	}
	if header {
		if _, err := fmt.Fprint(w, "frame"); err != nil {
			return err
		}
		for _, frame := range out.Frames {
			if _, err := fmt.Fprintf(w, "\t%d", frame); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	for i, frame := range out.Frames {
		if _, err := fmt.Fprintf(w, "%d", frame); err != nil {
			return err
		}
		for j := range out.Frames {
			if _, err := fmt.Fprintf(w, "\t%.4f", out.Matrix[i][j]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
