// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"ifp/core/detect"
	"ifp/core/fingerprint"
	"ifp/core/residues"
	"ifp/internal/cli"
	"ifp/internal/cmdutil"
	"ifp/internal/config"
	"ifp/internal/frames"
	"ifp/internal/output"
	"ifp/internal/version"
	"ifp/internal/writers"
)

// RunContext is the ifp entry point: parse → load → run → write.
// Exit codes: 0 ok, 2 usage/validation, 3 runtime/write, 130 canceled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("ifp")
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

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage()
		}
		_, _ = fmt.Fprintln(stderr, err)
		_ = usage()
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "ifp version %s\n", version.Version)
		return 0
	}

	params := detect.DefaultParams()
	if opts.ConfigFile != "" {
		file, err := config.Load(opts.ConfigFile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		cli.ApplyFile(&opts, cli.SetFlags(fs), file)
		if err := opts.Validate(); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
		if err := file.ApplyParams(&params); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	}

	log := cmdutil.NewLogger(stderr, opts.Quiet, opts.Verbose)
	defer func() { _ = log.Sync() }()

	src, err := frames.Load(opts.Input)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	sel, err := residues.Parse(opts.Residues, opts.Cutoff)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	frameSeq, err := cli.ParseFrames(opts.Frames)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	var detNames []string
	if opts.Detectors != "" {
		for _, name := range strings.Split(opts.Detectors, ",") {
			detNames = append(detNames, strings.TrimSpace(name))
		}
	}

	eng := fingerprint.New(detect.Default(params), fingerprint.Config{
		Selection: sel,
		Detectors: detNames,
		Frames:    frameSeq,
		Workers:   opts.Workers,
		Logger:    log,
	})
	res, err := eng.Run(parent, src)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		// Everything else Run can return is configuration validation;
		// per-frame failures are downgraded into the manifest.
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	werr := writers.Write(opts.Output, outw, res, output.Options{
		Header:    opts.Header,
		Sort:      opts.Sort,
		KeepEmpty: opts.KeepEmpty,
		Compress:  opts.Compress,
	})
	if writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
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

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
