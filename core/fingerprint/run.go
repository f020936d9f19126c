// core/fingerprint/run.go
// The accumulation loop. Frames are embarrassingly parallel: each worker
// evaluates one frame against the immutable configuration and writes into
// its own result slot; the merge walks slots in request order, so output
// is byte-identical regardless of scheduling.
package fingerprint

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ifp/core/chem"
	"ifp/core/detect"
	"ifp/core/residues"
)

// ErrCanceled reports an early-terminated run. The partial Result returned
// alongside it covers the completed frame prefix and remains fully usable.
var ErrCanceled = errors.Wrap(context.Canceled, "fingerprint: run canceled")

// Engine evaluates a detector registry over a frame source.
type Engine struct {
	reg *detect.Registry
	cfg Config
}

// New builds an engine. The registry and config are treated as immutable
// for the engine's lifetime.
func New(reg *detect.Registry, cfg Config) *Engine {
	return &Engine{reg: reg, cfg: cfg}
}

// frameOut is one worker's slot. done marks a fully evaluated frame; the
// merge stops at the first slot still pending so a canceled run keeps a
// valid completed prefix.
type frameOut struct {
	done    bool
	missing bool
	pairs   int
	entries []Entry
	detErrs map[string]int
	resIDs  []chem.ResidueID // residues evaluated this frame
}

// Run executes one run: validate, evaluate frames in parallel, merge in
// request order. Configuration errors (unknown detector, unknown residue)
// surface before any frame work. Per-frame and per-pair failures are
// downgraded to "no interaction" and counted in the manifest.
//
// On cancellation Run returns the partial result together with
// ErrCanceled; errors.Is(err, context.Canceled) holds.
func (e *Engine) Run(ctx context.Context, src chem.FrameSource) (*Result, error) {
	log := e.cfg.logger()

	reg := e.reg
	if len(e.cfg.Detectors) > 0 {
		sub, err := reg.Subset(e.cfg.Detectors)
		if err != nil {
			return nil, err
		}
		reg = sub
	}
	if len(reg.Names()) == 0 {
		return nil, errors.New("fingerprint: no detectors registered")
	}
	sel := e.cfg.Selection
	if err := residues.Validate(sel, src.ProteinResidues()); err != nil {
		return nil, err
	}

	frames := e.cfg.Frames
	if frames == nil {
		frames = src.Frames()
	}

	slots := make([]frameOut, len(frames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers())
	for i, frame := range frames {
		i, frame := i, frame
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := e.evalFrame(gctx, src, frame, sel, reg, log)
			if err != nil {
				return err
			}
			slots[i] = out
			return nil
		})
	}
	waitErr := g.Wait()

	res := e.merge(src, frames, slots, reg.Names(), sel)

	if waitErr != nil || ctx.Err() != nil {
		log.Warn("run canceled",
			zap.Int("frames_requested", len(frames)),
			zap.Int("frames_completed", res.manifest.FramesProcessed+res.manifest.FramesMissing))
		return res, ErrCanceled
	}
	return res, nil
}

func (e *Engine) evalFrame(ctx context.Context, src chem.FrameSource, frame int,
	sel residues.Selection, reg *detect.Registry, log *zap.Logger,
) (frameOut, error) {
	out := frameOut{done: true}

	fr, err := src.Frame(ctx, frame)
	if err != nil {
		// Cancellation is not missing geometry: the slot stays pending so
		// the merge stops at the completed prefix instead of counting the
		// interrupted frame in the manifest.
		if ctx.Err() != nil || errors.IsAny(err, context.Canceled, context.DeadlineExceeded) {
			return frameOut{}, err
		}
		// Any geometry failure leaves the frame empty rather than
		// aborting a long trajectory run.
		out.missing = true
		log.Warn("frame geometry missing",
			zap.Int("frame", frame), zap.Error(err))
		return out, nil
	}

	dets := reg.Detectors()
	seenRes := make(map[chem.ResidueID]struct{})
	for _, lig := range fr.Ligand {
		pool := residues.Select(sel, lig, fr.Protein)
		for _, res := range pool {
			if _, ok := seenRes[res.ID]; !ok {
				seenRes[res.ID] = struct{}{}
				out.resIDs = append(out.resIDs, res.ID)
			}
			out.pairs++
			for _, d := range dets {
				meta, fired, derr := d.Detect(lig, res)
				if derr != nil {
					if out.detErrs == nil {
						out.detErrs = make(map[string]int)
					}
					out.detErrs[d.Name()]++
					log.Warn("detector evaluation error",
						zap.Int("frame", frame),
						zap.Stringer("ligand", lig.ID),
						zap.Stringer("residue", res.ID),
						zap.String("detector", d.Name()),
						zap.Error(derr))
					continue
				}
				if fired {
					out.entries = append(out.entries, Entry{
						Frame:       frame,
						Ligand:      lig.ID,
						Residue:     res.ID,
						Interaction: d.Name(),
						Meta:        meta,
					})
				}
			}
		}
	}
	return out, nil
}

// merge assembles the ordered Result from the contiguous completed slot
// prefix.
func (e *Engine) merge(src chem.FrameSource, frames []int, slots []frameOut,
	detNames []string, sel residues.Selection,
) *Result {
	res := &Result{
		selection: sel.String(),
		detectors: detNames,
		ligands:   src.LigandResidues(),
		index:     make(map[entryKey]int),
		manifest: Manifest{
			RunID:           uuid.NewString(),
			FramesRequested: len(frames),
			DetectorErrors:  make(map[string]int),
		},
	}

	seenRes := make(map[chem.ResidueID]struct{})
	for i, s := range slots {
		if !s.done {
			break
		}
		res.frames = append(res.frames, frames[i])
		if s.missing {
			res.manifest.FramesMissing++
			continue
		}
		res.manifest.FramesProcessed++
		if len(s.entries) == 0 {
			res.manifest.FramesEmpty++
		}
		res.manifest.PairsEvaluated += s.pairs
		for name, n := range s.detErrs {
			res.manifest.DetectorErrors[name] += n
		}
		for _, id := range s.resIDs {
			if _, ok := seenRes[id]; !ok {
				seenRes[id] = struct{}{}
				res.evaluated = append(res.evaluated, id)
			}
		}
		for _, en := range s.entries {
			res.index[entryKey{en.Frame, en.Ligand, en.Residue, en.Interaction}] = len(res.entries)
			res.entries = append(res.entries, en)
		}
	}
	sort.Slice(res.evaluated, func(i, j int) bool { return res.evaluated[i].Less(res.evaluated[j]) })
	return res
}
