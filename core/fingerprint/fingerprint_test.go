package fingerprint

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"ifp/core/chem"
	"ifp/core/detect"
	"ifp/core/residues"
)

// fakeSource serves hand-built frames and counts Frame calls. The counter
// is atomic: Frame runs on the engine's workers.
type fakeSource struct {
	frames     map[int]*chem.Frame
	order      []int
	ligIDs     []chem.ResidueID
	protIDs    []chem.ResidueID
	frameCalls atomic.Int64
}

func (s *fakeSource) Frames() []int                      { return s.order }
func (s *fakeSource) LigandResidues() []chem.ResidueID   { return s.ligIDs }
func (s *fakeSource) ProteinResidues() []chem.ResidueID  { return s.protIDs }
func (s *fakeSource) Frame(_ context.Context, i int) (*chem.Frame, error) {
	s.frameCalls.Add(1)
	f, ok := s.frames[i]
	if !ok {
		return nil, chem.ErrNoGeometry
	}
	return f, nil
}

func mkFrag(t *testing.T, id chem.ResidueID, frame int, roles chem.Roles, at r3.Vec) *chem.Fragment {
	t.Helper()
	f, err := chem.NewFragment(id, frame,
		[]chem.Atom{{Name: "C", Symbol: "C", Roles: roles}}, []r3.Vec{at}, nil)
	require.NoError(t, err)
	return f
}

var (
	ligID = chem.ResidueID{Name: "LIG", Number: 1}
	alaID = chem.ResidueID{Name: "ALA", Number: 10, Chain: "A"}
	serID = chem.ResidueID{Name: "SER", Number: 11, Chain: "A"}
)

// trajSource builds n frames over two residues: ALA10 is a hydrophobic
// contact on even frames (ligand at 3 Å) and out of reach on odd frames
// (30 Å); SER11 is an acceptor 3 Å further out, donating a constant
// HBDonor contact whenever it is inside the cutoff.
func trajSource(t *testing.T, n int) *fakeSource {
	t.Helper()
	src := &fakeSource{
		frames:  make(map[int]*chem.Frame),
		ligIDs:  []chem.ResidueID{ligID},
		protIDs: []chem.ResidueID{alaID, serID},
	}
	for i := 0; i < n; i++ {
		lx := 0.0
		if i%2 == 1 {
			lx = -27.0
		}
		lig, err := chem.NewFragment(ligID, i,
			[]chem.Atom{{Name: "C1", Symbol: "C", Roles: chem.RoleHydrophobic | chem.RoleHBDonor}},
			[]r3.Vec{{X: lx}}, nil)
		require.NoError(t, err)
		ala := mkFrag(t, alaID, i, chem.RoleHydrophobic, r3.Vec{X: 3})
		ser := mkFrag(t, serID, i, chem.RoleHBAcceptor, r3.Vec{X: 3, Y: 1.5})
		src.frames[i] = &chem.Frame{
			Index:   i,
			Ligand:  []*chem.Fragment{lig},
			Protein: []*chem.Fragment{ala, ser},
		}
		src.order = append(src.order, i)
	}
	return src
}

func run(t *testing.T, src chem.FrameSource, cfg Config) *Result {
	t.Helper()
	res, err := New(detect.Default(detect.DefaultParams()), cfg).Run(context.Background(), src)
	require.NoError(t, err)
	return res
}

// Repeating a run with identical inputs yields identical entries,
// independent of worker count or scheduling.
func TestRunDeterministic(t *testing.T) {
	cfg := Config{Selection: residues.Auto(6.0)}
	a := run(t, trajSource(t, 12), cfg)

	for _, workers := range []int{1, 4, 8} {
		cfg.Workers = workers
		b := run(t, trajSource(t, 12), cfg)
		require.Equal(t, a.Entries(), b.Entries(), "workers=%d", workers)
		require.Equal(t, a.Frames(), b.Frames(), "workers=%d", workers)
	}
}

func TestRunAccumulates(t *testing.T) {
	res := run(t, trajSource(t, 4), Config{Selection: residues.Auto(6.0)})

	require.Equal(t, []int{0, 1, 2, 3}, res.Frames())
	// Even frames: ligand within range of both residues.
	assert.True(t, res.Has(0, ligID, alaID, "Hydrophobic"))
	assert.True(t, res.Has(0, ligID, serID, "HBDonor"))
	assert.True(t, res.Has(2, ligID, alaID, "Hydrophobic"))
	// Odd frames: everything out of range, no entries at all.
	assert.False(t, res.Has(1, ligID, alaID, "Hydrophobic"))

	m := res.Manifest()
	assert.Equal(t, 4, m.FramesRequested)
	assert.Equal(t, 4, m.FramesProcessed)
	assert.Equal(t, 2, m.FramesEmpty)
	assert.Zero(t, m.FramesMissing)
	assert.NotEmpty(t, m.RunID)

	// Entry metadata survives accumulation.
	e, ok := res.Lookup(0, ligID, alaID, "Hydrophobic")
	require.True(t, ok)
	assert.InDelta(t, 3.0, e.Meta.Distance, 1e-9)
}

// A frame the source cannot serve is recorded as missing and the run
// continues.
func TestRunMissingFrame(t *testing.T) {
	src := trajSource(t, 4)
	delete(src.frames, 2)

	res := run(t, src, Config{Selection: residues.Auto(6.0)})
	require.Equal(t, []int{0, 1, 2, 3}, res.Frames())
	m := res.Manifest()
	assert.Equal(t, 1, m.FramesMissing)
	assert.Equal(t, 3, m.FramesProcessed)
	assert.False(t, res.Has(2, ligID, alaID, "Hydrophobic"))
}

// An explicit selection naming an unknown residue fails before any frame
// is touched.
func TestRunUnknownResidueFailsFast(t *testing.T) {
	src := trajSource(t, 4)
	cfg := Config{Selection: residues.Explicit(chem.ResidueID{Name: "TRP", Number: 99, Chain: "Z"})}
	_, err := New(detect.Default(detect.DefaultParams()), cfg).Run(context.Background(), src)
	require.ErrorIs(t, err, residues.ErrUnknownResidue)
	assert.Zero(t, src.frameCalls.Load(), "no frame may be read before validation")
}

func TestRunUnknownDetectorFailsFast(t *testing.T) {
	src := trajSource(t, 2)
	cfg := Config{Selection: residues.Auto(6.0), Detectors: []string{"Hydrophobic", "NoSuchRule"}}
	_, err := New(detect.Default(detect.DefaultParams()), cfg).Run(context.Background(), src)
	require.Error(t, err)
	assert.Zero(t, src.frameCalls.Load())
}

// A 0-frame request is a valid, empty run.
func TestRunZeroFrames(t *testing.T) {
	res := run(t, trajSource(t, 4), Config{Selection: residues.Auto(6.0), Frames: []int{}})
	assert.Empty(t, res.Frames())
	assert.Empty(t, res.Entries())
	assert.Empty(t, res.BitVectors(res.Columns(true)))
	assert.Zero(t, res.Manifest().FramesRequested)
}

// Frames config supports strides and arbitrary subsets.
func TestRunFrameSubset(t *testing.T) {
	res := run(t, trajSource(t, 10), Config{Selection: residues.Auto(6.0), Frames: Stride(10, 3)})
	require.Equal(t, []int{0, 3, 6, 9}, res.Frames())
}

func TestStride(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4}, Stride(6, 2))
	assert.Equal(t, []int{0}, Stride(1, 5))
	assert.Empty(t, Stride(0, 2))
	assert.Empty(t, Stride(5, 0))
}

// Projection round-trip: the true-entry set of every frame survives
// vector encoding and decoding unchanged.
func TestProjectorRoundTrip(t *testing.T) {
	res := run(t, trajSource(t, 6), Config{Selection: residues.Auto(6.0)})
	cols := res.Columns(true)
	require.NotEmpty(t, cols)

	for _, frame := range res.Frames() {
		vec := res.FrameVector(frame, cols)
		back, err := TrueColumns(vec, cols)
		require.NoError(t, err)

		var want []Column
		for _, c := range cols {
			if res.Has(frame, c.Ligand, c.Residue, c.Interaction) {
				want = append(want, c)
			}
		}
		assert.Equal(t, want, back, "frame %d", frame)
	}
}

// Both column modes agree on frame rows: the drop-empty view is the
// full cross-product view restricted to fired columns.
func TestColumnsDropEmptyVsFull(t *testing.T) {
	res := run(t, trajSource(t, 4), Config{Selection: residues.Auto(6.0)})

	sparse := res.Columns(true)
	full := res.Columns(false)
	assert.Len(t, full, len(res.Ligands())*len(res.EvaluatedResidues())*len(res.Detectors()))
	assert.Less(t, len(sparse), len(full))

	fullIdx := make(map[Column]int, len(full))
	for i, c := range full {
		fullIdx[c] = i
	}
	for _, frame := range res.Frames() {
		sv := res.FrameVector(frame, sparse)
		fv := res.FrameVector(frame, full)
		for i, c := range sparse {
			j, ok := fullIdx[c]
			require.True(t, ok, "sparse column %v missing from full universe", c)
			assert.Equal(t, sv.Test(uint(i)), fv.Test(uint(j)))
		}
	}

	// Stability: recomputation yields the identical universe.
	assert.Equal(t, sparse, res.Columns(true))
	assert.Equal(t, full, res.Columns(false))
}

// Cancellation between frames leaves a valid (possibly empty) completed
// prefix and reports ErrCanceled.
func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := New(detect.Default(detect.DefaultParams()), Config{Selection: residues.Auto(6.0)})
	res, err := eng.Run(ctx, trajSource(t, 50))
	require.ErrorIs(t, err, ErrCanceled)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res, "partial result must be usable")
	assert.LessOrEqual(t, len(res.Frames()), 50)
	// The partial result still projects.
	_ = res.BitVectors(res.Columns(true))
}

// cancelAtSource cancels the run while serving frame `at` and surfaces the
// context error, the way a source blocked on I/O would.
type cancelAtSource struct {
	*fakeSource
	cancel context.CancelFunc
	at     int
}

func (s *cancelAtSource) Frame(ctx context.Context, i int) (*chem.Frame, error) {
	if i >= s.at {
		s.cancel()
		return nil, ctx.Err()
	}
	return s.fakeSource.Frame(ctx, i)
}

// A frame interrupted by cancellation is not "missing geometry": the run
// stops at the completed prefix and the manifest records no missing frames.
func TestRunCanceledMidFrameNotMissing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &cancelAtSource{fakeSource: trajSource(t, 8), cancel: cancel, at: 3}

	eng := New(detect.Default(detect.DefaultParams()),
		Config{Selection: residues.Auto(6.0), Workers: 1})
	res, err := eng.Run(ctx, src)
	require.ErrorIs(t, err, ErrCanceled)
	require.NotNil(t, res)
	assert.Equal(t, []int{0, 1, 2}, res.Frames())
	m := res.Manifest()
	assert.Zero(t, m.FramesMissing)
	assert.Equal(t, 3, m.FramesProcessed)
}

// Detector restriction cuts the evaluated set and the column universe.
func TestRunDetectorSubset(t *testing.T) {
	res := run(t, trajSource(t, 2), Config{Selection: residues.Auto(6.0), Detectors: []string{"Hydrophobic"}})
	require.Equal(t, []string{"Hydrophobic"}, res.Detectors())
	assert.False(t, res.Has(0, ligID, serID, "HBDonor"))
	assert.True(t, res.Has(0, ligID, alaID, "Hydrophobic"))
}
