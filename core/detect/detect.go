// core/detect/detect.go
// Named interaction detectors and their registry. A detector is a stateless
// predicate over one (ligand fragment, residue fragment) pair; identity is
// its name, fixed at registration. Evaluation is order-independent and
// side-effect-free: no detector may influence another's result on the same
// pair.
package detect

import (
	"github.com/cockroachdb/errors"

	"ifp/core/chem"
)

// Meta carries optional contact detail for a fired detector: the distance
// the rule keyed on and, when an angular criterion was evaluated, the angle.
type Meta struct {
	Distance float64 // Å
	Angle    float64 // degrees; meaningful only when AngleSet
	AngleSet bool
}

// Detector decides whether one interaction type is present between a ligand
// fragment and a residue fragment. Implementations must be deterministic
// for identical coordinates and must not retain either fragment.
//
// An error reports degenerate geometry (zero-length normal, undefined
// angle). The accumulator downgrades it to "did not fire" and counts it;
// it never aborts a frame.
type Detector interface {
	Name() string
	Detect(lig, res *chem.Fragment) (Meta, bool, error)
}

// Registry maps case-sensitive names to detectors, preserving registration
// order. Registration happens once at engine construction; the registry is
// read-only for the lifetime of a run.
type Registry struct {
	order  []string
	byName map[string]Detector
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Detector)}
}

// Register adds d under d.Name(), overriding any previous detector of the
// same name in place (the original position in Names is kept).
func (r *Registry) Register(d Detector) {
	name := d.Name()
	if _, ok := r.byName[name]; !ok {
		r.order = append(r.order, name)
	}
	r.byName[name] = d
}

// Get looks up a detector by name.
func (r *Registry) Get(name string) (Detector, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Detectors returns the detectors in registration order.
func (r *Registry) Detectors() []Detector {
	out := make([]Detector, len(r.order))
	for i, name := range r.order {
		out[i] = r.byName[name]
	}
	return out
}

// Subset builds a registry holding exactly the named detectors, in the
// order given. Unknown names fail synchronously, before any frame work.
func (r *Registry) Subset(names []string) (*Registry, error) {
	sub := NewRegistry()
	for _, name := range names {
		d, ok := r.byName[name]
		if !ok {
			return nil, errors.Newf("detect: unknown detector %q", name)
		}
		sub.Register(d)
	}
	return sub, nil
}
