package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/molpack/pkg/geom"
)

// Call is one recorded engine call.
type Call struct {
	Method string
	Type   int // structure-type index, -1 for calls without one
	Args   []float64
}

func (c Call) String() string {
	if c.Type < 0 {
		return c.Method
	}
	return fmt.Sprintf("%s(%d)", c.Method, c.Type)
}

// Recorder forwards every call to Next and records it. A nil Next accepts
// every call and returns no outcomes.
type Recorder struct {
	Next Engine

	mu    sync.Mutex
	calls []Call
}

// NewRecorder wraps next.
func NewRecorder(next Engine) *Recorder {
	return &Recorder{Next: next}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Methods returns the recorded calls rendered as "Method" or "Method(i)".
func (r *Recorder) Methods() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

func (r *Recorder) record(method string, typ int, args ...float64) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Method: method, Type: typ, Args: slices.Clone(args)})
	r.mu.Unlock()
}

func (r *Recorder) DeclareTypeCount(n int) error {
	r.record("DeclareTypeCount", -1, float64(n))
	if r.Next == nil {
		return nil
	}
	return r.Next.DeclareTypeCount(n)
}

func (r *Recorder) SetSeed(seed int64) error {
	r.record("SetSeed", -1, float64(seed))
	if r.Next == nil {
		return nil
	}
	return r.Next.SetSeed(seed)
}

func (r *Recorder) SetTypeCounts(i, copies, atoms, loopBudget, initialLoopBudget int) error {
	r.record("SetTypeCounts", i, float64(copies), float64(atoms), float64(loopBudget), float64(initialLoopBudget))
	if r.Next == nil {
		return nil
	}
	return r.Next.SetTypeCounts(i, copies, atoms, loopBudget, initialLoopBudget)
}

func (r *Recorder) SetTolerances(tolerance, shortTolDistance, shortTolScale float64) error {
	r.record("SetTolerances", -1, tolerance, shortTolDistance, shortTolScale)
	if r.Next == nil {
		return nil
	}
	return r.Next.SetTolerances(tolerance, shortTolDistance, shortTolScale)
}

func (r *Recorder) SetParameters(p Parameters) error {
	r.record("SetParameters", -1, float64(p.MaxIterations), p.Discale, p.SideMax, p.Precision, p.MoveFraction)
	if r.Next == nil {
		return nil
	}
	return r.Next.SetParameters(p)
}

func (r *Recorder) SetSpatialBinning(binSize float64) error {
	r.record("SetSpatialBinning", -1, binSize)
	if r.Next == nil {
		return nil
	}
	return r.Next.SetSpatialBinning(binSize)
}

func (r *Recorder) Allocate() error {
	r.record("Allocate", -1)
	if r.Next == nil {
		return nil
	}
	return r.Next.Allocate()
}

func (r *Recorder) SetCoordinates(i int, coords []geom.Vec) error {
	r.record("SetCoordinates", i, float64(len(coords)))
	if r.Next == nil {
		return nil
	}
	return r.Next.SetCoordinates(i, coords)
}

func (r *Recorder) SetConstraint(i int, kind string, params []float64) error {
	r.record("SetConstraint", i, params...)
	if r.Next == nil {
		return nil
	}
	return r.Next.SetConstraint(i, kind, params)
}

func (r *Recorder) NormalizeToCenterOfMass() error {
	r.record("NormalizeToCenterOfMass", -1)
	if r.Next == nil {
		return nil
	}
	return r.Next.NormalizeToCenterOfMass()
}

func (r *Recorder) PlaceFixed(i int, placement [6]float64) error {
	r.record("PlaceFixed", i, placement[:]...)
	if r.Next == nil {
		return nil
	}
	return r.Next.PlaceFixed(i, placement)
}

func (r *Recorder) Run(ctx context.Context) (map[int]Outcome, error) {
	r.record("Run", -1)
	if r.Next == nil {
		return map[int]Outcome{}, nil
	}
	return r.Next.Run(ctx)
}

var _ Engine = (*Recorder)(nil)
