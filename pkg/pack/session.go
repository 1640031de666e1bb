// Package pack drives a constrained molecular-packing run.
//
// A [Session] collects structure templates, derives the solver control
// parameters from [Options] and hands everything to an [engine.Engine] in a
// fixed call sequence. The session never places molecules itself.
//
// # Usage
//
//	s := pack.NewSession(engine.NewLocal(logger))
//	if _, err := s.AddStructure(water); err != nil {
//	    return err
//	}
//	result, err := s.Pack(ctx, pack.Options{Tolerance: 2.0})
//
// Every caller-input error is reported before the first engine call. Types
// the engine cannot place fail individually in [Result.Types]; only engine
// call errors abort the run.
package pack

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/molpack/pkg/engine"
	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/observability"
	"github.com/matzehuels/molpack/pkg/structure"
)

// Session owns the structure registry of one packing problem.
//
// Session is safe for concurrent use. While Pack runs, AddStructure and a
// second Pack fail with SESSION_BUSY.
type Session struct {
	engine engine.Engine
	now    func() time.Time

	mu       sync.Mutex
	busy     bool
	registry *structure.Registry
}

// NewSession returns an empty session packing with eng. Engines that serve a
// single run, such as [engine.Local], need a new session per Pack.
func NewSession(eng engine.Engine) *Session {
	return &Session{
		engine:   eng,
		now:      time.Now,
		registry: structure.NewRegistry(),
	}
}

// =============================================================================
// Registry
// =============================================================================

// AddStructure validates t and registers a copy of it. It returns the
// structure-type index. A duplicate name fails with DUPLICATE_STRUCTURE_NAME
// and leaves the session unchanged.
func (s *Session) AddStructure(t *structure.Template) (int, error) {
	if t == nil {
		return -1, errors.Validation("structure", "template is nil")
	}
	if err := t.Validate(); err != nil {
		return -1, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return -1, errBusy()
	}
	return s.registry.Add(t.Clone())
}

// Structure returns a copy of the named template.
func (s *Session) Structure(name string) (*structure.Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.registry.Get(name)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Structures returns copies of every template in registration order.
func (s *Session) Structures() []*structure.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.registry.All()
	for i, t := range all {
		all[i] = t.Clone()
	}
	return all
}

// StructureCount returns the number of registered templates.
func (s *Session) StructureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Len()
}

// TotalMolecules returns the sum of copies over all templates.
func (s *Session) TotalMolecules() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.TotalMolecules()
}

// TotalAtoms returns the sum of atoms × copies over all templates.
func (s *Session) TotalAtoms() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.TotalAtoms()
}

// Plan derives the run parameters without calling the engine.
func (s *Session) Plan(opts Options) (*Plan, error) {
	s.mu.Lock()
	templates := s.registry.All()
	s.mu.Unlock()
	return newPlan(templates, opts, s.now)
}

// =============================================================================
// Pack
// =============================================================================

// Pack derives the plan, drives the engine and collects the result.
func (s *Session) Pack(ctx context.Context, opts Options) (*Result, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, errBusy()
	}
	s.busy = true
	templates := s.registry.All()
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	hooks := opts.Hooks
	if hooks == nil {
		hooks = observability.NoopPackHooks{}
	}
	runID := uuid.NewString()
	start := time.Now()
	hooks.OnPackStart(ctx, runID, len(templates))

	result, err := s.pack(ctx, runID, templates, opts, hooks)
	placed, failed := 0, 0
	if result != nil {
		result.Stats.Duration = time.Since(start)
		placed, failed = result.Stats.Placed, result.Stats.Failed
	}
	hooks.OnPackComplete(ctx, runID, placed, failed, time.Since(start), err)
	return result, err
}

func (s *Session) pack(ctx context.Context, runID string, templates []*structure.Template, opts Options, hooks observability.PackHooks) (*Result, error) {
	plan, err := newPlan(templates, opts, s.now)
	if err != nil {
		hooks.OnValidationFailure(ctx, err)
		return nil, err
	}
	hooks.OnSeedResolved(ctx, plan.Seed, plan.SeedFromClock)
	for _, o := range plan.Overrides {
		hooks.OnOverride(ctx, o)
	}
	hooks.OnRestrictions(ctx, plan.Restrictions)

	if s.engine == nil {
		return nil, errors.New(errors.ErrCodeEngine, "session has no engine")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcomes, err := handoff(ctx, s.engine, plan, hooks)
	if err != nil {
		return nil, err
	}
	return collect(ctx, runID, plan, outcomes, hooks), nil
}

// handoff drives the engine through the fixed call sequence.
func handoff(ctx context.Context, eng engine.Engine, p *Plan, hooks observability.PackHooks) (map[int]engine.Outcome, error) {
	call := func(step string, fn func() error) error {
		hooks.OnEngineStep(ctx, step)
		if err := fn(); err != nil {
			return errors.Wrap(errors.ErrCodeEngine, err, "%s", step)
		}
		return nil
	}

	if err := call("declare type count", func() error { return eng.DeclareTypeCount(len(p.Types)) }); err != nil {
		return nil, err
	}
	if err := call("set seed", func() error { return eng.SetSeed(p.Seed) }); err != nil {
		return nil, err
	}
	for _, t := range p.Types {
		err := call("set type counts", func() error {
			return eng.SetTypeCounts(t.Index, t.Copies, t.Atoms, t.LoopBudget, t.InitialLoopBudget)
		})
		if err != nil {
			return nil, err
		}
	}
	if err := call("set tolerances", func() error {
		return eng.SetTolerances(p.Tolerance, p.ShortTolDistance, p.ShortTolScale)
	}); err != nil {
		return nil, err
	}
	if err := call("set parameters", func() error { return eng.SetParameters(p.Parameters) }); err != nil {
		return nil, err
	}
	if err := call("set spatial binning", func() error { return eng.SetSpatialBinning(p.BinSize) }); err != nil {
		return nil, err
	}
	if err := call("allocate", eng.Allocate); err != nil {
		return nil, err
	}
	hooks.OnSummary(ctx, p.Molecules, p.Atoms)
	for _, t := range p.Types {
		if err := call("set coordinates", func() error { return eng.SetCoordinates(t.Index, t.Coordinates) }); err != nil {
			return nil, err
		}
	}
	for _, t := range p.Types {
		if t.Constraint == nil {
			continue
		}
		err := call("set constraint", func() error {
			return eng.SetConstraint(t.Index, string(t.Constraint.Kind()), t.Constraint.Values())
		})
		if err != nil {
			return nil, err
		}
	}
	if err := call("normalize to center of mass", eng.NormalizeToCenterOfMass); err != nil {
		return nil, err
	}
	for _, t := range p.Types {
		if !t.Fixed() {
			continue
		}
		if err := call("place fixed", func() error { return eng.PlaceFixed(t.Index, *t.Placement) }); err != nil {
			return nil, err
		}
	}

	var outcomes map[int]engine.Outcome
	err := call("run", func() error {
		var err error
		outcomes, err = eng.Run(ctx)
		return err
	})
	return outcomes, err
}

// collect turns engine outcomes into a result in registration order.
func collect(ctx context.Context, runID string, p *Plan, outcomes map[int]engine.Outcome, hooks observability.PackHooks) *Result {
	r := &Result{
		RunID:     runID,
		Seed:      p.Seed,
		Tolerance: p.Tolerance,
		Stats:     Stats{Molecules: p.Molecules, Atoms: p.Atoms},
	}
	for _, t := range p.Types {
		tr := TypeResult{Index: t.Index, Name: t.Name, Copies: t.Copies, Atoms: t.Atoms}
		o, ok := outcomes[t.Index]
		want := t.Copies * t.Atoms
		switch {
		case !ok:
			tr.Err = errors.New(errors.ErrCodePlacementFailed, "structure %q: engine returned no outcome", t.Name)
		case !o.Success:
			tr.Err = placementError(t.Name, o.Err)
		case len(o.Coordinates) != want:
			tr.Err = errors.New(errors.ErrCodePlacementFailed,
				"structure %q: engine returned %d points, want %d", t.Name, len(o.Coordinates), want)
		default:
			tr.Success = true
			tr.Coordinates = slices.Clone(o.Coordinates)
		}
		tr.Iterations = o.Iterations
		if tr.Success {
			r.Stats.Placed++
		} else {
			tr.Failure = tr.Err.Error()
			r.Stats.Failed++
		}
		hooks.OnPlacement(ctx, t.Index, t.Name, tr.Success, tr.Err)
		r.Types = append(r.Types, tr)
	}
	return r
}

func placementError(name string, cause error) error {
	if cause == nil {
		return errors.New(errors.ErrCodePlacementFailed, "structure %q could not be placed", name)
	}
	return errors.Wrap(errors.ErrCodePlacementFailed, cause, "structure %q could not be placed", name)
}

func errBusy() error {
	return errors.New(errors.ErrCodeSessionBusy, "a pack run is in progress")
}
