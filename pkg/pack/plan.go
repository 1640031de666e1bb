package pack

import (
	"slices"
	"time"

	"fortio.org/safecast"

	"github.com/matzehuels/molpack/pkg/constraint"
	"github.com/matzehuels/molpack/pkg/engine"
	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/geom"
	"github.com/matzehuels/molpack/pkg/observability"
	"github.com/matzehuels/molpack/pkg/structure"
)

// clockSeedRange bounds clock-derived seeds.
const clockSeedRange = 1 << 31

// Plan is everything a run derives before the engine is touched. It is
// computed per Pack call; templates are never modified by it.
type Plan struct {
	Seed          int64
	SeedFromClock bool

	Tolerance        float64
	ShortTolDistance float64
	ShortTolScale    float64

	// LoopBudget and InitialLoopBudget are the session-wide values that
	// types without their own budget inherit.
	LoopBudget        int
	InitialLoopBudget int

	BinSize      float64
	Restrictions int
	Molecules    int
	Atoms        int

	Parameters engine.Parameters
	Types      []TypePlan

	// Overrides lists every option and per-type budget set away from its
	// default.
	Overrides []observability.Override
}

// TypePlan is the engine-facing view of one registered template.
type TypePlan struct {
	Index             int
	Name              string
	Copies            int
	Atoms             int
	LoopBudget        int
	InitialLoopBudget int
	Coordinates       []geom.Vec
	Constraint        *constraint.Constraint

	// Placement is set for fixed types.
	Placement *[6]float64
}

// Fixed reports whether the type is pinned by a fixed constraint.
func (t TypePlan) Fixed() bool { return t.Placement != nil }

// newPlan derives the run parameters for templates in registration order.
// opts is taken by value so the caller's copy keeps its zero values. It is
// always validated again, even when the caller already validated it.
func newPlan(templates []*structure.Template, opts Options, now func() time.Time) (*Plan, error) {
	n := len(templates)
	if n == 0 {
		return nil, errors.Validation("structures", "no structures registered")
	}
	opts.reset()
	overrides := opts.Overrides(n)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	p := &Plan{
		Seed:              opts.Seed,
		Tolerance:         opts.Tolerance,
		ShortTolDistance:  *opts.ShortTolDistance,
		ShortTolScale:     *opts.ShortTolScale,
		LoopBudget:        opts.LoopBudget,
		InitialLoopBudget: opts.InitialLoopBudget,
		Parameters: engine.Parameters{
			MaxIterations:     opts.MaxIterations,
			Discale:           opts.Discale,
			SideMax:           opts.SideMax,
			Precision:         opts.Precision,
			MoveFraction:      opts.MoveFraction,
			PackAll:           opts.PackAll,
			UseShortTol:       opts.UseShortTol,
			AllowFixedOverlap: opts.AllowFixedOverlap,
		},
		Overrides: overrides,
	}

	if p.Seed == SeedFromClock {
		seed, err := clockSeed(now())
		if err != nil {
			return nil, err
		}
		p.Seed, p.SeedFromClock = seed, true
	}
	if p.LoopBudget == 0 {
		p.LoopBudget = DefaultLoopBudgetPerType * n
	}
	if p.InitialLoopBudget == 0 {
		p.InitialLoopBudget = DefaultInitialLoopBudgetPerType * n
	}
	p.BinSize = max(opts.FBins*p.Tolerance, opts.SideMax/MaxBinsPerSide)

	for i, t := range templates {
		tp := TypePlan{
			Index:             i,
			Name:              t.Name,
			Copies:            t.Copies,
			Atoms:             t.AtomCount(),
			LoopBudget:        p.LoopBudget,
			InitialLoopBudget: p.InitialLoopBudget,
			Coordinates:       slices.Clone(t.Coordinates),
			Constraint:        t.Constraint,
		}
		if t.LoopBudget > 0 {
			tp.LoopBudget = t.LoopBudget
			p.Overrides = append(p.Overrides, observability.Override{
				Option: "loop_budget", Structure: t.Name, Index: i,
				Value: float64(t.LoopBudget), Default: float64(p.LoopBudget),
			})
		}
		if t.InitialLoopBudget > 0 {
			tp.InitialLoopBudget = t.InitialLoopBudget
			p.Overrides = append(p.Overrides, observability.Override{
				Option: "initial_loop_budget", Structure: t.Name, Index: i,
				Value: float64(t.InitialLoopBudget), Default: float64(p.InitialLoopBudget),
			})
		}
		if pos, ok := t.Placement(); ok {
			tp.Placement = &pos
		}
		if t.Constraint != nil {
			p.Restrictions++
		}
		p.Molecules += t.Copies
		p.Atoms += t.TotalAtoms()
		p.Types = append(p.Types, tp)
	}
	return p, nil
}

// clockSeed derives a non-negative seed from t.
func clockSeed(t time.Time) (int64, error) {
	ns, err := safecast.Conv[uint64](t.UnixNano())
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInternal, err, "clock before 1970")
	}
	return safecast.Conv[int64](ns % clockSeedRange)
}
