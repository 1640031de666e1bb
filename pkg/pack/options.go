package pack

import (
	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/observability"
)

// =============================================================================
// Default Values - Single Source of Truth for the Library, Job Files and CLI
// =============================================================================

const (
	// DefaultSeed is used when Options.Seed is zero.
	DefaultSeed int64 = 1234

	// SeedFromClock asks the session to derive the seed from the wall clock.
	SeedFromClock int64 = -1

	// DefaultTolerance is the minimum distance between atoms of different
	// molecules.
	DefaultTolerance = 1e-4

	// DefaultShortTolScale weighs pairs closer than the short tolerance.
	// The short tolerance distance itself defaults to half the tolerance.
	DefaultShortTolScale = 3.0

	// DefaultLoopBudgetPerType and DefaultInitialLoopBudgetPerType are
	// multiplied by the number of structure types.
	DefaultLoopBudgetPerType        = 200
	DefaultInitialLoopBudgetPerType = 20

	DefaultMaxIterations = 20
	DefaultDiscale       = 1.1
	DefaultSideMax       = 1000.0
	DefaultFBins         = 3.0
	DefaultPrecision     = 1e-2
	DefaultMoveFraction  = 0.05

	// MaxBinsPerSide caps the spatial binning resolution.
	MaxBinsPerSide = 1000
)

// =============================================================================
// Options - Packing Configuration
// =============================================================================

// Options configures one packing run. Zero values select the defaults
// above. ShortTolDistance and ShortTolScale are pointers so a job file can
// leave them unset; a short tolerance distance of 0 also counts as unset.
type Options struct {
	// Seed drives the engine RNG. 0 selects DefaultSeed, so a run with seed
	// 0 is the same run as one with seed 1234. SeedFromClock derives the
	// seed from the wall clock. Other negative seeds are rejected.
	Seed              int64    `json:"seed,omitempty" toml:"seed" yaml:"seed"`
	Tolerance         float64  `json:"tolerance,omitempty" toml:"tolerance" yaml:"tolerance"`
	ShortTolDistance  *float64 `json:"short_tol_dist,omitempty" toml:"short_tol_dist" yaml:"short_tol_dist"`
	ShortTolScale     *float64 `json:"short_tol_scale,omitempty" toml:"short_tol_scale" yaml:"short_tol_scale"`
	LoopBudget        int      `json:"loop_budget,omitempty" toml:"loop_budget" yaml:"loop_budget"`
	InitialLoopBudget int      `json:"initial_loop_budget,omitempty" toml:"initial_loop_budget" yaml:"initial_loop_budget"`

	// Solver knobs
	MaxIterations int     `json:"max_iterations,omitempty" toml:"max_iterations" yaml:"max_iterations"`
	Discale       float64 `json:"discale,omitempty" toml:"discale" yaml:"discale"`
	SideMax       float64 `json:"sidemax,omitempty" toml:"sidemax" yaml:"sidemax"`
	FBins         float64 `json:"fbins,omitempty" toml:"fbins" yaml:"fbins"`
	Precision     float64 `json:"precision,omitempty" toml:"precision" yaml:"precision"`
	MoveFraction  float64 `json:"movefrac,omitempty" toml:"movefrac" yaml:"movefrac"`

	PackAll           bool `json:"packall,omitempty" toml:"packall" yaml:"packall"`
	UseShortTol       bool `json:"use_short_tol,omitempty" toml:"use_short_tol" yaml:"use_short_tol"`
	AllowFixedOverlap bool `json:"allow_fixed_overlap,omitempty" toml:"allow_fixed_overlap" yaml:"allow_fixed_overlap"`

	// Runtime options (not serialized)
	Hooks observability.PackHooks `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool

	// derivedShortTol and derivedShortScale mark pointer fields filled by
	// SetDefaults rather than by the caller.
	derivedShortTol   bool
	derivedShortScale bool
}

// Float returns a pointer to v, for the optional tolerance fields.
func Float(v float64) *float64 { return &v }

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults fills in defaults and checks every option that does
// not depend on the registered structures. Loop budgets are resolved by the
// plan. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults replaces zero values with defaults.
func (o *Options) SetDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.ShortTolDistance == nil || *o.ShortTolDistance == 0 {
		o.ShortTolDistance = Float(o.Tolerance / 2)
		o.derivedShortTol = true
	}
	if o.ShortTolScale == nil {
		o.ShortTolScale = Float(DefaultShortTolScale)
		o.derivedShortScale = true
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Discale == 0 {
		o.Discale = DefaultDiscale
	}
	if o.SideMax == 0 {
		o.SideMax = DefaultSideMax
	}
	if o.FBins == 0 {
		o.FBins = DefaultFBins
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if o.MoveFraction == 0 {
		o.MoveFraction = DefaultMoveFraction
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopPackHooks{}
	}
}

// reset drops the validation latch and the derived short tolerance values,
// so a copy the caller validated and then changed is derived afresh.
func (o *Options) reset() {
	if o.derivedShortTol {
		o.ShortTolDistance, o.derivedShortTol = nil, false
	}
	if o.derivedShortScale {
		o.ShortTolScale, o.derivedShortScale = nil, false
	}
	o.validated = false
}

// Validate checks the options after defaults have been applied.
func (o *Options) Validate() error {
	if o.Seed < SeedFromClock {
		return errors.Validation("seed", "must be non-negative or %d for a clock seed, got %d", SeedFromClock, o.Seed)
	}
	if err := errors.ValidatePositive("tolerance", o.Tolerance); err != nil {
		return err
	}
	if o.ShortTolDistance == nil || o.ShortTolScale == nil {
		return errors.New(errors.ErrCodeInternal, "options validated before defaults were set")
	}
	if err := errors.ValidatePositive("short_tol_dist", *o.ShortTolDistance); err != nil {
		return err
	}
	if *o.ShortTolDistance >= o.Tolerance {
		return errors.Validation("short_tol_dist", "must be smaller than tolerance %g, got %g", o.Tolerance, *o.ShortTolDistance)
	}
	if err := errors.ValidatePositive("short_tol_scale", *o.ShortTolScale); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("loop_budget", o.LoopBudget); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("initial_loop_budget", o.InitialLoopBudget); err != nil {
		return err
	}
	if o.MaxIterations < 1 {
		return errors.Validation("max_iterations", "must be positive, got %d", o.MaxIterations)
	}
	if err := errors.ValidateFinite("discale", o.Discale); err != nil {
		return err
	}
	if o.Discale < 1 {
		return errors.Validation("discale", "must be at least 1, got %g", o.Discale)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"sidemax", o.SideMax},
		{"fbins", o.FBins},
		{"precision", o.Precision},
		{"movefrac", o.MoveFraction},
	} {
		if err := errors.ValidatePositive(f.name, f.v); err != nil {
			return err
		}
	}
	if o.MoveFraction > 1 {
		return errors.Validation("movefrac", "must not exceed 1, got %g", o.MoveFraction)
	}
	return nil
}

// Overrides lists the options set away from their defaults, for a session
// with n structure types. Values filled in by SetDefaults are not reported.
func (o *Options) Overrides(n int) []observability.Override {
	var out []observability.Override
	add := func(name string, v, def float64) {
		out = append(out, observability.Override{Option: name, Index: -1, Value: v, Default: def})
	}
	if o.Tolerance != 0 && o.Tolerance != DefaultTolerance {
		add("tolerance", o.Tolerance, DefaultTolerance)
	}
	tol := o.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	if o.ShortTolDistance != nil && *o.ShortTolDistance != 0 && !o.derivedShortTol {
		add("short_tol_dist", *o.ShortTolDistance, tol/2)
	}
	if o.ShortTolScale != nil && !o.derivedShortScale {
		add("short_tol_scale", *o.ShortTolScale, DefaultShortTolScale)
	}
	if o.LoopBudget != 0 {
		add("loop_budget", float64(o.LoopBudget), float64(DefaultLoopBudgetPerType*n))
	}
	if o.InitialLoopBudget != 0 {
		add("initial_loop_budget", float64(o.InitialLoopBudget), float64(DefaultInitialLoopBudgetPerType*n))
	}
	if o.MaxIterations != 0 && o.MaxIterations != DefaultMaxIterations {
		add("max_iterations", float64(o.MaxIterations), DefaultMaxIterations)
	}
	for _, f := range []struct {
		name   string
		v, def float64
	}{
		{"discale", o.Discale, DefaultDiscale},
		{"sidemax", o.SideMax, DefaultSideMax},
		{"fbins", o.FBins, DefaultFBins},
		{"precision", o.Precision, DefaultPrecision},
		{"movefrac", o.MoveFraction, DefaultMoveFraction},
	} {
		if f.v != 0 && f.v != f.def {
			add(f.name, f.v, f.def)
		}
	}
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"packall", o.PackAll},
		{"use_short_tol", o.UseShortTol},
		{"allow_fixed_overlap", o.AllowFixedOverlap},
	} {
		if f.on {
			add(f.name, 1, 0)
		}
	}
	return out
}
