package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"fortio.org/safecast"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/molpack/pkg/constraint"
	"github.com/matzehuels/molpack/pkg/geom"
)

// stage tracks how far the call sequence has progressed.
type stage int

const (
	stageNew stage = iota
	stageDeclared
	stageSeeded
	stageTolerances
	stageParameters
	stageBinned
	stageAllocated
	stageCentered
	stageDone
)

// stageNames holds the call that completed each stage.
var stageNames = [...]string{
	stageNew:        "NewLocal",
	stageDeclared:   "DeclareTypeCount",
	stageSeeded:     "SetSeed",
	stageTolerances: "SetTolerances",
	stageParameters: "SetParameters",
	stageBinned:     "SetSpatialBinning",
	stageAllocated:  "Allocate",
	stageCentered:   "NormalizeToCenterOfMass",
	stageDone:       "Run",
}

type typeState struct {
	copies    int
	atoms     int
	loop      int
	loop0     int
	counted   bool
	body      []geom.Vec
	kind      constraint.Kind
	region    constraint.Region
	placement *[6]float64
}

// Local is an in-process reference engine. It places copies one at a time
// by seeded random trials, relaxes near misses along their overlap
// repulsion, and rejects any copy that leaves its region or comes closer
// than the tolerance to another molecule.
//
// Loop budgets are charged per copy: every copy of a type gets
// (initialLoopBudget + loopBudget) × MaxIterations trials, the first
// initialLoopBudget × MaxIterations at the tolerance scaled by Discale. A
// type fails when one of its copies runs out of trials.
//
// A Local engine serves exactly one run; create a new one per Pack.
type Local struct {
	logger *log.Logger

	stage   stage
	seed    int64
	types   []typeState
	tol     float64
	short   float64
	scale   float64
	params  Parameters
	binSize float64
}

// NewLocal returns a reference engine logging to logger. A nil logger
// discards output.
func NewLocal(logger *log.Logger) *Local {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Local{logger: logger}
}

func (e *Local) expect(call string, want stage) error {
	if e.stage != want {
		return fmt.Errorf("%w: %s called after %s", ErrSequence, call, stageNames[e.stage])
	}
	return nil
}

func (e *Local) typeAt(call string, i int) (*typeState, error) {
	if i < 0 || i >= len(e.types) {
		return nil, fmt.Errorf("%s: type index %d outside 0..%d", call, i, len(e.types)-1)
	}
	return &e.types[i], nil
}

func (e *Local) DeclareTypeCount(n int) error {
	if err := e.expect("DeclareTypeCount", stageNew); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("DeclareTypeCount: need at least one type, got %d", n)
	}
	e.types = make([]typeState, n)
	e.stage = stageDeclared
	return nil
}

func (e *Local) SetSeed(seed int64) error {
	if err := e.expect("SetSeed", stageDeclared); err != nil {
		return err
	}
	if _, err := safecast.Conv[uint64](seed); err != nil {
		return fmt.Errorf("SetSeed: %w", err)
	}
	e.seed = seed
	e.stage = stageSeeded
	return nil
}

func (e *Local) SetTypeCounts(i, copies, atoms, loopBudget, initialLoopBudget int) error {
	if err := e.expect("SetTypeCounts", stageSeeded); err != nil {
		return err
	}
	t, err := e.typeAt("SetTypeCounts", i)
	if err != nil {
		return err
	}
	if copies < 1 || atoms < 1 || loopBudget < 0 || initialLoopBudget < 0 {
		return fmt.Errorf("SetTypeCounts: invalid counts for type %d", i)
	}
	*t = typeState{copies: copies, atoms: atoms, loop: loopBudget, loop0: initialLoopBudget, counted: true}
	return nil
}

func (e *Local) SetTolerances(tolerance, shortTolDistance, shortTolScale float64) error {
	if err := e.expect("SetTolerances", stageSeeded); err != nil {
		return err
	}
	for i, t := range e.types {
		if !t.counted {
			return fmt.Errorf("%w: SetTolerances before SetTypeCounts for type %d", ErrSequence, i)
		}
	}
	if tolerance <= 0 || shortTolDistance <= 0 || shortTolDistance >= tolerance || shortTolScale <= 0 {
		return fmt.Errorf("SetTolerances: invalid tolerances %g, %g, %g", tolerance, shortTolDistance, shortTolScale)
	}
	e.tol, e.short, e.scale = tolerance, shortTolDistance, shortTolScale
	e.stage = stageTolerances
	return nil
}

func (e *Local) SetParameters(p Parameters) error {
	if err := e.expect("SetParameters", stageTolerances); err != nil {
		return err
	}
	if p.Discale < 1 || p.SideMax <= 0 || p.Precision <= 0 || p.MoveFraction <= 0 || p.MaxIterations < 1 {
		return fmt.Errorf("SetParameters: invalid parameters %+v", p)
	}
	e.params = p
	e.stage = stageParameters
	return nil
}

func (e *Local) SetSpatialBinning(binSize float64) error {
	if err := e.expect("SetSpatialBinning", stageParameters); err != nil {
		return err
	}
	if binSize <= 0 {
		return fmt.Errorf("SetSpatialBinning: bin size must be positive, got %g", binSize)
	}
	e.binSize = binSize
	e.stage = stageBinned
	return nil
}

func (e *Local) Allocate() error {
	if err := e.expect("Allocate", stageBinned); err != nil {
		return err
	}
	for i := range e.types {
		e.types[i].body = make([]geom.Vec, 0, e.types[i].atoms)
	}
	e.stage = stageAllocated
	return nil
}

func (e *Local) SetCoordinates(i int, coords []geom.Vec) error {
	if err := e.expect("SetCoordinates", stageAllocated); err != nil {
		return err
	}
	t, err := e.typeAt("SetCoordinates", i)
	if err != nil {
		return err
	}
	if len(coords) != t.atoms {
		return fmt.Errorf("SetCoordinates: type %d declared %d atoms, got %d", i, t.atoms, len(coords))
	}
	t.body = append(t.body[:0], coords...)
	return nil
}

func (e *Local) SetConstraint(i int, kind string, params []float64) error {
	if err := e.expect("SetConstraint", stageAllocated); err != nil {
		return err
	}
	t, err := e.typeAt("SetConstraint", i)
	if err != nil {
		return err
	}
	if len(t.body) != t.atoms {
		return fmt.Errorf("%w: SetConstraint before SetCoordinates for type %d", ErrSequence, i)
	}
	spec, err := constraint.Lookup(kind)
	if err != nil {
		return err
	}
	if len(params) != len(spec.Params) {
		return fmt.Errorf("SetConstraint: %s takes %d values, got %d", kind, len(spec.Params), len(params))
	}
	m := make(map[string]float64, len(params))
	for j, name := range spec.Params {
		m[name] = params[j]
	}
	c, err := constraint.Build(kind, m)
	if err != nil {
		return err
	}
	t.kind, t.region = c.Kind(), c.Region()
	return nil
}

func (e *Local) NormalizeToCenterOfMass() error {
	if err := e.expect("NormalizeToCenterOfMass", stageAllocated); err != nil {
		return err
	}
	for i := range e.types {
		t := &e.types[i]
		if len(t.body) != t.atoms {
			return fmt.Errorf("%w: NormalizeToCenterOfMass before SetCoordinates for type %d", ErrSequence, i)
		}
		t.body = geom.Translate(t.body, geom.Centroid(t.body).Scale(-1))
	}
	e.stage = stageCentered
	return nil
}

func (e *Local) PlaceFixed(i int, placement [6]float64) error {
	if err := e.expect("PlaceFixed", stageCentered); err != nil {
		return err
	}
	t, err := e.typeAt("PlaceFixed", i)
	if err != nil {
		return err
	}
	if !t.kind.IsFixed() {
		return fmt.Errorf("PlaceFixed: type %d has no fixed constraint", i)
	}
	if t.copies != 1 {
		return fmt.Errorf("PlaceFixed: fixed type %d must have one copy, has %d", i, t.copies)
	}
	t.placement = &placement
	return nil
}

// Run packs every type. Per-type failures are reported in the outcomes;
// the returned error is reserved for sequence errors and cancellation.
func (e *Local) Run(ctx context.Context) (map[int]Outcome, error) {
	if err := e.expect("Run", stageCentered); err != nil {
		return nil, err
	}
	for i, t := range e.types {
		if t.kind.IsFixed() && t.placement == nil {
			return nil, fmt.Errorf("%w: Run before PlaceFixed for type %d", ErrSequence, i)
		}
	}
	e.stage = stageDone

	s, err := safecast.Conv[uint64](e.seed)
	if err != nil {
		return nil, err
	}
	p := &packer{
		Local: e,
		rng:   rand.New(rand.NewPCG(s, s^0xdeadbeef)),
		grid:  newGrid(max(e.binSize, e.tol*e.params.Discale)),
		fixed: make(map[int]bool),
	}
	return p.run(ctx)
}

// =============================================================================
// Placement
// =============================================================================

type packer struct {
	*Local
	rng   *rand.Rand
	grid  *grid
	fixed map[int]bool
	next  int
}

func (p *packer) newMol(atoms []geom.Vec, fixed bool) int {
	id := p.next
	p.next++
	p.grid.insert(id, atoms)
	if fixed {
		p.fixed[id] = true
	}
	return id
}

func (p *packer) run(ctx context.Context) (map[int]Outcome, error) {
	out := make(map[int]Outcome, len(p.types))

	for i, t := range p.types {
		if t.placement == nil {
			continue
		}
		pl := *t.placement
		coords := geom.Place(t.body, geom.Euler(pl[3], pl[4], pl[5]), geom.V(pl[0], pl[1], pl[2]))
		p.newMol(coords, true)
		out[i] = Outcome{Success: true, Coordinates: coords}
		p.logger.Debug("fixed structure placed", "type", i, "x", pl[0], "y", pl[1], "z", pl[2])
	}

	placed := make(map[int][]int)
	coords := make(map[int][]geom.Vec)
	trials := make(map[int]int)
	failed := make(map[int]error)

	for _, i := range p.schedule() {
		if failed[i] != nil {
			continue
		}
		pos, n, err := p.placeCopy(ctx, i)
		trials[i] += n
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed[i] = fmt.Errorf("copy %d of %d: %w", len(placed[i])+1, p.types[i].copies, err)
			for _, id := range placed[i] {
				p.grid.remove(id)
			}
			placed[i], coords[i] = nil, nil
			p.logger.Debug("structure type failed", "type", i, "trials", trials[i], "err", err)
			continue
		}
		placed[i] = append(placed[i], p.newMol(pos, false))
		coords[i] = append(coords[i], pos...)
	}

	for i, t := range p.types {
		if t.placement != nil {
			continue
		}
		if err := failed[i]; err != nil {
			out[i] = Outcome{Iterations: trials[i], Err: err}
			continue
		}
		out[i] = Outcome{Success: true, Coordinates: coords[i], Iterations: trials[i]}
	}
	p.logger.Debug("run finished", "molecules", p.grid.len())
	return out, nil
}

// schedule lists one type index per copy to place. Types go one after the
// other unless PackAll interleaves them round-robin.
func (p *packer) schedule() []int {
	var order []int
	if !p.params.PackAll {
		for i, t := range p.types {
			if t.placement != nil {
				continue
			}
			for range t.copies {
				order = append(order, i)
			}
		}
		return order
	}
	left := make([]int, len(p.types))
	total := 0
	for i, t := range p.types {
		if t.placement == nil {
			left[i] = t.copies
			total += t.copies
		}
	}
	for len(order) < total {
		for i := range left {
			if left[i] > 0 {
				order = append(order, i)
				left[i]--
			}
		}
	}
	return order
}

var errBudget = errors.New("loop budget exhausted")

// placeCopy searches for one copy of type i. It returns the placed atoms and
// the number of trials used.
func (p *packer) placeCopy(ctx context.Context, i int) ([]geom.Vec, int, error) {
	t := &p.types[i]
	maxIt := p.params.MaxIterations
	initial := t.loop0 * maxIt
	total := (t.loop0 + t.loop) * maxIt
	sample := p.sampleBox(t.region)

	var cand []geom.Vec
	for trial := range total {
		if trial%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, trial, err
			}
		}
		tol := p.tol
		if trial < initial {
			tol *= p.params.Discale
		}

		if cand == nil {
			center := sample.Lerp(geom.V(p.rng.Float64(), p.rng.Float64(), p.rng.Float64()))
			rot := geom.Euler(p.angle(), p.angle(), p.angle())
			cand = geom.Place(t.body, rot, center)
		}
		if !inside(t.region, cand) {
			cand = nil
			continue
		}
		push, hits := p.repulsion(cand, tol)
		if hits == 0 {
			return cand, trial + 1, nil
		}
		step := push.Scale((1 + p.params.MoveFraction) / float64(hits))
		if step.Norm() < p.params.Precision*p.tol {
			cand = nil
			continue
		}
		cand = geom.Translate(cand, step)
	}
	return nil, total, errBudget
}

func (p *packer) angle() float64 { return 2 * math.Pi * p.rng.Float64() }

// repulsion sums the push needed to clear every atom of cand from the atoms
// of other molecules within tol. hits counts the offending pairs.
func (p *packer) repulsion(cand []geom.Vec, tol float64) (geom.Vec, int) {
	var push geom.Vec
	hits := 0
	for _, a := range cand {
		p.grid.neighbours(a, tol, func(ref atomRef, d float64) {
			if p.params.AllowFixedOverlap && p.fixed[ref.mol] {
				return
			}
			dir := a.Sub(ref.pos)
			if d == 0 {
				dir = geom.V(p.rng.NormFloat64(), p.rng.NormFloat64(), p.rng.NormFloat64())
			}
			w := 1.0
			if p.params.UseShortTol && d < p.short {
				w = p.scale
			}
			push = push.Add(dir.Unit().Scale((tol - d) * w))
			hits++
		})
	}
	return push, hits
}

// sampleBox returns the box candidate centres are drawn from: the region's
// bounds clipped to the ±SideMax cube, or the cube itself.
func (p *packer) sampleBox(r constraint.Region) geom.Box {
	limit := geom.Cube(geom.Vec{}, p.params.SideMax)
	if r == nil {
		return limit
	}
	b, ok := r.Bounds()
	if !ok {
		return limit
	}
	if clipped, ok := b.Intersect(limit); ok {
		return clipped
	}
	return limit
}

func inside(r constraint.Region, atoms []geom.Vec) bool {
	if r == nil {
		return true
	}
	for _, a := range atoms {
		if !r.Contains(a) {
			return false
		}
	}
	return true
}

var _ Engine = (*Local)(nil)
