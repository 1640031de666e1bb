// Package engine defines the solver boundary of a packing run.
//
// A packing session never places molecules itself. It derives control
// parameters and hands them to an [Engine] through a fixed call sequence:
//
//	DeclareTypeCount → SetSeed → SetTypeCounts (per type) →
//	SetTolerances → SetParameters → SetSpatialBinning →
//	Allocate → SetCoordinates (per type) → SetConstraint (per constrained type) →
//	NormalizeToCenterOfMass → PlaceFixed (per fixed type) → Run
//
// Structure types are addressed by their zero-based registration index.
//
// [Local] is an in-process reference engine; [Recorder] wraps any engine and
// records the calls it receives.
package engine

import (
	"context"
	"errors"

	"github.com/matzehuels/molpack/pkg/geom"
)

// ErrSequence is returned by engines that receive a call out of order.
var ErrSequence = errors.New("engine call out of sequence")

// Engine is the external optimisation engine.
type Engine interface {
	DeclareTypeCount(n int) error
	SetSeed(seed int64) error
	SetTypeCounts(i, copies, atoms, loopBudget, initialLoopBudget int) error
	SetTolerances(tolerance, shortTolDistance, shortTolScale float64) error
	SetParameters(p Parameters) error
	SetSpatialBinning(binSize float64) error
	Allocate() error
	SetCoordinates(i int, coords []geom.Vec) error
	SetConstraint(i int, kind string, params []float64) error
	NormalizeToCenterOfMass() error
	PlaceFixed(i int, placement [6]float64) error
	Run(ctx context.Context) (map[int]Outcome, error)
}

// Parameters are the solver knobs that do not depend on a structure type.
type Parameters struct {
	MaxIterations int
	Discale       float64
	SideMax       float64
	Precision     float64
	MoveFraction  float64

	PackAll           bool
	UseShortTol       bool
	AllowFixedOverlap bool
}

// Outcome is the engine's answer for one structure type.
type Outcome struct {
	Success bool

	// Coordinates holds Copies × Atoms points, copy-major, in the frame the
	// engine packed in.
	Coordinates []geom.Vec

	// Iterations is the number of trials the engine spent on the type.
	Iterations int

	// Err explains a failed placement.
	Err error
}
