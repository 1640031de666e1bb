// Package structure models the molecule templates that get packed.
//
// A [Template] is one molecule in its own local frame plus how many copies
// of it to place. A [Registry] keeps templates in registration order and by
// name; the order defines the structure-type index used for every engine
// call.
package structure

import (
	"slices"

	"github.com/matzehuels/molpack/pkg/constraint"
	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/geom"
)

// Bond connects two atoms of the same template by index.
type Bond struct {
	I int `json:"i" toml:"i" yaml:"i"`
	J int `json:"j" toml:"j" yaml:"j"`
}

// Orientation is a position plus Euler angles (radians), the 6-tuple
// (x, y, z, a, b, g) used for fixed placements.
type Orientation struct {
	Position geom.Vec
	Angles   geom.Vec
}

// Tuple returns (x, y, z, a, b, g).
func (o Orientation) Tuple() [6]float64 {
	return [6]float64{o.Position.X, o.Position.Y, o.Position.Z, o.Angles.X, o.Angles.Y, o.Angles.Z}
}

// Template is one molecule type and its replication count.
type Template struct {
	Name        string
	Coordinates []geom.Vec
	Bonds       []Bond
	Copies      int

	// LoopBudget and InitialLoopBudget cap the engine's search for this type.
	// Zero inherits the session-wide value.
	LoopBudget        int
	InitialLoopBudget int

	Constraint *constraint.Constraint

	// FixedOrientation overrides the constraint's own position and angles.
	// Only valid with a fixed constraint.
	FixedOrientation *Orientation
}

// AtomCount returns the number of atoms in one copy.
func (t *Template) AtomCount() int { return len(t.Coordinates) }

// TotalAtoms returns AtomCount × Copies.
func (t *Template) TotalAtoms() int { return t.AtomCount() * t.Copies }

// IsFixed reports whether the template carries a fixed constraint.
func (t *Template) IsFixed() bool {
	return t.Constraint != nil && t.Constraint.Kind().IsFixed()
}

// Validate checks the template invariants.
func (t *Template) Validate() error {
	if err := errors.ValidateName(t.Name); err != nil {
		return err
	}
	if t.Copies < 1 {
		return errors.Validation("copies", "structure %q needs at least one copy, got %d", t.Name, t.Copies)
	}
	if t.AtomCount() < 1 {
		return errors.Validation("coordinates", "structure %q has no atoms", t.Name)
	}
	for i, p := range t.Coordinates {
		if !p.IsFinite() {
			return errors.Validation("coordinates", "structure %q atom %d is not finite", t.Name, i)
		}
	}
	n := t.AtomCount()
	for _, b := range t.Bonds {
		if b.I < 0 || b.I >= n || b.J < 0 || b.J >= n {
			return errors.Validation("bonds", "structure %q bond (%d,%d) outside 0..%d", t.Name, b.I, b.J, n-1)
		}
		if b.I == b.J {
			return errors.Validation("bonds", "structure %q bonds atom %d to itself", t.Name, b.I)
		}
	}
	if err := errors.ValidateNonNegative("loop_budget", t.LoopBudget); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("initial_loop_budget", t.InitialLoopBudget); err != nil {
		return err
	}
	if t.IsFixed() && t.Copies != 1 {
		return errors.Validation("copies", "fixed structure %q must have exactly one copy, got %d", t.Name, t.Copies)
	}
	if t.FixedOrientation != nil && !t.IsFixed() {
		return errors.Validation("fixed_orientation", "structure %q sets a fixed orientation without a fixed constraint", t.Name)
	}
	return nil
}

// CenterOfMass returns the centroid of the template's atoms. Templates carry
// no masses, so every atom weighs the same.
func (t *Template) CenterOfMass() geom.Vec { return geom.Centroid(t.Coordinates) }

// Centered returns the coordinates translated so the centroid is the origin.
func (t *Template) Centered() []geom.Vec {
	return geom.Translate(t.Coordinates, t.CenterOfMass().Scale(-1))
}

// Placement returns the 6-tuple for a fixed template: FixedOrientation when
// set, otherwise the constraint's own parameters. ok is false for templates
// that are not fixed.
func (t *Template) Placement() (pos [6]float64, ok bool) {
	if !t.IsFixed() {
		return pos, false
	}
	if t.FixedOrientation != nil {
		return t.FixedOrientation.Tuple(), true
	}
	return t.Constraint.Region().(constraint.Fixed).Tuple(), true
}

// Clone returns a deep copy. The constraint is shared; it is immutable.
func (t *Template) Clone() *Template {
	c := *t
	c.Coordinates = slices.Clone(t.Coordinates)
	c.Bonds = slices.Clone(t.Bonds)
	if t.FixedOrientation != nil {
		o := *t.FixedOrientation
		c.FixedOrientation = &o
	}
	return &c
}
