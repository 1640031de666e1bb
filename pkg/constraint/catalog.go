package constraint

import (
	"slices"

	"github.com/matzehuels/molpack/pkg/errors"
)

// Kind names one entry of the constraint catalog.
type Kind string

// Catalog kinds.
const (
	KindFixed            Kind = "fixed"
	KindInsideCube       Kind = "inside_cube"
	KindInsideBox        Kind = "inside_box"
	KindInsideSphere     Kind = "inside_sphere"
	KindInsideEllipsoid  Kind = "inside_ellipsoid"
	KindOutsideCube      Kind = "outside_cube"
	KindOutsideBox       Kind = "outside_box"
	KindOutsideSphere    Kind = "outside_sphere"
	KindOutsideEllipsoid Kind = "outside_ellipsoid"
	KindOutsideCylinder  Kind = "outside_cylinder"
	KindOverPlane        Kind = "over_plane"
	KindOverXYGauss      Kind = "over_xygauss"
	KindBelowPlane       Kind = "below_plane"
	KindBelowXYGauss     Kind = "below_xygauss"
)

// Spec describes one catalog entry.
type Spec struct {
	Kind        Kind
	Params      []string // ordered parameter names
	Description string
}

var catalog = []Spec{
	{KindFixed, []string{"x", "y", "z", "a", "b", "g"}, "single copy at (x,y,z) rotated by Euler angles a,b,g (radians)"},
	{KindInsideCube, []string{"x_min", "y_min", "z_min", "d"}, "cube of side d anchored at the minimum corner"},
	{KindInsideBox, []string{"x_min", "y_min", "z_min", "x_max", "y_max", "z_max"}, "axis-aligned box between two corners"},
	{KindInsideSphere, []string{"x", "y", "z", "r", "d"}, "sphere of radius r, boundary widened by d"},
	{KindInsideEllipsoid, []string{"a1", "b1", "c1", "a2", "b2", "c2", "d"}, "ellipsoid centred at (a1,b1,c1) with semi-axes (a2,b2,c2), level d"},
	{KindOutsideCube, []string{"x_min", "y_min", "z_min", "d"}, "complement of inside_cube"},
	{KindOutsideBox, []string{"x_min", "y_min", "z_min", "x_max", "y_max", "z_max"}, "complement of inside_box"},
	{KindOutsideSphere, []string{"x", "y", "z", "r", "d"}, "outside a sphere of radius r, boundary narrowed by d"},
	{KindOutsideEllipsoid, []string{"a1", "b1", "c1", "a2", "b2", "c2", "d"}, "outside an ellipsoid"},
	{KindOutsideCylinder, []string{"a1", "b1", "c1", "a2", "b2", "c2", "d", "l"}, "outside a cylinder from (a1,b1,c1) along (a2,b2,c2), radius d, length l"},
	{KindOverPlane, []string{"a", "b", "c", "d"}, "half-space a·x + b·y + c·z ≥ d"},
	{KindOverXYGauss, []string{"a1", "b1", "a2", "b2", "c", "h"}, "above the surface z = c + h·exp(-(x-a1)²/2a2² - (y-b1)²/2b2²)"},
	{KindBelowPlane, []string{"a", "b", "c", "d"}, "half-space a·x + b·y + c·z ≤ d"},
	{KindBelowXYGauss, []string{"a1", "b1", "a2", "b2", "c", "h"}, "below the Gaussian surface"},
}

// Kinds returns every catalog kind in catalog order.
func Kinds() []Kind {
	out := make([]Kind, len(catalog))
	for i, s := range catalog {
		out[i] = s.Kind
	}
	return out
}

// Catalog returns a copy of every catalog entry in catalog order.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	for i, s := range catalog {
		out[i] = Spec{Kind: s.Kind, Params: slices.Clone(s.Params), Description: s.Description}
	}
	return out
}

// Lookup resolves a kind name.
func Lookup(name string) (Spec, error) {
	for _, s := range catalog {
		if string(s.Kind) == name {
			return Spec{Kind: s.Kind, Params: slices.Clone(s.Params), Description: s.Description}, nil
		}
	}
	return Spec{}, errors.New(errors.ErrCodeUnknownConstraintKind, "unknown constraint kind %q", name)
}

// Schema returns the ordered parameter names for kind.
func Schema(kind Kind) ([]string, error) {
	s, err := Lookup(string(kind))
	if err != nil {
		return nil, err
	}
	return s.Params, nil
}

// IsFixed reports whether kind pins a single copy instead of restricting a search.
func (k Kind) IsFixed() bool { return k == KindFixed }
