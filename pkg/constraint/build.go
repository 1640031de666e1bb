package constraint

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/geom"
)

// Constraint is an immutable, validated catalog instance.
type Constraint struct {
	kind   Kind
	params map[string]float64
	region Region
}

// Build validates params against the schema of kind and returns the
// constraint. The params map is copied, never retained or modified.
func Build(kind string, params map[string]float64) (*Constraint, error) {
	spec, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	if err := checkKeys(spec, params); err != nil {
		return nil, err
	}
	for _, name := range spec.Params {
		if err := errors.ValidateFinite(name, params[name]); err != nil {
			return nil, invalid(spec.Kind, name, "must be finite, got %v", params[name])
		}
	}

	region, err := newRegion(spec.Kind, params)
	if err != nil {
		return nil, err
	}
	return &Constraint{
		kind:   spec.Kind,
		params: maps.Clone(params),
		region: region,
	}, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// package-level fixtures.
func MustBuild(kind string, params map[string]float64) *Constraint {
	c, err := Build(kind, params)
	if err != nil {
		panic(err)
	}
	return c
}

// Kind returns the catalog kind.
func (c *Constraint) Kind() Kind { return c.kind }

// Region returns the typed geometry.
func (c *Constraint) Region() Region { return c.region }

// Contains reports whether p satisfies the constraint.
func (c *Constraint) Contains(p geom.Vec) bool { return c.region.Contains(p) }

// Params returns a copy of the parameter map.
func (c *Constraint) Params() map[string]float64 { return maps.Clone(c.params) }

// Param returns one parameter value.
func (c *Constraint) Param(name string) (float64, bool) {
	v, ok := c.params[name]
	return v, ok
}

// Values returns the parameter values in schema order.
func (c *Constraint) Values() []float64 {
	names, _ := Schema(c.kind)
	out := make([]float64, len(names))
	for i, n := range names {
		out[i] = c.params[n]
	}
	return out
}

// String renders the constraint the way it would appear in a packing input,
// e.g. "inside_sphere 0 0 0 20 0".
func (c *Constraint) String() string {
	var b strings.Builder
	b.WriteString(string(c.kind))
	for _, v := range c.Values() {
		fmt.Fprintf(&b, " %g", v)
	}
	return b.String()
}

// checkKeys rejects missing and extra keys, listing both sorted.
func checkKeys(spec Spec, params map[string]float64) error {
	var missing, extra []string
	for _, name := range spec.Params {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(params)) {
		if !slices.Contains(spec.Params, name) {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	slices.Sort(missing)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(extra, ", "))
	}
	return errors.New(errors.ErrCodeInvalidConstraintParam,
		"%s expects {%s}: %s", spec.Kind, strings.Join(spec.Params, ", "), strings.Join(parts, "; "))
}

func invalid(kind Kind, field, format string, args ...any) error {
	e := errors.New(errors.ErrCodeInvalidConstraintParam, "%s: "+format, append([]any{kind}, args...)...)
	e.Field = field
	return e
}

func newRegion(kind Kind, p map[string]float64) (Region, error) {
	switch kind {
	case KindFixed:
		return Fixed{
			Position: geom.V(p["x"], p["y"], p["z"]),
			Angles:   geom.V(p["a"], p["b"], p["g"]),
		}, nil

	case KindInsideCube, KindOutsideCube:
		if p["d"] <= 0 {
			return nil, invalid(kind, "d", "cube side must be positive, got %g", p["d"])
		}
		return Cube{
			Min:    geom.V(p["x_min"], p["y_min"], p["z_min"]),
			Side:   p["d"],
			Inside: kind == KindInsideCube,
		}, nil

	case KindInsideBox, KindOutsideBox:
		lo := geom.V(p["x_min"], p["y_min"], p["z_min"])
		hi := geom.V(p["x_max"], p["y_max"], p["z_max"])
		for i, axis := range []string{"x", "y", "z"} {
			if hi.Component(i) <= lo.Component(i) {
				return nil, invalid(kind, axis+"_max", "%s_max must exceed %s_min", axis, axis)
			}
		}
		return Box{Min: lo, Max: hi, Inside: kind == KindInsideBox}, nil

	case KindInsideSphere, KindOutsideSphere:
		if p["r"] <= 0 {
			return nil, invalid(kind, "r", "radius must be positive, got %g", p["r"])
		}
		if p["d"] < 0 {
			return nil, invalid(kind, "d", "margin must not be negative, got %g", p["d"])
		}
		return Sphere{
			Center: geom.V(p["x"], p["y"], p["z"]),
			Radius: p["r"],
			Margin: p["d"],
			Inside: kind == KindInsideSphere,
		}, nil

	case KindInsideEllipsoid, KindOutsideEllipsoid:
		axes := geom.V(p["a2"], p["b2"], p["c2"])
		for i, name := range []string{"a2", "b2", "c2"} {
			if axes.Component(i) == 0 {
				return nil, invalid(kind, name, "semi-axis must be non-zero")
			}
		}
		if p["d"] <= 0 {
			return nil, invalid(kind, "d", "level must be positive, got %g", p["d"])
		}
		return Ellipsoid{
			Center: geom.V(p["a1"], p["b1"], p["c1"]),
			Axes:   axes,
			Level:  p["d"],
			Inside: kind == KindInsideEllipsoid,
		}, nil

	case KindOutsideCylinder:
		axis := geom.V(p["a2"], p["b2"], p["c2"])
		if axis.IsZero() {
			return nil, invalid(kind, "a2", "axis direction must be non-zero")
		}
		if p["d"] <= 0 {
			return nil, invalid(kind, "d", "radius must be positive, got %g", p["d"])
		}
		if p["l"] <= 0 {
			return nil, invalid(kind, "l", "length must be positive, got %g", p["l"])
		}
		return Cylinder{
			Origin: geom.V(p["a1"], p["b1"], p["c1"]),
			Axis:   axis.Unit(),
			Radius: p["d"],
			Length: p["l"],
		}, nil

	case KindOverPlane, KindBelowPlane:
		n := geom.V(p["a"], p["b"], p["c"])
		if n.IsZero() {
			return nil, invalid(kind, "a", "plane normal must be non-zero")
		}
		return Plane{Normal: n, Offset: p["d"], Over: kind == KindOverPlane}, nil

	case KindOverXYGauss, KindBelowXYGauss:
		if p["a2"] == 0 || p["b2"] == 0 {
			field := "a2"
			if p["a2"] != 0 {
				field = "b2"
			}
			return nil, invalid(kind, field, "gaussian width must be non-zero")
		}
		return XYGauss{
			Center: geom.V(p["a1"], p["b1"], 0),
			Width:  geom.V(p["a2"], p["b2"], 0),
			Base:   p["c"],
			Height: p["h"],
			Over:   kind == KindOverXYGauss,
		}, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "catalog kind %q has no region", kind)
}
