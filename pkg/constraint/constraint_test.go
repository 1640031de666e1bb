package constraint

import (
	"math"
	"testing"

	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/geom"
)

// validParams holds one well-formed parameter set per catalog kind.
var validParams = map[Kind]map[string]float64{
	KindFixed:            {"x": 1, "y": 2, "z": 3, "a": 0, "b": 0, "g": 0},
	KindInsideCube:       {"x_min": 0, "y_min": 0, "z_min": 0, "d": 10},
	KindInsideBox:        {"x_min": 0, "y_min": 0, "z_min": 0, "x_max": 10, "y_max": 20, "z_max": 30},
	KindInsideSphere:     {"x": 0, "y": 0, "z": 0, "r": 2, "d": 0.5},
	KindInsideEllipsoid:  {"a1": 0, "b1": 0, "c1": 0, "a2": 2, "b2": 3, "c2": 4, "d": 1},
	KindOutsideCube:      {"x_min": 0, "y_min": 0, "z_min": 0, "d": 10},
	KindOutsideBox:       {"x_min": 0, "y_min": 0, "z_min": 0, "x_max": 10, "y_max": 20, "z_max": 30},
	KindOutsideSphere:    {"x": 0, "y": 0, "z": 0, "r": 2, "d": 0.5},
	KindOutsideEllipsoid: {"a1": 0, "b1": 0, "c1": 0, "a2": 2, "b2": 3, "c2": 4, "d": 1},
	KindOutsideCylinder:  {"a1": 0, "b1": 0, "c1": 0, "a2": 0, "b2": 0, "c2": 2, "d": 1, "l": 5},
	KindOverPlane:        {"a": 0, "b": 0, "c": 1, "d": 2},
	KindOverXYGauss:      {"a1": 0, "b1": 0, "a2": 1, "b2": 1, "c": 0, "h": 3},
	KindBelowPlane:       {"a": 0, "b": 0, "c": 1, "d": 2},
	KindBelowXYGauss:     {"a1": 0, "b1": 0, "a2": 1, "b2": 1, "c": 0, "h": 3},
}

func TestCatalog(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 14 {
		t.Fatalf("catalog has %d kinds, want 14", len(kinds))
	}
	if kinds[0] != KindFixed || kinds[13] != KindBelowXYGauss {
		t.Errorf("catalog order changed: first=%s last=%s", kinds[0], kinds[13])
	}
	for _, k := range kinds {
		if _, ok := validParams[k]; !ok {
			t.Errorf("no fixture for kind %s", k)
		}
	}

	schema, err := Schema(KindInsideSphere)
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	want := []string{"x", "y", "z", "r", "d"}
	for i := range want {
		if schema[i] != want[i] {
			t.Errorf("schema[%d] = %s, want %s", i, schema[i], want[i])
		}
	}

	// Mutating a returned schema must not leak into the catalog.
	schema[0] = "mutated"
	again, _ := Schema(KindInsideSphere)
	if again[0] != "x" {
		t.Error("Schema returned shared slice")
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, name := range []string{"", "inside_cylinder", "INSIDE_BOX", "sphere"} {
		_, err := Lookup(name)
		if !errors.Is(err, errors.ErrCodeUnknownConstraintKind) {
			t.Errorf("Lookup(%q) err = %v, want UNKNOWN_CONSTRAINT_KIND", name, err)
		}
	}
}

func TestBuildAllKinds(t *testing.T) {
	for kind, params := range validParams {
		t.Run(string(kind), func(t *testing.T) {
			c, err := Build(string(kind), params)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if c.Kind() != kind {
				t.Errorf("Kind = %s", c.Kind())
			}
			if len(c.Values()) != len(params) {
				t.Errorf("Values has %d entries, want %d", len(c.Values()), len(params))
			}
		})
	}
}

func TestBuildRejectsKeyMismatch(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		params map[string]float64
		code   errors.Code
	}{
		{"unknown kind", "inside_torus", map[string]float64{"r": 1}, errors.ErrCodeUnknownConstraintKind},
		{"missing key", "inside_sphere", map[string]float64{"x": 0, "y": 0, "z": 0, "r": 1}, errors.ErrCodeInvalidConstraintParam},
		{"extra key", "over_plane", map[string]float64{"a": 0, "b": 0, "c": 1, "d": 0, "e": 1}, errors.ErrCodeInvalidConstraintParam},
		{"empty", "inside_box", map[string]float64{}, errors.ErrCodeInvalidConstraintParam},
		{"nil map", "fixed", nil, errors.ErrCodeInvalidConstraintParam},
		{"wrong schema", "inside_cube", map[string]float64{"x": 0, "y": 0, "z": 0, "d": 1}, errors.ErrCodeInvalidConstraintParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.kind, tt.params)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildRejectsDegenerateValues(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		patch map[string]float64
		field string
	}{
		{"zero cube side", KindInsideCube, map[string]float64{"d": 0}, "d"},
		{"inverted box", KindInsideBox, map[string]float64{"y_max": -1}, "y_max"},
		{"zero radius", KindOutsideSphere, map[string]float64{"r": 0}, "r"},
		{"negative margin", KindInsideSphere, map[string]float64{"d": -0.1}, "d"},
		{"flat ellipsoid", KindInsideEllipsoid, map[string]float64{"b2": 0}, "b2"},
		{"zero axis", KindOutsideCylinder, map[string]float64{"c2": 0}, "a2"},
		{"zero length", KindOutsideCylinder, map[string]float64{"l": 0}, "l"},
		{"zero normal", KindBelowPlane, map[string]float64{"c": 0}, "a"},
		{"zero width", KindOverXYGauss, map[string]float64{"b2": 0}, "b2"},
		{"nan", KindFixed, map[string]float64{"x": math.NaN()}, "x"},
		{"inf", KindOverPlane, map[string]float64{"d": math.Inf(-1)}, "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := make(map[string]float64)
			for k, v := range validParams[tt.kind] {
				params[k] = v
			}
			for k, v := range tt.patch {
				params[k] = v
			}
			_, err := Build(string(tt.kind), params)
			if !errors.Is(err, errors.ErrCodeInvalidConstraintParam) {
				t.Fatalf("Build err = %v, want INVALID_CONSTRAINT_PARAMETERS", err)
			}
			if got := errors.FieldOf(err); got != tt.field {
				t.Errorf("Field = %q, want %q", got, tt.field)
			}
		})
	}
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	params := map[string]float64{"x": 0, "y": 0, "z": 0, "r": 2, "d": 0}
	c, err := Build("inside_sphere", params)
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 5 || params["r"] != 2 {
		t.Error("Build modified its input")
	}

	params["r"] = 100
	if v, _ := c.Param("r"); v != 2 {
		t.Errorf("constraint follows caller map: r = %v", v)
	}

	out := c.Params()
	out["r"] = 50
	if v, _ := c.Param("r"); v != 2 {
		t.Errorf("Params returned internal map: r = %v", v)
	}
}

func TestSphereBoundary(t *testing.T) {
	in := MustBuild("inside_sphere", validParams[KindInsideSphere])
	out := MustBuild("outside_sphere", validParams[KindOutsideSphere])

	tests := []struct {
		name    string
		p       geom.Vec
		inside  bool
		outside bool
	}{
		{"centre", geom.V(0, 0, 0), true, false},
		{"outer band edge", geom.V(2.5, 0, 0), true, true},
		{"just beyond band", geom.V(2.5+1e-9, 0, 0), false, true},
		{"inner band edge", geom.V(0, 1.5, 0), true, true},
		{"just inside band", geom.V(0, 1.5-1e-9, 0), true, false},
		{"far", geom.V(0, 0, 100), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				if got := in.Contains(tt.p); got != tt.inside {
					t.Errorf("inside(%v) = %v, want %v", tt.p, got, tt.inside)
				}
				if got := out.Contains(tt.p); got != tt.outside {
					t.Errorf("outside(%v) = %v, want %v", tt.p, got, tt.outside)
				}
			}
		})
	}
}

func TestCubeAndBoxHalfOpen(t *testing.T) {
	cube := MustBuild("inside_cube", validParams[KindInsideCube])
	box := MustBuild("inside_box", validParams[KindInsideBox])

	if !cube.Contains(geom.V(0, 0, 0)) {
		t.Error("cube should include its minimum corner")
	}
	if cube.Contains(geom.V(10, 5, 5)) {
		t.Error("cube should exclude its maximum face")
	}
	if !box.Contains(geom.V(9.999, 19.999, 29.999)) {
		t.Error("box should include points just under the maximum corner")
	}
	if box.Contains(geom.V(5, 20, 5)) {
		t.Error("box should exclude its maximum face")
	}
}

func TestEllipsoid(t *testing.T) {
	in := MustBuild("inside_ellipsoid", validParams[KindInsideEllipsoid])
	out := MustBuild("outside_ellipsoid", validParams[KindOutsideEllipsoid])

	surface := geom.V(0, 3, 0)
	if !in.Contains(surface) || !out.Contains(surface) {
		t.Error("both senses should include the surface")
	}
	if !in.Contains(geom.V(1.9, 0, 0)) || out.Contains(geom.V(1.9, 0, 0)) {
		t.Error("point inside along the a-axis misclassified")
	}
	if in.Contains(geom.V(0, 0, 4.1)) || !out.Contains(geom.V(0, 0, 4.1)) {
		t.Error("point outside along the c-axis misclassified")
	}
}

func TestOutsideCylinder(t *testing.T) {
	c := MustBuild("outside_cylinder", validParams[KindOutsideCylinder])

	tests := []struct {
		p    geom.Vec
		want bool
	}{
		{geom.V(0, 0, 2.5), false}, // on the axis
		{geom.V(0.5, 0, 4), false}, // within radius
		{geom.V(1.5, 0, 2), true},  // beyond radius
		{geom.V(0, 0, -0.1), true}, // before the start cap
		{geom.V(0, 0, 5.1), true},  // past the end cap
		{geom.V(0, 1, 2), false},   // on the surface counts as inside
	}
	for _, tt := range tests {
		if got := c.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPlaneAndGauss(t *testing.T) {
	over := MustBuild("over_plane", validParams[KindOverPlane])
	below := MustBuild("below_plane", validParams[KindBelowPlane])

	if !over.Contains(geom.V(5, 5, 2)) || !below.Contains(geom.V(5, 5, 2)) {
		t.Error("a point on the plane satisfies both senses")
	}
	if !over.Contains(geom.V(0, 0, 3)) || below.Contains(geom.V(0, 0, 3)) {
		t.Error("point above the plane misclassified")
	}

	gOver := MustBuild("over_xygauss", validParams[KindOverXYGauss])
	gBelow := MustBuild("below_xygauss", validParams[KindBelowXYGauss])

	// Peak of the bump is z = 3 at the origin; far away the surface is z = 0.
	if gOver.Contains(geom.V(0, 0, 2.9)) || !gBelow.Contains(geom.V(0, 0, 2.9)) {
		t.Error("point under the peak misclassified")
	}
	if !gOver.Contains(geom.V(10, 10, 0.1)) {
		t.Error("point above the flat tail should be over the surface")
	}
	peak := gOver.Region().(XYGauss).Surface(0, 0)
	if peak != 3 {
		t.Errorf("surface at centre = %v, want 3", peak)
	}
}

func TestFixedRegion(t *testing.T) {
	c := MustBuild("fixed", map[string]float64{"x": 1, "y": 2, "z": 3, "a": 0.1, "b": 0.2, "g": 0.3})
	f, ok := c.Region().(Fixed)
	if !ok {
		t.Fatalf("region type %T, want Fixed", c.Region())
	}
	if f.Tuple() != [6]float64{1, 2, 3, 0.1, 0.2, 0.3} {
		t.Errorf("Tuple = %v", f.Tuple())
	}
	if !c.Contains(geom.V(1, 2, 3)) || c.Contains(geom.V(1, 2, 3.0001)) {
		t.Error("fixed membership should hold only at the position")
	}
}

// TestComplementPairs checks that each inside/outside and over/below pair
// classifies every sampled point into exactly one side, unless the point sits
// in the pair's shared boundary band.
func TestComplementPairs(t *testing.T) {
	pairs := []struct {
		a, b   Kind
		inBand func(p geom.Vec) bool
	}{
		{KindInsideCube, KindOutsideCube, func(geom.Vec) bool { return false }},
		{KindInsideBox, KindOutsideBox, func(geom.Vec) bool { return false }},
		{KindInsideSphere, KindOutsideSphere, func(p geom.Vec) bool {
			d := p.Norm()
			return d >= 1.5 && d <= 2.5
		}},
		{KindInsideEllipsoid, KindOutsideEllipsoid, func(p geom.Vec) bool {
			e := Ellipsoid{Axes: geom.V(2, 3, 4), Level: 1}
			return e.Quadric(p) == 1
		}},
		{KindOverPlane, KindBelowPlane, func(p geom.Vec) bool { return p.Z == 2 }},
		{KindOverXYGauss, KindBelowXYGauss, func(p geom.Vec) bool {
			g := XYGauss{Width: geom.V(1, 1, 0), Height: 3}
			return p.Z == g.Surface(p.X, p.Y)
		}},
	}

	for _, pair := range pairs {
		t.Run(string(pair.a), func(t *testing.T) {
			a := MustBuild(string(pair.a), validParams[pair.a])
			b := MustBuild(string(pair.b), validParams[pair.b])
			for x := -12.0; x <= 12; x += 0.75 {
				for y := -12.0; y <= 24; y += 1.25 {
					for z := -6.0; z <= 32; z += 1.5 {
						p := geom.V(x, y, z)
						if pair.inBand(p) {
							if !a.Contains(p) || !b.Contains(p) {
								t.Fatalf("%v in band should satisfy both", p)
							}
							continue
						}
						if a.Contains(p) == b.Contains(p) {
							t.Fatalf("%v: %s=%v %s=%v, want exactly one", p, pair.a, a.Contains(p), pair.b, b.Contains(p))
						}
					}
				}
			}
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		kind   Kind
		finite bool
		want   geom.Box
	}{
		{KindInsideCube, true, geom.Box{Min: geom.V(0, 0, 0), Max: geom.V(10, 10, 10)}},
		{KindInsideSphere, true, geom.Box{Min: geom.V(-2.5, -2.5, -2.5), Max: geom.V(2.5, 2.5, 2.5)}},
		{KindInsideEllipsoid, true, geom.Box{Min: geom.V(-2, -3, -4), Max: geom.V(2, 3, 4)}},
		{KindOutsideBox, false, geom.Box{}},
		{KindOverPlane, false, geom.Box{}},
		{KindOutsideCylinder, false, geom.Box{}},
	}
	for _, tt := range tests {
		b, ok := MustBuild(string(tt.kind), validParams[tt.kind]).Region().Bounds()
		if ok != tt.finite {
			t.Errorf("%s: finite = %v, want %v", tt.kind, ok, tt.finite)
			continue
		}
		if ok && b != tt.want {
			t.Errorf("%s: bounds = %v, want %v", tt.kind, b, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	c := MustBuild("inside_box", validParams[KindInsideBox])
	if got, want := c.String(), "inside_box 0 0 0 10 20 30"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
