package constraint

import (
	"math"

	"github.com/matzehuels/molpack/pkg/geom"
)

// Region is the typed geometry behind a constraint.
//
// Contains is pure: the same point always gives the same answer. Bounds
// returns a finite box enclosing every member point when one exists; the
// engine samples candidate positions from it.
type Region interface {
	Contains(p geom.Vec) bool
	Bounds() (geom.Box, bool)
}

// Fixed pins a single copy at Position with Euler angles Angles (radians).
type Fixed struct {
	Position geom.Vec
	Angles   geom.Vec
}

// Contains holds only at the exact position.
func (f Fixed) Contains(p geom.Vec) bool { return p == f.Position }

func (f Fixed) Bounds() (geom.Box, bool) { return geom.Box{Min: f.Position, Max: f.Position}, true }

// Tuple returns (x, y, z, a, b, g).
func (f Fixed) Tuple() [6]float64 {
	return [6]float64{f.Position.X, f.Position.Y, f.Position.Z, f.Angles.X, f.Angles.Y, f.Angles.Z}
}

// Cube is the cube [Min, Min+Side) on every axis.
type Cube struct {
	Min    geom.Vec
	Side   float64
	Inside bool
}

func (c Cube) Contains(p geom.Vec) bool {
	in := halfOpen(p.X, c.Min.X, c.Min.X+c.Side) &&
		halfOpen(p.Y, c.Min.Y, c.Min.Y+c.Side) &&
		halfOpen(p.Z, c.Min.Z, c.Min.Z+c.Side)
	return in == c.Inside
}

func (c Cube) Bounds() (geom.Box, bool) {
	if !c.Inside {
		return geom.Box{}, false
	}
	return geom.Box{Min: c.Min, Max: c.Min.Add(geom.V(c.Side, c.Side, c.Side))}, true
}

// Box is the box [Min, Max) on every axis.
type Box struct {
	Min    geom.Vec
	Max    geom.Vec
	Inside bool
}

func (b Box) Contains(p geom.Vec) bool {
	in := halfOpen(p.X, b.Min.X, b.Max.X) &&
		halfOpen(p.Y, b.Min.Y, b.Max.Y) &&
		halfOpen(p.Z, b.Min.Z, b.Max.Z)
	return in == b.Inside
}

func (b Box) Bounds() (geom.Box, bool) {
	if !b.Inside {
		return geom.Box{}, false
	}
	return geom.Box{Min: b.Min, Max: b.Max}, true
}

// Sphere is the ball of radius Radius about Center. Margin widens the inside
// test and narrows the outside test by the same amount.
type Sphere struct {
	Center geom.Vec
	Radius float64
	Margin float64
	Inside bool
}

func (s Sphere) Contains(p geom.Vec) bool {
	d := p.Dist(s.Center)
	if s.Inside {
		return d <= s.Radius+s.Margin
	}
	return d >= s.Radius-s.Margin
}

func (s Sphere) Bounds() (geom.Box, bool) {
	if !s.Inside {
		return geom.Box{}, false
	}
	return geom.Cube(s.Center, s.Radius+s.Margin), true
}

// Ellipsoid is the set Σ((p_i - Center_i)/Axes_i)² ≤ Level.
type Ellipsoid struct {
	Center geom.Vec
	Axes   geom.Vec
	Level  float64
	Inside bool
}

// Quadric evaluates Σ((p_i - Center_i)/Axes_i)².
func (e Ellipsoid) Quadric(p geom.Vec) float64 {
	dx := (p.X - e.Center.X) / e.Axes.X
	dy := (p.Y - e.Center.Y) / e.Axes.Y
	dz := (p.Z - e.Center.Z) / e.Axes.Z
	return dx*dx + dy*dy + dz*dz
}

func (e Ellipsoid) Contains(p geom.Vec) bool {
	q := e.Quadric(p)
	if e.Inside {
		return q <= e.Level
	}
	return q >= e.Level
}

func (e Ellipsoid) Bounds() (geom.Box, bool) {
	if !e.Inside {
		return geom.Box{}, false
	}
	s := math.Sqrt(e.Level)
	half := geom.V(math.Abs(e.Axes.X)*s, math.Abs(e.Axes.Y)*s, math.Abs(e.Axes.Z)*s)
	return geom.Box{Min: e.Center.Sub(half), Max: e.Center.Add(half)}, true
}

// Cylinder is the complement of a finite cylinder that starts at Origin,
// runs Length along Axis (unit vector) and has radius Radius.
type Cylinder struct {
	Origin geom.Vec
	Axis   geom.Vec
	Radius float64
	Length float64
}

func (c Cylinder) Contains(p geom.Vec) bool {
	rel := p.Sub(c.Origin)
	t := rel.Dot(c.Axis)
	if t < 0 || t > c.Length {
		return true
	}
	radial := rel.Sub(c.Axis.Scale(t)).Norm()
	return radial > c.Radius
}

func (c Cylinder) Bounds() (geom.Box, bool) { return geom.Box{}, false }

// Plane is the half-space Normal·p ≥ Offset (Over) or ≤ Offset (below).
type Plane struct {
	Normal geom.Vec
	Offset float64
	Over   bool
}

// Signed returns Normal·p - Offset.
func (pl Plane) Signed(p geom.Vec) float64 { return pl.Normal.Dot(p) - pl.Offset }

func (pl Plane) Contains(p geom.Vec) bool {
	if pl.Over {
		return pl.Signed(p) >= 0
	}
	return pl.Signed(p) <= 0
}

func (pl Plane) Bounds() (geom.Box, bool) { return geom.Box{}, false }

// XYGauss is the region above (Over) or below the surface
// z = Base + Height·exp(-(x-Center.X)²/(2·Width.X²) - (y-Center.Y)²/(2·Width.Y²)).
// Center and Width use only their X and Y components.
type XYGauss struct {
	Center geom.Vec
	Width  geom.Vec
	Base   float64
	Height float64
	Over   bool
}

// Surface returns the height of the surface above (x, y).
func (g XYGauss) Surface(x, y float64) float64 {
	dx := x - g.Center.X
	dy := y - g.Center.Y
	e := dx*dx/(2*g.Width.X*g.Width.X) + dy*dy/(2*g.Width.Y*g.Width.Y)
	return g.Base + g.Height*math.Exp(-e)
}

func (g XYGauss) Contains(p geom.Vec) bool {
	s := g.Surface(p.X, p.Y)
	if g.Over {
		return p.Z >= s
	}
	return p.Z <= s
}

func (g XYGauss) Bounds() (geom.Box, bool) { return geom.Box{}, false }

func halfOpen(v, lo, hi float64) bool { return v >= lo && v < hi }

var (
	_ Region = Fixed{}
	_ Region = Cube{}
	_ Region = Box{}
	_ Region = Sphere{}
	_ Region = Ellipsoid{}
	_ Region = Cylinder{}
	_ Region = Plane{}
	_ Region = XYGauss{}
)
