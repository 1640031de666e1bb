package geom

// Box is an axis-aligned box given by its minimum and maximum corners.
type Box struct {
	Min Vec
	Max Vec
}

// Cube returns the box [c-half, c+half] on every axis.
func Cube(c Vec, half float64) Box {
	h := Vec{half, half, half}
	return Box{Min: c.Sub(h), Max: c.Add(h)}
}

// Size returns the edge lengths of b.
func (b Box) Size() Vec { return b.Max.Sub(b.Min) }

// Center returns the midpoint of b.
func (b Box) Center() Vec { return b.Min.Add(b.Max).Scale(0.5) }

// Contains reports whether p lies in the closed box.
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersect returns the overlap of b and o and whether it is non-empty.
func (b Box) Intersect(o Box) (Box, bool) {
	r := Box{
		Min: Vec{max(b.Min.X, o.Min.X), max(b.Min.Y, o.Min.Y), max(b.Min.Z, o.Min.Z)},
		Max: Vec{min(b.Max.X, o.Max.X), min(b.Max.Y, o.Max.Y), min(b.Max.Z, o.Max.Z)},
	}
	ok := r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y && r.Min.Z <= r.Max.Z
	return r, ok
}

// Lerp maps the unit cube onto b: t=(0,0,0) is Min and t=(1,1,1) is Max.
func (b Box) Lerp(t Vec) Vec {
	s := b.Size()
	return Vec{
		X: b.Min.X + t.X*s.X,
		Y: b.Min.Y + t.Y*s.Y,
		Z: b.Min.Z + t.Z*s.Z,
	}
}
