package geom

import "math"

// Vec is a point or displacement in 3-D space.
type Vec struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// V is shorthand for Vec{x, y, z}.
func V(x, y, z float64) Vec { return Vec{X: x, Y: y, Z: z} }

func (v Vec) Add(w Vec) Vec       { return Vec{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }
func (v Vec) Sub(w Vec) Vec       { return Vec{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s, v.Z * s} }
func (v Vec) Dot(w Vec) float64   { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }
func (v Vec) Norm2() float64      { return v.Dot(v) }
func (v Vec) Norm() float64       { return math.Sqrt(v.Norm2()) }
func (v Vec) Dist2(w Vec) float64 { return v.Sub(w).Norm2() }
func (v Vec) Dist(w Vec) float64  { return math.Sqrt(v.Dist2(w)) }
func (v Vec) Array() [3]float64   { return [3]float64{v.X, v.Y, v.Z} }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 && v.Z == 0 }
func (v Vec) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Cross returns the cross product v × w.
func (v Vec) Cross(w Vec) Vec {
	return Vec{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Centroid returns the arithmetic mean of pts, or the origin for an empty slice.
func Centroid(pts []Vec) Vec {
	if len(pts) == 0 {
		return Vec{}
	}
	var sum Vec
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts)))
}

// Translate returns a copy of pts shifted by d.
func Translate(pts []Vec, d Vec) []Vec {
	out := make([]Vec, len(pts))
	for i, p := range pts {
		out[i] = p.Add(d)
	}
	return out
}

// MinDistance returns the smallest distance between any two points of pts
// and the indices of that pair. With fewer than two points it returns +Inf
// and (-1, -1). The search is quadratic; it is meant for verification, not
// for the placement loop.
func MinDistance(pts []Vec) (float64, int, int) {
	best, bi, bj := math.Inf(1), -1, -1
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if d := pts[i].Dist2(pts[j]); d < best {
				best, bi, bj = d, i, j
			}
		}
	}
	if bi < 0 {
		return best, bi, bj
	}
	return math.Sqrt(best), bi, bj
}
