package geom

import "math"

// Rotation is a 3×3 rotation matrix in row-major order.
type Rotation [3][3]float64

// Identity is the rotation that leaves every vector unchanged.
var Identity = Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Euler builds the rotation Rz(g)·Ry(b)·Rx(a): the body is first turned by a
// radians about x, then by b about y, then by g about z.
func Euler(a, b, g float64) Rotation {
	ca, sa := math.Cos(a), math.Sin(a)
	cb, sb := math.Cos(b), math.Sin(b)
	cg, sg := math.Cos(g), math.Sin(g)
	return Rotation{
		{cg * cb, cg*sb*sa - sg*ca, cg*sb*ca + sg*sa},
		{sg * cb, sg*sb*sa + cg*ca, sg*sb*ca - cg*sa},
		{-sb, cb * sa, cb * ca},
	}
}

// Apply rotates v.
func (r Rotation) Apply(v Vec) Vec {
	return Vec{
		X: r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		Y: r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		Z: r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}

// Place rotates every point of body about the origin and translates it by
// pos. The body is expected to be centred on its own origin.
func Place(body []Vec, r Rotation, pos Vec) []Vec {
	out := make([]Vec, len(body))
	for i, p := range body {
		out[i] = r.Apply(p).Add(pos)
	}
	return out
}
