// Package geom provides the small amount of 3-D geometry molpack needs:
// points and vectors ([Vec]), axis-aligned boxes ([Box]) and Euler rotations
// ([Rotation]).
//
// All values are plain float64 triples in the caller's length unit. Nothing in
// this package allocates except [Centroid]-style helpers that return new
// slices, and every function is safe for concurrent use.
package geom
