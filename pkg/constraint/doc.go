// Package constraint defines the geometric restrictions a structure type can
// be packed under.
//
// # Catalog
//
// The catalog is fixed: fourteen kinds, each with an ordered parameter
// schema. [Kinds] lists them in catalog order and [Lookup] resolves a name,
// failing with UNKNOWN_CONSTRAINT_KIND for anything else.
//
//	fixed              x y z a b g
//	inside_cube        x_min y_min z_min d
//	inside_box         x_min y_min z_min x_max y_max z_max
//	inside_sphere      x y z r d
//	inside_ellipsoid   a1 b1 c1 a2 b2 c2 d
//	outside_cube       x_min y_min z_min d
//	outside_box        x_min y_min z_min x_max y_max z_max
//	outside_sphere     x y z r d
//	outside_ellipsoid  a1 b1 c1 a2 b2 c2 d
//	outside_cylinder   a1 b1 c1 a2 b2 c2 d l
//	over_plane         a b c d
//	over_xygauss       a1 b1 a2 b2 c h
//	below_plane        a b c d
//	below_xygauss      a1 b1 a2 b2 c h
//
// # Building
//
// [Build] is the only place a kind name is dispatched as a string. It checks
// that the parameter keys match the schema exactly and that the values
// describe a real region, then returns an immutable [Constraint] holding a
// typed [Region]:
//
//	c, err := constraint.Build("inside_sphere", map[string]float64{
//	    "x": 0, "y": 0, "z": 0, "r": 20, "d": 0,
//	})
//	c.Contains(geom.V(1, 2, 3)) // true
//
// # Region semantics
//
// Cube and box use half-open per-axis intervals [min, max); their "outside"
// kinds are the exact complement. Sphere applies the tolerance d on both
// sides of the radius, so inside (dist ≤ r+d) and outside (dist ≥ r-d) both
// hold in the band between. Ellipsoid, plane and Gaussian surface kinds
// include the boundary surface on both sides.
package constraint
