// Package pkg provides the core libraries for molpack, a constrained
// molecular packing orchestrator.
//
// # Overview
//
// molpack places many copies of rigid molecular structures in space so that
// atoms of different molecules stay at least a tolerance apart, with each
// structure type confined to a geometric region. The pkg directory is
// organized into these areas:
//
//  1. [geom], [constraint] and [structure] - domain types (vectors, regions, templates)
//  2. [pack] - sessions, option derivation and the engine handoff
//  3. [engine] - the packing engine contract and the in-process engine
//  4. [job] - TOML and YAML job files
//  5. [pipeline] and [cache] - cached execution of jobs
//  6. [errors] and [observability] - coded errors and reporting hooks
//
// # Architecture
//
// The typical data flow through molpack:
//
//	Job file (TOML/YAML)
//	         ↓
//	    [job] package (decode, build constraints)
//	         ↓
//	    [pack] package (register templates, derive plan)
//	         ↓
//	    [engine] package (place molecules)
//	         ↓
//	    Result (coordinates per structure type)
//
// # Quick Start
//
//	s := pack.NewSession(engine.NewLocal(logger))
//	s.AddStructure(&structure.Template{
//	    Name:        "water",
//	    Copies:      100,
//	    Coordinates: waterAtoms,
//	    Constraint:  constraint.MustBuild("inside_cube", map[string]float64{"x_min": 0, "y_min": 0, "z_min": 0, "d": 40}),
//	})
//	result, err := s.Pack(ctx, pack.Options{Tolerance: 2.0})
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/geom
// [constraint]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/constraint
// [structure]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/structure
// [pack]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/pack
// [engine]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/engine
// [job]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/job
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/molpack/pkg/observability
package pkg
