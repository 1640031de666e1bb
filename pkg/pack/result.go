package pack

import (
	"time"

	"github.com/matzehuels/molpack/pkg/geom"
)

// Result is the in-memory outcome of a packing run.
type Result struct {
	RunID     string       `json:"run_id" msgpack:"run_id"`
	Seed      int64        `json:"seed" msgpack:"seed"`
	Tolerance float64      `json:"tolerance" msgpack:"tolerance"`
	Types     []TypeResult `json:"types" msgpack:"types"`
	Stats     Stats        `json:"stats" msgpack:"stats"`
}

// TypeResult is the outcome for one structure type, in registration order.
type TypeResult struct {
	Index   int    `json:"index" msgpack:"index"`
	Name    string `json:"name" msgpack:"name"`
	Copies  int    `json:"copies" msgpack:"copies"`
	Atoms   int    `json:"atoms" msgpack:"atoms"`
	Success bool   `json:"success" msgpack:"success"`

	// Coordinates holds Copies × Atoms points, copy-major. It is empty for
	// failed types.
	Coordinates []geom.Vec `json:"coordinates,omitempty" msgpack:"coordinates"`
	Iterations  int        `json:"iterations" msgpack:"iterations"`

	// Err is a PLACEMENT_FAILED error for failed types. Failure carries its
	// message across serialisation.
	Err     error  `json:"-" msgpack:"-"`
	Failure string `json:"failure,omitempty" msgpack:"failure"`
}

// Stats contains run statistics.
type Stats struct {
	Molecules int           `json:"molecules" msgpack:"molecules"`
	Atoms     int           `json:"atoms" msgpack:"atoms"`
	Placed    int           `json:"placed" msgpack:"placed"`
	Failed    int           `json:"failed" msgpack:"failed"`
	Duration  time.Duration `json:"duration" msgpack:"duration"`
	CacheHit  bool          `json:"cache_hit,omitempty" msgpack:"-"`
}

// Success reports whether every type was placed.
func (r *Result) Success() bool { return r.Stats.Failed == 0 }

// Get returns the result for the named structure.
func (r *Result) Get(name string) (*TypeResult, bool) {
	for i := range r.Types {
		if r.Types[i].Name == name {
			return &r.Types[i], true
		}
	}
	return nil, false
}

// Failures returns the types that could not be placed.
func (r *Result) Failures() []TypeResult {
	var out []TypeResult
	for _, t := range r.Types {
		if !t.Success {
			out = append(out, t)
		}
	}
	return out
}

// Molecule returns the atoms of copy c, or nil when c is out of range or the
// type failed.
func (t *TypeResult) Molecule(c int) []geom.Vec {
	if !t.Success || c < 0 || c >= t.Copies || len(t.Coordinates) != t.Copies*t.Atoms {
		return nil
	}
	return t.Coordinates[c*t.Atoms : (c+1)*t.Atoms]
}

// Molecules splits Coordinates into one slice per copy.
func (t *TypeResult) Molecules() [][]geom.Vec {
	if !t.Success {
		return nil
	}
	out := make([][]geom.Vec, 0, t.Copies)
	for c := range t.Copies {
		out = append(out, t.Molecule(c))
	}
	return out
}
