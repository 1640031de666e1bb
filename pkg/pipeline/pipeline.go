// Package pipeline runs packing jobs with result caching.
//
// A job is hashed from its options and structures. When the seed is fixed
// the packed result is a pure function of that hash, so the Runner looks the
// result up in a cache.Cache before creating an engine and stores it after
// a successful handoff.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, j, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	water, _ := result.Pack.Get("water")
//
// Several jobs run concurrently with ExecuteAll:
//
//	results, err := runner.ExecuteAll(ctx, jobs, pipeline.Options{Parallelism: 4})
package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/molpack/pkg/engine"
	"github.com/matzehuels/molpack/pkg/pack"
)

// EngineLocal names the in-process engine in cache keys.
const EngineLocal = "local"

// EngineFactory creates a fresh engine for one job. Engines serve a single
// run, so the Runner calls it once per executed job.
type EngineFactory func(logger *log.Logger) engine.Engine

// LocalEngine is the default EngineFactory.
func LocalEngine(logger *log.Logger) engine.Engine {
	return engine.NewLocal(logger)
}

// Options configures a Runner execution.
type Options struct {
	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool

	// NoCache disables both lookup and store.
	NoCache bool

	// Parallelism bounds ExecuteAll. Zero means one job per CPU.
	Parallelism int
}

// Result is the outcome of one job.
type Result struct {
	// Job is the job name, usually its file name without extension.
	Job string

	// Hash identifies the job's options and structures.
	Hash string

	// Key is the cache key the result was read from or written to. It is
	// empty when the job was not cacheable.
	Key string

	Pack *pack.Result
}

// CacheHit reports whether the result came from the cache.
func (r *Result) CacheHit() bool {
	return r.Pack != nil && r.Pack.Stats.CacheHit
}
