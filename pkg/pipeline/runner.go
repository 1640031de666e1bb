package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/molpack/pkg/buildinfo"
	"github.com/matzehuels/molpack/pkg/cache"
	"github.com/matzehuels/molpack/pkg/job"
	"github.com/matzehuels/molpack/pkg/observability"
	"github.com/matzehuels/molpack/pkg/pack"
)

const keyTypeResult = "result"

// Runner executes jobs with caching.
//
// The Runner keeps no per-job state, so multiple goroutines can share one
// Runner. Each execution gets its own session and engine.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger
	NewEngine  EngineFactory
	PackHooks  observability.PackHooks
	CacheHooks observability.CacheHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Hooks default to logging through logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	hooks := observability.NewLogHooks(logger)
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		NewEngine:  LocalEngine,
		PackHooks:  hooks,
		CacheHooks: hooks,
	}
}

// JobHash identifies a job by its options and structures. The job name does
// not contribute.
func JobHash(j *job.Job) (string, error) {
	data, err := json.Marshal(struct {
		Options    pack.Options    `json:"options"`
		Structures []job.Structure `json:"structures"`
	}{j.Options, j.Structures})
	if err != nil {
		return "", fmt.Errorf("hash job: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute packs one job, reading and writing the result cache when the
// job's seed is fixed.
func (r *Runner) Execute(ctx context.Context, j *job.Job, opts Options) (*Result, error) {
	hash, err := JobHash(j)
	if err != nil {
		return nil, err
	}
	out := &Result{Job: j.Name, Hash: hash}
	logger := r.Logger.With("job", j.Name)

	cacheable := !opts.NoCache && j.Seed != pack.SeedFromClock
	if cacheable {
		out.Key = r.Keyer.ResultKey(hash, cache.ResultKeyOpts{Engine: EngineLocal, Version: buildinfo.Version})
	}
	if cacheable && !opts.Refresh {
		if res, ok := r.lookup(ctx, logger, out.Key); ok {
			out.Pack = res
			return out, nil
		}
	}

	session, err := j.Session(r.NewEngine(logger))
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	packOpts := j.Options
	if packOpts.Hooks == nil {
		packOpts.Hooks = r.PackHooks
	}
	start := time.Now()
	res, err := session.Pack(ctx, packOpts)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	out.Pack = res
	logger.Info("packed",
		"placed", res.Stats.Placed,
		"failed", res.Stats.Failed,
		"duration", time.Since(start))

	if cacheable {
		r.store(ctx, logger, out.Key, res)
	}
	return out, nil
}

// ExecuteAll runs jobs concurrently and returns results in job order. The
// first error cancels the remaining jobs.
func (r *Runner) ExecuteAll(ctx context.Context, jobs []*job.Job, opts Options) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, j := range jobs {
		g.Go(func() error {
			res, err := r.Execute(ctx, j, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", j.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key string) (*pack.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		r.CacheHooks.OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	res, err := decodeResult(data)
	if err != nil {
		logger.Warn("discarding unreadable cache entry", "err", err)
		_ = r.Cache.Delete(ctx, key)
		r.CacheHooks.OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	res.Stats.CacheHit = true
	r.CacheHooks.OnCacheHit(ctx, keyTypeResult)
	return res, true
}

func (r *Runner) store(ctx context.Context, logger *log.Logger, key string, res *pack.Result) {
	data, err := encodeResult(res)
	if err != nil {
		logger.Warn("cache encode failed", "err", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, cache.DefaultResultTTL)
	})
	if err != nil {
		logger.Warn("cache write failed", "err", err)
		return
	}
	r.CacheHooks.OnCacheSet(ctx, keyTypeResult, len(data))
}
