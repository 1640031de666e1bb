package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/job"
	"github.com/matzehuels/molpack/pkg/pipeline"
)

type packFlags struct {
	output   string
	noCache  bool
	refresh  bool
	parallel int
	seed     int64
	seedSet  bool
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var f packFlags
	cmd := &cobra.Command{
		Use:   "pack JOB...",
		Short: "Pack the structures of one or more job files",
		Long: `Pack reads TOML or YAML job files and places every structure.

Results for jobs with a fixed seed are cached, so repeating a job returns the
stored placement without running the engine.`,
		Example: `  molpack pack water.toml
  molpack pack membrane.yaml solvent.yaml -o out -j 2
  molpack pack water.toml --seed -1 --no-cache`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.seedSet = cmd.Flags().Changed("seed")
			return c.runPack(cmd.Context(), args, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory to write <job>.json results to")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable result caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "repack even when a cached result exists")
	cmd.Flags().IntVarP(&f.parallel, "jobs", "j", 0, "jobs packed concurrently (default: one per CPU)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "override the seed of every job (-1 derives it from the clock)")

	return cmd
}

func (c *CLI) runPack(ctx context.Context, paths []string, f packFlags) error {
	jobs, err := loadJobs(paths)
	if err != nil {
		return err
	}
	if f.seedSet {
		for _, j := range jobs {
			j.Seed = f.seed
		}
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	results, err := runner.ExecuteAll(ctx, jobs, pipeline.Options{
		Refresh:     f.refresh,
		NoCache:     f.noCache,
		Parallelism: f.parallel,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packed %d job(s)", len(results)))

	failed := 0
	for _, res := range results {
		printResult(res)
		if f.output != "" {
			path, err := writeResult(f.output, res)
			if err != nil {
				return err
			}
			printFile(path)
		}
		failed += res.Pack.Stats.Failed
	}
	if failed > 0 {
		return errors.New(errors.ErrCodePlacementFailed, "%d structure type(s) could not be placed", failed)
	}
	return nil
}

func loadJobs(paths []string) ([]*job.Job, error) {
	jobs := make([]*job.Job, 0, len(paths))
	for _, p := range paths {
		j, err := job.Load(p)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func printResult(res *pipeline.Result) {
	r := res.Pack
	if r.Success() {
		printSuccess("%s: placed %d structure type(s), seed %d", res.Job, r.Stats.Placed, r.Seed)
	} else {
		printError("%s: %d of %d structure type(s) failed", res.Job, r.Stats.Failed, len(r.Types))
	}
	printStats(r.Stats.Molecules, r.Stats.Atoms, res.CacheHit())
	for _, t := range r.Failures() {
		printDetail("%s: %s", t.Name, errors.UserMessage(t.Err))
	}
}
