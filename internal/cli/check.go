package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molpack/pkg/pack"
	"github.com/matzehuels/molpack/pkg/structure"
)

// checkCommand validates job files and prints the derived plan without
// packing.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check JOB...",
		Short: "Validate job files and show the derived packing plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := loadJobs(args)
			if err != nil {
				return err
			}
			for _, j := range jobs {
				s, err := j.Session(nil)
				if err != nil {
					return fmt.Errorf("%s: %w", j.Name, err)
				}
				plan, err := s.Plan(j.Options)
				if err != nil {
					return fmt.Errorf("%s: %w", j.Name, err)
				}
				printPlan(j.Name, plan, s.Structures())
			}
			if len(jobs) == 1 {
				printNextStep("Pack it", "molpack pack "+args[0])
			}
			return nil
		},
	}
}

func printPlan(name string, p *pack.Plan, templates []*structure.Template) {
	fmt.Println(StyleTitle.Render(name))
	seed := strconv.FormatInt(p.Seed, 10)
	if p.SeedFromClock {
		seed += " (clock)"
	}
	printKeyValue("seed", seed)
	printKeyValue("tolerance", formatFloat(p.Tolerance))
	printKeyValue("short tol", fmt.Sprintf("%s × %s", formatFloat(p.ShortTolDistance), formatFloat(p.ShortTolScale)))
	printKeyValue("bin size", formatFloat(p.BinSize))
	printKeyValue("restrictions", strconv.Itoa(p.Restrictions))
	printKeyValue("molecules", strconv.Itoa(p.Molecules))
	printKeyValue("atoms", strconv.Itoa(p.Atoms))

	rows := make([][]string, 0, len(p.Types))
	for _, t := range p.Types {
		region := "unbounded"
		if t.Constraint != nil {
			region = t.Constraint.String()
		}
		budget := fmt.Sprintf("%d / %d", t.LoopBudget, t.InitialLoopBudget)
		if t.Fixed() {
			budget = "fixed"
		}
		rows = append(rows, []string{
			t.Name, strconv.Itoa(t.Copies), strconv.Itoa(t.Atoms),
			strconv.FormatFloat(radius(templates[t.Index]), 'f', 2, 64),
			budget, region,
		})
	}
	fmt.Println(newTable([]string{"Structure", "Copies", "Atoms", "Radius", "Loops", "Region"}, rows, nil))

	for _, o := range p.Overrides {
		if o.Structure != "" {
			printDetail("%s: %s = %s (default %s)", o.Structure, o.Option, formatFloat(o.Value), formatFloat(o.Default))
		} else {
			printDetail("%s = %s (default %s)", o.Option, formatFloat(o.Value), formatFloat(o.Default))
		}
	}
}

// radius is the largest distance of an atom from the template's centre of
// mass, the extent the engine has to fit into a region.
func radius(t *structure.Template) float64 {
	r := 0.0
	for _, p := range t.Centered() {
		r = max(r, p.Norm())
	}
	return r
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
