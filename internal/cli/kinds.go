package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molpack/pkg/constraint"
)

// kindsCommand lists the constraint catalog.
func (c *CLI) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the constraint kinds and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := constraint.Catalog()
			rows := make([][]string, 0, len(specs))
			for _, s := range specs {
				rows = append(rows, []string{string(s.Kind), strings.Join(s.Params, " "), s.Description})
			}
			fmt.Println(newTable([]string{"Kind", "Parameters", "Region"}, rows, nil))
			return nil
		},
	}
}
