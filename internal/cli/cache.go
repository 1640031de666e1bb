package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molpack/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the packed result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rc.Close()

			clearer, ok := rc.(cache.Clearer)
			if !ok {
				printWarning("Cache does not support clearing")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared cached results")
			printDetail("%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where results are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.cacheLocation())
			return nil
		},
	}
}

func (c *CLI) cacheLocation() string {
	if c.redisAddr != "" {
		return "redis://" + c.redisAddr
	}
	dir, err := cacheDir()
	if err != nil {
		return "(none)"
	}
	return dir
}
