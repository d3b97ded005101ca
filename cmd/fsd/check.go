package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fsdgo/fsd"
)

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH...",
		Short: "Report the errors of service definitions",
		Long: `Check parses every definition file and directory given and prints
each error with the offending source line. Directories are searched
recursively for .fsd and .md files.

Exits with status 2 when any definition has errors.`,
		Example: `  fsd check api.fsd
  fsd check --exclude-tag internal definitions/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := c.parseAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, r := range results {
				if r.OK() {
					continue
				}
				invalid++
				c.pal.printErrors(out, r.Errors, c.cfg.MaxErrors)
			}
			c.pal.summary.Fprintln(cmd.ErrOrStderr(), checkSummary(len(results), invalid))
			if invalid > 0 {
				return errInvalid
			}
			return nil
		},
	}
}

func checkSummary(files, invalid int) string {
	noun := "files"
	if files == 1 {
		noun = "file"
	}
	if invalid == 0 {
		return fmt.Sprintf("checked %d %s: ok", files, noun)
	}
	return fmt.Sprintf("checked %d %s: %d with errors", files, noun, invalid)
}

// parseAll parses every definition under paths, then removes excluded
// tags from each valid service.
func (c *cli) parseAll(ctx context.Context, paths []string) ([]fsd.Result, error) {
	src, err := sourceFor(paths)
	if err != nil {
		return nil, err
	}
	results, err := fsd.ParseAll(ctx, src, c.parseOptions()...)
	if err != nil {
		return nil, err
	}
	for i := range results {
		c.exclude(&results[i])
	}
	return results, nil
}

func (c *cli) exclude(r *fsd.Result) {
	for _, tag := range c.cfg.ExcludeTags {
		if !r.OK() {
			return
		}
		r.Service, r.Errors = r.Service.TryExcludeTag(tag)
	}
}
