package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fsdgo/fsd/format"
)

func newFormatCmd(c *cli) *cobra.Command {
	var write, check bool
	cmd := &cobra.Command{
		Use:   "format [flags] PATH...",
		Short: "Print service definitions in canonical form",
		Long: `Format prints each definition in canonical form. Documentation is
written as trailing "# Name" sections, or in fsd code fences when a
remarks line would read as a heading. // comments are dropped.

With --check nothing is printed except the names of files that are not
in canonical form, and the command exits with status 2 if there are any.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && check {
				return fmt.Errorf("format: --write cannot be used with --check")
			}
			results, err := c.parseAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false
			for _, r := range results {
				if !r.OK() {
					failed = true
					c.pal.printErrors(cmd.ErrOrStderr(), r.Errors, c.cfg.MaxErrors)
					continue
				}
				formatted, err := format.Service(r.Service, c.cfg.Format.options())
				if err != nil {
					return err
				}
				switch {
				case check:
					if string(formatted) != r.Input.Text {
						failed = true
						fmt.Fprintln(out, r.Input.Name)
					}
				case write:
					if string(formatted) == r.Input.Text {
						continue
					}
					if err := os.WriteFile(r.Input.Name, formatted, 0o644); err != nil {
						return err
					}
				default:
					if _, err := out.Write(formatted); err != nil {
						return err
					}
				}
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&check, "check", false, "list files that are not formatted")
	return cmd
}
