package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fsdgo/fsd/cmd/internal/cliutil"
	"github.com/fsdgo/fsd/export"
)

func newDumpCmd(c *cli) *cobra.Command {
	var formatName, output string
	cmd := &cobra.Command{
		Use:   "dump [flags] FILE",
		Short: "Export a service definition as JSON, YAML or MessagePack",
		Example: `  fsd dump api.fsd
  fsd dump --format yaml --exclude-tag internal api.fsd
  fsd dump --format msgpack -o api.msgpack api.fsd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			results, err := c.parseAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			if len(results) != 1 {
				return fmt.Errorf("dump: %s holds %d definitions, want 1", args[0], len(results))
			}
			r := results[0]
			if !r.OK() {
				c.pal.printErrors(cmd.ErrOrStderr(), r.Errors, c.cfg.MaxErrors)
				return errInvalid
			}

			w, closeOutput, err := cliutil.GetOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := export.Encode(w, export.Build(r.Service), f); err != nil {
				_ = closeOutput()
				return err
			}
			return closeOutput()
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", string(export.JSON), "output format (json|yaml|msgpack)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
