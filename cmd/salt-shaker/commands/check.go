package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what an install would change, without touching anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changes, err := c.app.Check(cmd.Context(), options(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, change := range changes {
				_, _ = fmt.Fprintln(out, change.String())
			}
			return nil
		},
	}
	cmd.Flags().Bool("enable-remote-check", false, "Re-verify pinned versions against the remote")
	return cmd
}
