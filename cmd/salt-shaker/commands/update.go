package commands

import (
	"github.com/spf13/cobra"
)

// update re-resolves from metadata and moves pins forward; it is the install
// workflow under the name the original tooling used.
func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Re-resolve dependencies and update the pinned versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Install(cmd.Context(), options(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}

// refresh reinstalls the pinned versions, recreating the vendor tree from the
// requirements file.
func (c *CLI) newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Reinstall the pinned versions from the requirements file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.InstallPinned(cmd.Context(), options(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}
