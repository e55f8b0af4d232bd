package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Resolve formula dependencies, fetch them and pin the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Install(cmd.Context(), options(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func (c *CLI) newInstallPinnedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install-pinned-versions",
		Short: "Install exactly the versions recorded in formula-requirements.txt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.InstallPinned(cmd.Context(), options(cmd))
		},
	}
	addRunFlags(cmd)
	return cmd
}
