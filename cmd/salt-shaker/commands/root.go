// Package commands implements the CLI commands for salt-shaker.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/salt-shaker/internal/app"
	"github.com/ministryofjustice/salt-shaker/internal/build"
	"github.com/ministryofjustice/salt-shaker/internal/core/domain"
	"github.com/ministryofjustice/salt-shaker/internal/core/ports"
)

// CLI represents the command line interface for salt-shaker.
type CLI struct {
	app     Application
	log     ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Install(ctx context.Context, opts app.Options) error
	InstallPinned(ctx context.Context, opts app.Options) error
	Check(ctx context.Context, opts app.Options) ([]domain.Change, error)
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "salt-shaker",
		Short:         "Resolve, pin and fetch salt formula dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("root_dir", ".", "Directory holding metadata.yml and the vendor tree")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging with source positions")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetLevel(ports.LevelDebug)
			return
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(ports.LevelVerbose)
		}
	}

	c := &CLI{
		app:     a,
		log:     log,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newInstallPinnedCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newRefreshCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options collects the shared workflow options from the command's flags.
func options(cmd *cobra.Command) app.Options {
	rootDir, _ := cmd.Flags().GetString("root_dir")
	simulate, _ := cmd.Flags().GetBool("simulate")
	remoteCheck, _ := cmd.Flags().GetBool("enable-remote-check")
	return app.Options{
		RootDir:           rootDir,
		Simulate:          simulate,
		EnableRemoteCheck: remoteCheck,
	}
}

// addRunFlags registers the flags shared by the installing commands.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("simulate", false, "Resolve and report without fetching or writing anything")
	cmd.Flags().Bool("enable-remote-check", false, "Re-verify pinned versions against the remote")
}
