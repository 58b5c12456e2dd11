package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/de-tools/finance-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/finance-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/finance-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	options Options
	flags   app.Options
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Provider overrides service wiring, mainly for tests.
	Provider commands.AppProvider
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{options: opts}
	if cli.options.Provider == nil {
		cli.options.Provider = cli.bootstrap
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "finance",
		Short:         "Period-comparative finance reports over sales boards and the payments ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.options.Output)

	cmd.PersistentFlags().StringVarP(&cli.flags.ConfigPath, "config", "c", "", "Path to the app config file")
	cmd.PersistentFlags().StringVar(&cli.flags.ProfilesPath, "profiles", "",
		"Path to the board profiles file (default is $HOME/"+app.DefaultProfilesFile+")")
	cmd.PersistentFlags().StringVarP(&cli.flags.Profile, "profile", "p", "", "Board profile name")

	cmd.AddCommand(commands.NewReportCmd(cli.options.Provider, NewReporter))
	cmd.AddCommand(commands.NewCostsCmd(cli.options.Provider, NewReporter))
	cmd.AddCommand(commands.NewPaymentsCmd(cli.options.Provider))
	cmd.AddCommand(commands.NewBoardsCmd(cli.options.Provider))
	cmd.AddCommand(commands.NewMigrateCmd(cli.config))

	return cmd
}

func (cli *CLI) config() (*config.Config, error) {
	return app.LoadConfig(cli.flags)
}

func (cli *CLI) bootstrap(ctx context.Context, requireBoards bool) (*app.App, error) {
	opts := cli.flags
	opts.RequireBoards = requireBoards
	return app.Bootstrap(ctx, opts)
}

// NewReporter picks the console reporter for format.
func NewReporter(format string, w io.Writer) (commands.Reporter, error) {
	switch format {
	case "", commands.FormatText:
		return NewTextReporter(w), nil
	case commands.FormatTable:
		return export.NewReporter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
