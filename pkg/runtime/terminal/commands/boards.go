package commands

import (
	"fmt"

	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/spf13/cobra"
)

func NewBoardsCmd(provider AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List the sales boards of the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, provider, true, func(a *app.App) error {
				boards := a.Boards()
				if len(boards) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sales boards configured")
					return nil
				}
				for _, b := range boards {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Name, b.ID)
				}
				return nil
			})
		},
	}
}
