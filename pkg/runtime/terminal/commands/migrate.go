package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/de-tools/finance-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

// ConfigProvider loads the app config without wiring any service.
type ConfigProvider func() (*config.Config, error)

func NewMigrateCmd(configs ConfigProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the ledger schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configs()
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), cmd, cfg.Ledger)
		},
	}
}

func migrate(ctx context.Context, cmd *cobra.Command, ledger config.LedgerConfig) error {
	ledger.MigrateOnStart = true
	db, err := app.OpenLedgerDB(ctx, ledger)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Ledger schema is up to date (%s)\n", ledger.Driver)
	return nil
}
