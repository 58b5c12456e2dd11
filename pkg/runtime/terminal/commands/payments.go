package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/finance-atlas/pkg/adapters"
	"github.com/de-tools/finance-atlas/pkg/models/api"
	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/spf13/cobra"
)

func NewPaymentsCmd(provider AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Read and write the payments ledger",
	}
	cmd.AddCommand(newLastPaymentCmd(provider))
	cmd.AddCommand(newAddPaymentCmd(provider))
	cmd.AddCommand(newImportCmd(provider))
	return cmd
}

func newLastPaymentCmd(provider AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recently added payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, provider, false, func(a *app.App) error {
				entry, err := a.Ledger.LastPayment(cmd.Context())
				if err != nil {
					return err
				}
				if entry == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No data found.")
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), adapters.MapPaymentDomainToApi(*entry))
			})
		},
	}
}

type addPaymentCmd struct {
	payment  api.NewPayment
	provider AppProvider
}

func newAddPaymentCmd(provider AppProvider) *cobra.Command {
	ac := &addPaymentCmd{provider: provider}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payment",
		Args:  cobra.NoArgs,
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.payment.Date, "date", "", "Payment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ac.payment.Value, "value", "", "Payment amount")
	cmd.Flags().StringVar(&ac.payment.Category, "category", "", "Payment category")
	cmd.Flags().StringVar(&ac.payment.Description, "description", "", "Free text description")
	cmd.Flags().StringVar(&ac.payment.Agent, "agent", "", "Who recorded the payment")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("value")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

func (ac *addPaymentCmd) run(cmd *cobra.Command, _ []string) error {
	payment, err := adapters.MapNewPaymentApiToDomain(ac.payment)
	if err != nil {
		return err
	}

	return withApp(cmd, ac.provider, false, func(a *app.App) error {
		entry, err := a.Ledger.AddPayment(cmd.Context(), payment)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), adapters.MapPaymentDomainToApi(entry))
	})
}

func newImportCmd(provider AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import payments from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			return withApp(cmd, provider, false, func(a *app.App) error {
				result, err := a.Importer.Import(cmd.Context(), f)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), adapters.MapImportResultDomainToApi(result))
			})
		},
	}
}
