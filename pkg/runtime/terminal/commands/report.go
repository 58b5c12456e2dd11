package commands

import (
	"time"

	"github.com/de-tools/finance-atlas/pkg/adapters"
	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	year      int
	month     string
	format    string
	provider  AppProvider
	reporters ReporterFactory
}

func (rc *ReportCmd) bindFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rc.year, "year", time.Now().Year(), "Report year")
	cmd.Flags().StringVar(&rc.month, "month", "", "Month name or number, empty for the whole year")
	cmd.Flags().StringVarP(&rc.format, "format", "f", FormatText, "Output format: text, table or json")
}

func NewReportCmd(provider AppProvider, reporters ReporterFactory) *cobra.Command {
	rc := &ReportCmd{provider: provider, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare revenue, cost and profit against the previous period",
		RunE:  rc.runFinance,
	}
	rc.bindFlags(cmd)
	return cmd
}

func NewCostsCmd(provider AppProvider, reporters ReporterFactory) *cobra.Command {
	rc := &ReportCmd{provider: provider, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Summarize ledger payments for a period",
		RunE:  rc.runAccounting,
	}
	rc.bindFlags(cmd)
	return cmd
}

func (rc *ReportCmd) runFinance(cmd *cobra.Command, _ []string) error {
	month, err := domain.ParseMonthSelector(rc.month)
	if err != nil {
		return err
	}

	return withApp(cmd, rc.provider, true, func(a *app.App) error {
		r, err := a.Reports.Finance(cmd.Context(), rc.year, month)
		if err != nil {
			return err
		}
		if rc.format == FormatJSON {
			return writeJSON(cmd.OutOrStdout(), adapters.MapFinanceReportDomainToApi(*r))
		}
		return rc.render(cmd, adapters.MapFinanceReportToPrintable(*r))
	})
}

func (rc *ReportCmd) runAccounting(cmd *cobra.Command, _ []string) error {
	month, err := domain.ParseMonthSelector(rc.month)
	if err != nil {
		return err
	}

	return withApp(cmd, rc.provider, false, func(a *app.App) error {
		r, err := a.Reports.Accounting(cmd.Context(), rc.year, month)
		if err != nil {
			return err
		}
		if rc.format == FormatJSON {
			return writeJSON(cmd.OutOrStdout(), adapters.MapAccountingReportDomainToApi(*r))
		}
		return rc.render(cmd, adapters.MapAccountingReportToPrintable(*r))
	})
}

func (rc *ReportCmd) render(cmd *cobra.Command, report *domain.Report) error {
	reporter, err := rc.reporters(rc.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return reporter.Handle(report)
}
