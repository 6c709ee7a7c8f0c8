package cmd

import (
	"github.com/spf13/cobra"

	"ledger/internal/report"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every entry in recorded order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.engine.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			return report.Entries(cmd.OutOrStdout(), entries)
		},
	}
}

func newFilterCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show entries dated within an inclusive range",
		Example: `  ledger filter --from 01-01-2024 --to 31-01-2024`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.engine.FilterByRangeText(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			return report.Entries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, DD-MM-YYYY")
	cmd.Flags().StringVar(&to, "to", "", "last date, DD-MM-YYYY")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newTotalsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Show the total per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			totals, err := a.engine.CategoryTotals(cmd.Context())
			if err != nil {
				return err
			}
			return report.Totals(cmd.OutOrStdout(), totals)
		},
	}
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show total income, total expense and net balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.engine.NetBalance(cmd.Context())
			if err != nil {
				return err
			}
			return report.Balance(cmd.OutOrStdout(), b)
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show entry count, period and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.engine.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return report.Summary(cmd.OutOrStdout(), s)
		},
	}
}
