package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/report"
	"ledger/internal/services"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		raw         services.RawEntry
		interactive bool
		attempts    int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new entry",
		Long: `Record a new income or expense entry.

The date is DD-MM-YYYY and defaults to today. The category is I for
Income or E for Expense. With --interactive each field is asked for in
turn and re-asked after an invalid answer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				var err error
				raw, err = cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), attempts).ReadEntry()
				if err != nil {
					return err
				}
			}

			e, err := a.backend.Service.Record(cmd.Context(), raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s on %s\n", e.Category, report.Amount(e.Amount), e.Date)
			return nil
		},
	}

	cmd.Flags().StringVarP(&raw.Date, "date", "d", "", "entry date, DD-MM-YYYY (default today)")
	cmd.Flags().StringVarP(&raw.Amount, "amount", "a", "", "positive amount")
	cmd.Flags().StringVarP(&raw.Category, "category", "c", "", "I for Income, E for Expense")
	cmd.Flags().StringVar(&raw.Description, "description", "", "free-text description")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for each field")
	cmd.Flags().IntVar(&attempts, "attempts", cli.DefaultAttempts, "attempts per field in interactive mode")
	cmd.MarkFlagsMutuallyExclusive("interactive", "amount")
	cmd.MarkFlagsMutuallyExclusive("interactive", "category")
	return cmd
}
