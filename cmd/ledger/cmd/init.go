package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.backend.Store.Initialize(cmd.Context()); err != nil {
				return err
			}
			if path := a.cfg.StorePath(); path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Ledger ready at %s\n", path)
			}
			return nil
		},
	}
}
