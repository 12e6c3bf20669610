package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// totalsCmd represents the totals command.
var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show income, outcome and balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ov := svc.Overview()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Transactions: %d\n", ov.Totals.Count)
		fmt.Fprintf(out, "Income:       %s\n", ov.Income)
		fmt.Fprintf(out, "Outcome:      %s\n", ov.Outcome)
		fmt.Fprintf(out, "Balance:      %s\n", ov.Balance)
		return nil
	},
}
