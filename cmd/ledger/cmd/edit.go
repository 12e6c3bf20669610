package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/services"
)

// editCmd represents the edit command.
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a transaction",
	Long: `Replace the fields of an existing transaction. Flags that are not
given keep their current value; the date only changes when --date is set.

Example:
  ledger edit 3 --amount 1250
  ledger edit 3 --type income --title Refund`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	addTransactionFlags(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	existing, err := svc.Get(id)
	if err != nil {
		return err
	}
	date, err := parseDateFlag(txDate)
	if err != nil {
		return err
	}

	in := services.Input{
		Title:    existing.Title,
		Amount:   magnitude(existing),
		Category: existing.Category.String(),
		Date:     date,
	}
	flags := cmd.Flags()
	if flags.Changed("title") {
		in.Title = txTitle
	}
	if flags.Changed("amount") {
		in.Amount = txAmount
	}
	if flags.Changed("type") {
		in.Category = txCategory
	}

	t, err := svc.Edit(cmd.Context(), id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d\n", t.ID)
	printTransaction(cmd.OutOrStdout(), svc.Formatter(), t)
	return nil
}
