package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// shareCmd represents the share command.
var shareCmd = &cobra.Command{
	Use:   "share <id>",
	Short: "Print the share message for a transaction",
	Long: `Print a caption and a projectapp://input deep link that opens the
input form prefilled with the transaction.

Example:
  ledger share 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		msg, err := svc.ShareMessage(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

// openCmd represents the open command.
var openCmd = &cobra.Command{
	Use:   "open <link>",
	Short: "Add a transaction from a shared deep link",
	Long: `Add a transaction, dated today, from a projectapp://input link.

Example:
  ledger open "projectapp://input?amount=1200.00&title=Rent&type=outcome"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := svc.OpenLink(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added #%d\n", t.ID)
		printTransaction(cmd.OutOrStdout(), svc.Formatter(), t)
		return nil
	},
}
