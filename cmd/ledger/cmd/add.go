package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/services"
)

const dateLayout = "2006-01-02"

var (
	txTitle    string
	txAmount   string
	txCategory string
	txDate     string
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	Long: `Add an income or outcome transaction.

The amount is read leniently: currency symbols, separators and a leading
minus are ignored, and the sign is taken from --type.

Example:
  ledger add --title Rent --amount "$1,200" --type outcome
  ledger add --title Salary --amount 1500 --type income --date 2024-04-07`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addTransactionFlags(addCmd)
	addCmd.MarkFlagRequired("title")
	addCmd.MarkFlagRequired("amount")
	addCmd.MarkFlagRequired("type")
}

func addTransactionFlags(c *cobra.Command) {
	c.Flags().StringVar(&txTitle, "title", "", "Transaction title")
	c.Flags().StringVar(&txAmount, "amount", "", "Amount, e.g. 1200 or $1,200.50")
	c.Flags().StringVar(&txCategory, "type", "", "income or outcome")
	c.Flags().StringVar(&txDate, "date", "", "Date (YYYY-MM-DD), default today")
}

func runAdd(cmd *cobra.Command, args []string) error {
	date, err := parseDateFlag(txDate)
	if err != nil {
		return err
	}
	t, err := svc.Create(cmd.Context(), services.Input{
		Title:    txTitle,
		Amount:   txAmount,
		Category: txCategory,
		Date:     date,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added #%d\n", t.ID)
	printTransaction(cmd.OutOrStdout(), svc.Formatter(), t)
	return nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", s)
	}
	return d, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return id, nil
}

func magnitude(t core.Transaction) string {
	return t.Amount.Abs().String()
}
