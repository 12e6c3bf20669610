package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ledger/internal/core"
)

var (
	listPage     int
	listCategory string
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions by day",
	Long: `List one page of transactions, newest day first, grouped under
their date. PAGE_SIZE sets the number of rows per page.

Example:
  ledger list
  ledger list --page 1 --type outcome`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 0, "Zero-based page index")
	listCmd.Flags().StringVar(&listCategory, "type", "", "Only income or outcome")
}

func runList(cmd *cobra.Command, args []string) error {
	var c core.Category
	if listCategory != "" {
		var err error
		if c, err = core.ParseCategory(listCategory); err != nil {
			return err
		}
	}
	page, err := svc.List(c, listPage)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(page.Items) == 0 {
		fmt.Fprintln(out, "No transactions")
		return nil
	}
	f := svc.Formatter()
	for _, g := range page.Groups {
		fmt.Fprintln(out, g.Date)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, t := range g.Transactions {
			fmt.Fprintf(w, "  #%d\t%s\t%s\t%s\n", t.ID, t.Title, f.FormatAmount(t.Amount, t.Category), t.TaxLabel)
		}
		w.Flush()
	}
	fmt.Fprintf(out, "\nPage %d of %d\n", page.Index+1, page.TotalPages)
	return nil
}

func printTransaction(out io.Writer, f core.Formatter, t core.Transaction) {
	fmt.Fprintf(out, "%s  %s  %s  %s  (%s)\n", t.Date, t.Title, t.Category, f.FormatAmount(t.Amount, t.Category), t.TaxLabel)
}
