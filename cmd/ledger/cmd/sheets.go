package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all transactions to Google Sheets",
	Long: `Replace the contents of the configured sheet with the current
ledger. Requires GOOGLE_SPREADSHEET_ID and a service account.

Example:
  GOOGLE_SPREADSHEET_ID=... ledger export`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := cli.NewSheetsClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		n, err := svc.Export(cmd.Context(), client)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions\n", n)
		return nil
	},
}

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Add transactions from Google Sheets",
	Long: `Read every row of the configured sheet and add it as a new
transaction. Sheet IDs are ignored; new IDs are assigned. Import stops at
the first invalid row and keeps the rows added before it.

Example:
  GOOGLE_SPREADSHEET_ID=... ledger import`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := cli.NewSheetsClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		n, err := svc.Import(cmd.Context(), client)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", n)
		return err
	},
}
