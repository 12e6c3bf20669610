package cmd

import (
	"github.com/spf13/cobra"

	"ledger/internal/cli"
)

// mirrorCmd represents the mirror command.
var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Keep Google Sheets in step with the database",
	Long: `Run until interrupted, consuming transaction events from AMQP and
exporting the whole ledger to the configured sheet after each change.

Requires EVENTS_BACKEND=amqp, a sqlite or postgres DATA_BACKEND shared with
the writers, and GOOGLE_SPREADSHEET_ID.

Example:
  ledger mirror`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunMirror(cmd.Context(), cfg, logger)
	},
}
