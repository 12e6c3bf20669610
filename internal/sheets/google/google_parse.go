package google

import (
	"fmt"
	"strings"

	"ledger/internal/core"
)

var header = []any{"ID", "Date", "Title", "Category", "Amount", "Tax"}

const (
	colID = iota
	colDate
	colTitle
	colCategory
	colAmount
	colTax
)

func toRows(txs []core.Transaction) [][]any {
	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, header)
	for _, t := range txs {
		rows = append(rows, []any{t.ID, t.Date, t.Title, t.Category.String(), t.Amount.StringFixed(2), t.TaxLabel})
	}
	return rows
}

// parseRows converts a values matrix (as returned by the Sheets API) into
// drafts. The header row and blank rows are skipped; a row with a bad
// category or failing validation aborts the import.
func parseRows(values [][]any) ([]core.TransactionDraft, error) {
	var out []core.TransactionDraft
	for i, raw := range values {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		if i == 0 && strings.EqualFold(safeGet(row, colID), "id") {
			continue
		}

		c, err := core.ParseCategory(safeGet(row, colCategory))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		amount := core.SignedAmount(core.ParseAmount(safeGet(row, colAmount)), c)
		tax := safeGet(row, colTax)
		if tax == "" {
			tax = core.TaxLabel(amount, core.English)
		}

		d := core.TransactionDraft{
			Date:     safeGet(row, colDate),
			Title:    safeGet(row, colTitle),
			Category: c,
			Amount:   amount,
			TaxLabel: tax,
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
