package core

import (
	"iter"

	"github.com/shopspring/decimal"
)

// Totals is the aggregate view over a set of transactions.
// Outcome is reported with its natural sign, so it is always <= 0.
type Totals struct {
	Income  decimal.Decimal
	Outcome decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// TotalIncome sums the amounts of Income transactions.
func TotalIncome(records iter.Seq[Transaction]) decimal.Decimal {
	return sumCategory(records, Income)
}

// TotalOutcome sums the (non-positive) amounts of Outcome transactions.
func TotalOutcome(records iter.Seq[Transaction]) decimal.Decimal {
	return sumCategory(records, Outcome)
}

// Summarize computes income, outcome and balance in a single pass.
func Summarize(records iter.Seq[Transaction]) Totals {
	t := Totals{Income: decimal.Zero, Outcome: decimal.Zero}
	for r := range records {
		switch r.Category {
		case Income:
			t.Income = t.Income.Add(r.Amount)
		case Outcome:
			t.Outcome = t.Outcome.Add(r.Amount)
		}
		t.Count++
	}
	t.Balance = t.Income.Add(t.Outcome)
	return t
}

func sumCategory(records iter.Seq[Transaction], c Category) decimal.Decimal {
	sum := decimal.Zero
	for r := range records {
		if r.Category == c {
			sum = sum.Add(r.Amount)
		}
	}
	return sum
}
