package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  Category = "Income"
	Outcome Category = "Outcome"
)

// MaxTitleLength bounds free-text titles coming from the input flow.
const MaxTitleLength = 200

type (
	// Category is the closed Income/Outcome tag of a transaction.
	Category string

	// TransactionDraft carries every field of a transaction except its ID.
	TransactionDraft struct {
		Date     string // Display label, e.g. "07 April"
		Title    string
		Category Category
		Amount   decimal.Decimal // Signed: Income >= 0, Outcome <= 0
		TaxLabel string
	}

	// Transaction is a stored record. ID is assigned on insert and never changes.
	Transaction struct {
		ID       int64
		Date     string
		Title    string
		Category Category
		Amount   decimal.Decimal
		TaxLabel string
	}
)

// ParseCategory maps user or storage input onto the closed category tag.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "outcome":
		return Outcome, nil
	default:
		return "", &ValidationError{Field: "category", Err: ErrInvalidCategory}
	}
}

func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c is one of the two known categories.
func (c Category) IsValid() bool {
	return c == Income || c == Outcome
}

// Validate checks a draft before it may enter the store.
func (d TransactionDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}
	if len(d.Title) > MaxTitleLength {
		return &ValidationError{Field: "title", Err: ErrTitleTooLong}
	}
	if strings.TrimSpace(d.Date) == "" {
		return &ValidationError{Field: "date", Err: ErrEmptyDate}
	}
	if !d.Category.IsValid() {
		return &ValidationError{Field: "category", Err: ErrInvalidCategory}
	}
	if d.Amount.IsZero() {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if (d.Category == Income && d.Amount.IsNegative()) || (d.Category == Outcome && d.Amount.IsPositive()) {
		return &ValidationError{Field: "amount", Err: ErrSignMismatch}
	}
	return nil
}

// WithID attaches an identity to the draft.
func (d TransactionDraft) WithID(id int64) Transaction {
	return Transaction{
		ID:       id,
		Date:     d.Date,
		Title:    d.Title,
		Category: d.Category,
		Amount:   d.Amount,
		TaxLabel: d.TaxLabel,
	}
}

// Draft returns the replaceable fields of t.
func (t Transaction) Draft() TransactionDraft {
	return TransactionDraft{
		Date:     t.Date,
		Title:    t.Title,
		Category: t.Category,
		Amount:   t.Amount,
		TaxLabel: t.TaxLabel,
	}
}

// DisplayAmount renders the amount the way list rows show it.
func (t Transaction) DisplayAmount() string {
	return FormatAmount(t.Amount, t.Category)
}
