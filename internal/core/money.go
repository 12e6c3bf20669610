// Package core provides money parsing and formatting utilities.
//
// Amounts are kept as decimal values; display strings are derived from them
// and never stored as the source of truth.
package core

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol is used by the package-level formatting helpers.
const DefaultCurrencySymbol = "$"

const (
	English Language = "en"
	Thai    Language = "th"
)

// Language selects the wording of the derived tax label.
type Language string

// ParseLanguage accepts "en" or "th" (case-insensitive).
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, nil
	case Thai:
		return Thai, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

// Formatter renders amounts with a configurable currency symbol.
type Formatter struct {
	Symbol string
}

// DefaultFormatter formats with DefaultCurrencySymbol.
var DefaultFormatter = Formatter{Symbol: DefaultCurrencySymbol}

// ParseAmount keeps only digits and the decimal point and parses the rest as
// a non-negative amount. Anything that does not parse yields zero.
//
// Examples:
//
//	ParseAmount("$1,200.50")  -> 1200.50
//	ParseAmount("-$45.99")    -> 45.99
//	ParseAmount("1.2.3")      -> 0
//	ParseAmount("abc")        -> 0
func ParseAmount(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || strings.Count(s, ".") > 1 {
		return decimal.Zero
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SignedAmount applies the category sign to a magnitude.
func SignedAmount(magnitude decimal.Decimal, c Category) decimal.Decimal {
	m := magnitude.Abs()
	if c == Outcome {
		return m.Neg()
	}
	return m
}

// FormatAmount renders the magnitude of amount and prefixes "-" only for
// Outcome. The stored sign is ignored so a negative outcome never shows "--".
func FormatAmount(amount decimal.Decimal, c Category) string {
	return DefaultFormatter.FormatAmount(amount, c)
}

// FormatTotal renders an aggregate; the sign comes from the value itself.
func FormatTotal(amount decimal.Decimal) string {
	return DefaultFormatter.FormatTotal(amount)
}

// TaxLabel derives the presentation-only tax label for an amount.
func TaxLabel(amount decimal.Decimal, lang Language) string {
	return DefaultFormatter.TaxLabel(amount, lang)
}

func (f Formatter) FormatAmount(amount decimal.Decimal, c Category) string {
	s := f.magnitude(amount)
	if c == Outcome {
		return "-" + s
	}
	return s
}

func (f Formatter) FormatTotal(amount decimal.Decimal) string {
	s := f.magnitude(amount)
	if amount.Round(2).IsNegative() {
		return "-" + s
	}
	return s
}

func (f Formatter) TaxLabel(amount decimal.Decimal, lang Language) string {
	prefix := "Tax"
	if lang == Thai {
		prefix = "ภาษี"
	}
	return prefix + " " + f.magnitude(amount)
}

// magnitude renders |amount| as <symbol><thousands-separated whole>.<2 digits>.
func (f Formatter) magnitude(amount decimal.Decimal) string {
	r := amount.Abs().Round(2)
	whole := r.Truncate(0)
	frac := r.Sub(whole).StringFixed(2) // "0.xx"
	return f.Symbol + humanize.BigComma(whole.BigInt()) + frac[1:]
}
