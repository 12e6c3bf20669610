package core

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Layouts accepted for date labels. The short form is what the input flow writes.
const (
	DateLabelLayout     = "02 January"
	LongDateLabelLayout = "02 January 2006"
)

// DateLabel renders t as a short display label such as "07 April".
func DateLabel(t time.Time) string {
	return t.Format(DateLabelLayout)
}

type labelKey struct {
	ok    bool
	year  int
	month time.Month
	day   int
}

func parseLabel(label string) labelKey {
	label = strings.TrimSpace(label)
	if t, err := time.Parse(LongDateLabelLayout, label); err == nil {
		return labelKey{ok: true, year: t.Year(), month: t.Month(), day: t.Day()}
	}
	if t, err := time.Parse(DateLabelLayout, label); err == nil {
		return labelKey{ok: true, month: t.Month(), day: t.Day()}
	}
	return labelKey{}
}

// CompareDateLabels orders two labels as calendar dates when both parse:
// year, then month, then day. A label without a year counts as year zero, so
// it is older than any label that carries one.
// Labels that do not parse sort before parseable ones and are compared as
// plain strings.
func CompareDateLabels(a, b string) int {
	ka, kb := parseLabel(a), parseLabel(b)
	switch {
	case ka.ok && !kb.ok:
		return 1
	case !ka.ok && kb.ok:
		return -1
	case !ka.ok && !kb.ok:
		return strings.Compare(a, b)
	}
	if c := cmp.Compare(ka.year, kb.year); c != 0 {
		return c
	}
	if c := cmp.Compare(ka.month, kb.month); c != 0 {
		return c
	}
	return cmp.Compare(ka.day, kb.day)
}

// SortTransactions orders records newest date first, then by ascending ID.
func SortTransactions(records []Transaction) {
	slices.SortStableFunc(records, func(a, b Transaction) int {
		if c := CompareDateLabels(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
