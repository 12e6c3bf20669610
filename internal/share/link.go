// Package share builds and parses the deep links used to hand a transaction
// to another device, prefilled in the input form.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

const (
	Scheme    = "projectapp"
	InputHost = "input"
)

var ErrUnsupportedLink = errors.New("unsupported link")

// Link carries the prefill values of an input deep link. Amount is the
// unsigned magnitude; the sign is implied by Category.
type Link struct {
	Title    string
	Amount   decimal.Decimal
	Category core.Category
}

func LinkFromTransaction(t core.Transaction) Link {
	return Link{
		Title:    t.Title,
		Amount:   t.Amount.Abs(),
		Category: t.Category,
	}
}

// URL renders projectapp://input?amount=..&title=..&type=..
func (l Link) URL() string {
	q := url.Values{}
	q.Set("title", l.Title)
	q.Set("amount", l.Amount.StringFixed(2))
	q.Set("type", strings.ToLower(l.Category.String()))

	u := url.URL{Scheme: Scheme, Host: InputHost, RawQuery: q.Encode()}
	return u.String()
}

// ParseLink reads an input deep link. Amount is parsed leniently like typed
// input; a missing or unknown type is an error.
func ParseLink(raw string) (Link, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Link{}, fmt.Errorf("parse link: %w", err)
	}
	if u.Scheme != Scheme || u.Host != InputHost {
		return Link{}, fmt.Errorf("%w: %s://%s", ErrUnsupportedLink, u.Scheme, u.Host)
	}

	q := u.Query()
	c, err := core.ParseCategory(q.Get("type"))
	if err != nil {
		return Link{}, err
	}
	return Link{
		Title:    q.Get("title"),
		Amount:   core.ParseAmount(q.Get("amount")),
		Category: c,
	}, nil
}

// Caption is the default share text shown above the link.
func (l Link) Caption(lang core.Language) string {
	if lang == core.Thai {
		kind := "รายจ่าย"
		if l.Category == core.Income {
			kind = "รายรับ"
		}
		return fmt.Sprintf("ดูที่%sนี้: %s", kind, l.Title)
	}
	return fmt.Sprintf("Check out this %s: %s", strings.ToLower(l.Category.String()), l.Title)
}

// Message is the text handed to the platform share sheet.
func (l Link) Message(prefix string) string {
	return prefix + "\n" + l.URL()
}

