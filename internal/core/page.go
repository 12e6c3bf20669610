package core

// DefaultPageSize is the number of rows shown per list page.
const DefaultPageSize = 7

// DateGroup holds the transactions that share a date label.
type DateGroup struct {
	Date         string
	Transactions []Transaction
}

// Page is one slice of a sorted transaction list, regrouped by date.
type Page struct {
	Items       []Transaction
	Groups      []DateGroup
	Index       int // zero-based
	TotalPages  int
	HasPrevious bool
	HasNext     bool
}

// GroupByDate groups records by date label. Labels appear in the order they
// are first seen; records keep their input order inside each group.
func GroupByDate(records []Transaction) []DateGroup {
	var groups []DateGroup
	pos := map[string]int{}
	for _, r := range records {
		i, ok := pos[r.Date]
		if !ok {
			i = len(groups)
			pos[r.Date] = i
			groups = append(groups, DateGroup{Date: r.Date})
		}
		groups[i].Transactions = append(groups[i].Transactions, r)
	}
	return groups
}

// Paginate slices the flat record list first and then groups the slice, so a
// date label that straddles a page boundary shows up on both pages.
// An out-of-range pageIndex is clamped into [0, TotalPages-1].
func Paginate(records []Transaction, pageSize, pageIndex int) (Page, error) {
	if pageSize <= 0 {
		return Page{}, &ConfigurationError{Setting: "page size", Value: pageSize}
	}
	total := len(records) / pageSize
	if len(records)%pageSize != 0 {
		total++
	}
	pageIndex = max(0, min(pageIndex, total-1))

	start := min(pageIndex*pageSize, len(records))
	end := min(start+pageSize, len(records))
	items := make([]Transaction, end-start)
	copy(items, records[start:end])

	return Page{
		Items:       items,
		Groups:      GroupByDate(items),
		Index:       pageIndex,
		TotalPages:  total,
		HasPrevious: pageIndex > 0,
		HasNext:     pageIndex < total-1,
	}, nil
}
