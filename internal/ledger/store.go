// Package ledger holds the transaction store: the single owner of all
// transaction records and of the views derived from them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/ports"
)

const defaultCacheSize = 64

// ErrIDReused is returned when the persister hands out an ID at or below one
// the store has already seen. The row it wrote is left in place; the store
// does not take it, so the two disagree until the persister is repaired.
var ErrIDReused = errors.New("persister reused a transaction id")

// Option configures a Store.
type Option func(*Store)

// WithCacheSize bounds how many memoized pages are kept. Values below 1 keep
// the default.
func WithCacheSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// Store keeps transactions in insertion order and writes every mutation
// through to the persister (when one is configured) before returning.
type Store struct {
	mu        sync.Mutex
	records   []core.Transaction
	nextID    int64
	persister ports.Persister
	cacheSize int

	sorted *cache.LRUCache[[]core.Transaction]
	totals *cache.LRUCache[core.Totals]
	pages  *cache.LRUCache[core.Page]
	views  *cache.Group
}

// New returns an empty in-memory store with no persistence.
func New(opts ...Option) *Store {
	s := &Store{cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(s)
	}
	s.sorted = cache.NewLRUCache[[]core.Transaction](3)
	s.totals = cache.NewLRUCache[core.Totals](3)
	s.pages = cache.NewLRUCache[core.Page](s.cacheSize)
	s.views = cache.NewGroup(s.sorted, s.totals, s.pages)
	return s
}

// Open creates a store backed by p and loads its current records.
func Open(ctx context.Context, p ports.Persister, opts ...Option) (*Store, error) {
	s := New(opts...)
	if p == nil {
		return s, nil
	}
	loaded, err := p.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	seen := make(map[int64]struct{}, len(loaded))
	for _, t := range loaded {
		if t.ID <= 0 {
			return nil, fmt.Errorf("load transactions: invalid id %d", t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("load transactions: duplicate id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
		s.nextID = max(s.nextID, t.ID)
	}
	s.records = loaded
	s.persister = p
	return s, nil
}

// Insert validates the draft, assigns the next unused ID and stores it.
func (s *Store) Insert(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	if s.persister != nil {
		var err error
		id, err = s.persister.InsertTransaction(ctx, d)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("persist insert: %w", err)
		}
		if id <= s.nextID {
			return core.Transaction{}, fmt.Errorf("persist insert: id %d (last %d): %w", id, s.nextID, ErrIDReused)
		}
	} else {
		id = s.nextID + 1
	}
	s.nextID = max(s.nextID, id)

	t := d.WithID(id)
	s.records = append(s.records, t)
	s.views.PurgeAll()
	return t, nil
}

// Update replaces every field of the record with the given ID except the ID.
func (s *Store) Update(ctx context.Context, id int64, d core.TransactionDraft) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t := d.WithID(id)
	if s.persister != nil {
		if err := s.persister.UpdateTransaction(ctx, t); err != nil {
			return core.Transaction{}, fmt.Errorf("persist update: %w", err)
		}
	}
	s.records[i] = t
	s.views.PurgeAll()
	return t, nil
}

// Delete removes the record with the given ID. Unknown IDs are ignored.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	if s.persister != nil {
		if err := s.persister.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("persist delete: %w", err)
		}
	}
	s.records = slices.Delete(s.records, i, i+1)
	s.views.PurgeAll()
	return nil
}

// Get returns the record with the given ID.
func (s *Store) Get(id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	return s.records[i], nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// All yields every record, newest date first and insertion order within a
// date. Each range over the sequence reads a fresh snapshot.
func (s *Store) All() iter.Seq[core.Transaction] {
	return s.seq("")
}

// ByCategory yields the records of one category in the same order as All.
func (s *Store) ByCategory(c core.Category) iter.Seq[core.Transaction] {
	if !c.IsValid() {
		return func(func(core.Transaction) bool) {}
	}
	return s.seq(c)
}

// Totals returns income, outcome and balance over all records.
func (s *Store) Totals() core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.totals.Get("all"); ok {
		return t
	}
	t := core.Summarize(slices.Values(s.records))
	s.totals.Set("all", t)
	return t
}

// Page returns one page of the sorted list, optionally limited to a
// category (an empty category means all records).
func (s *Store) Page(c core.Category, pageSize, pageIndex int) (core.Page, error) {
	if c != "" && !c.IsValid() {
		return core.Page{}, &core.ValidationError{Field: "category", Err: core.ErrInvalidCategory}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s:%d:%d", c, pageSize, pageIndex)
	if p, ok := s.pages.Get(key); ok {
		return clonePage(p), nil
	}
	p, err := core.Paginate(s.view(c), pageSize, pageIndex)
	if err != nil {
		return core.Page{}, err
	}
	s.pages.Set(key, p)
	return clonePage(p), nil
}

func (s *Store) seq(c core.Category) iter.Seq[core.Transaction] {
	return func(yield func(core.Transaction) bool) {
		s.mu.Lock()
		snapshot := s.view(c)
		s.mu.Unlock()

		for _, t := range snapshot {
			if !yield(t) {
				return
			}
		}
	}
}

// view returns the sorted, filtered records. Callers must hold s.mu and must
// not modify the returned slice.
func (s *Store) view(c core.Category) []core.Transaction {
	key := string(c)
	if v, ok := s.sorted.Get(key); ok {
		return v
	}
	v := make([]core.Transaction, 0, len(s.records))
	for _, t := range s.records {
		if c == "" || t.Category == c {
			v = append(v, t)
		}
	}
	core.SortTransactions(v)
	s.sorted.Set(key, v)
	return v
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.records, func(t core.Transaction) bool { return t.ID == id })
}

func clonePage(p core.Page) core.Page {
	p.Items = slices.Clone(p.Items)
	groups := make([]core.DateGroup, len(p.Groups))
	for i, g := range p.Groups {
		groups[i] = core.DateGroup{Date: g.Date, Transactions: slices.Clone(g.Transactions)}
	}
	p.Groups = groups
	return p
}
