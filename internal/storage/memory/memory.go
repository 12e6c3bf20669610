package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"ledger/internal/core"
	"ledger/internal/ports"
)

// Store is a process-local persister. It keeps its own ID sequence so IDs
// are never handed out twice during the life of the process.
type Store struct {
	mu    sync.Mutex
	seq   int64
	items []core.Transaction
}

var _ ports.Persister = (*Store)(nil)

// SeedFile is the YAML layout accepted by NewFromFile.
type SeedFile struct {
	Transactions []SeedTransaction `yaml:"transactions"`
}

// SeedTransaction is one seeded record. Amount is read leniently, so both
// "1500" and "-$1,500.00" work; the sign always follows the category.
type SeedTransaction struct {
	Date     string `yaml:"date"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Amount   string `yaml:"amount"`
	Tax      string `yaml:"tax,omitempty"`
}

func New(seed ...core.TransactionDraft) *Store {
	s := &Store{}
	for _, d := range seed {
		s.seq++
		s.items = append(s.items, d.WithID(s.seq))
	}
	return s
}

// NewFromFile seeds the store from a YAML file. A missing file yields an
// empty store; malformed content or invalid records are an error.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	drafts, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return New(drafts...), nil
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(data []byte) ([]core.TransactionDraft, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	drafts := make([]core.TransactionDraft, 0, len(f.Transactions))
	for i, st := range f.Transactions {
		c, err := core.ParseCategory(st.Category)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		amount := core.SignedAmount(core.ParseAmount(st.Amount), c)
		tax := st.Tax
		if tax == "" {
			tax = core.TaxLabel(amount, core.English)
		}
		d := core.TransactionDraft{Date: st.Date, Title: st.Title, Category: c, Amount: amount, TaxLabel: tax}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func (s *Store) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *Store) InsertTransaction(_ context.Context, d core.TransactionDraft) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.items = append(s.items, d.WithID(s.seq))
	return s.seq, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(t.ID)
	if i < 0 {
		return &core.NotFoundError{ID: t.ID}
	}
	s.items[i] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(t core.Transaction) bool { return t.ID == id })
}
