package ledger

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

type fakePersister struct {
	loaded  []core.Transaction
	seq     int64
	rows    map[int64]core.Transaction
	failErr error
	calls   []string
}

func newFakePersister(loaded ...core.Transaction) *fakePersister {
	f := &fakePersister{loaded: loaded, rows: map[int64]core.Transaction{}}
	for _, t := range loaded {
		f.rows[t.ID] = t
		f.seq = max(f.seq, t.ID)
	}
	return f
}

func (f *fakePersister) LoadTransactions(context.Context) ([]core.Transaction, error) {
	return slices.Clone(f.loaded), nil
}

func (f *fakePersister) InsertTransaction(_ context.Context, d core.TransactionDraft) (int64, error) {
	f.calls = append(f.calls, "insert")
	if f.failErr != nil {
		return 0, f.failErr
	}
	f.seq++
	f.rows[f.seq] = d.WithID(f.seq)
	return f.seq, nil
}

func (f *fakePersister) UpdateTransaction(_ context.Context, t core.Transaction) error {
	f.calls = append(f.calls, "update")
	if f.failErr != nil {
		return f.failErr
	}
	f.rows[t.ID] = t
	return nil
}

func (f *fakePersister) DeleteTransaction(_ context.Context, id int64) error {
	f.calls = append(f.calls, "delete")
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.rows, id)
	return nil
}

func draft(date, title string, c core.Category, amount string) core.TransactionDraft {
	return core.TransactionDraft{
		Date:     date,
		Title:    title,
		Category: c,
		Amount:   decimal.RequireFromString(amount),
	}
}

func collectIDs(seq func(func(core.Transaction) bool)) []int64 {
	var ids []int64
	for t := range seq {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestStore_EndToEnd(t *testing.T) {
	ctx := context.Background()
	s := New()

	salary, err := s.Insert(ctx, draft("07 April", "Salary", core.Income, "1500.00"))
	if err != nil {
		t.Fatalf("insert salary: %v", err)
	}
	rent, err := s.Insert(ctx, draft("07 April", "Rent", core.Outcome, "-1200.00"))
	if err != nil {
		t.Fatalf("insert rent: %v", err)
	}
	if salary.ID != 1 || rent.ID != 2 {
		t.Fatalf("unexpected ids: %d, %d", salary.ID, rent.ID)
	}

	totals := s.Totals()
	if !totals.Income.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("income: %s", totals.Income)
	}
	if !totals.Outcome.Equal(decimal.RequireFromString("-1200")) {
		t.Fatalf("outcome: %s", totals.Outcome)
	}
	if got := core.FormatAmount(rent.Amount, rent.Category); got != "-$1,200.00" {
		t.Fatalf("rent display: %q", got)
	}

	p0, err := s.Page("", 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	p1, _ := s.Page("", 1, 1)
	if p0.TotalPages != 2 || len(p0.Items) != 1 || len(p1.Items) != 1 {
		t.Fatalf("unexpected pages: %+v / %+v", p0, p1)
	}
	if p0.Items[0].ID != salary.ID || p1.Items[0].ID != rent.ID {
		t.Fatalf("pages out of insertion order: %d, %d", p0.Items[0].ID, p1.Items[0].ID)
	}
}

func TestStore_OrderingAndFilter(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, d := range []core.TransactionDraft{
		draft("07 April", "Shopping", core.Income, "75"),
		draft("08 April", "Groceries", core.Outcome, "-150"),
		draft("10 March", "Old", core.Outcome, "-5"),
		draft("07 April", "Rent", core.Outcome, "-1200"),
	} {
		if _, err := s.Insert(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	if got, want := collectIDs(s.All()), []int64{2, 1, 4, 3}; !slices.Equal(got, want) {
		t.Fatalf("all: got %v, want %v", got, want)
	}
	if got, want := collectIDs(s.ByCategory(core.Outcome)), []int64{2, 4, 3}; !slices.Equal(got, want) {
		t.Fatalf("outcome: got %v, want %v", got, want)
	}
	if got := collectIDs(s.ByCategory("Transfer")); len(got) != 0 {
		t.Fatalf("unknown category should be empty, got %v", got)
	}

	// The sequence is restartable and reflects later writes.
	seq := s.All()
	first := collectIDs(seq)
	if _, err := s.Insert(ctx, draft("09 April", "Bonus", core.Income, "10")); err != nil {
		t.Fatal(err)
	}
	second := collectIDs(seq)
	if len(second) != len(first)+1 || second[0] != 5 {
		t.Fatalf("expected fresh snapshot, got %v", second)
	}
}

func TestStore_InsertValidation(t *testing.T) {
	s := New()
	_, err := s.Insert(context.Background(), draft("07 April", "", core.Income, "1"))
	if !errors.Is(err, core.ErrEmptyTitle) || !core.IsValidation(err) {
		t.Fatalf("expected empty title validation error, got %v", err)
	}
	_, err = s.Insert(context.Background(), draft("07 April", "Rent", core.Outcome, "1200"))
	if !errors.Is(err, core.ErrSignMismatch) {
		t.Fatalf("expected sign mismatch, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("rejected drafts must not be stored")
	}
}

func TestStore_UpdateKeepsID(t *testing.T) {
	ctx := context.Background()
	s := New()
	orig, _ := s.Insert(ctx, draft("07 April", "Bonus", core.Income, "150"))

	updated, err := s.Update(ctx, orig.ID, draft("08 April", "Transport", core.Outcome, "-50"))
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != orig.ID || updated.Title != "Transport" || updated.Category != core.Outcome {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	got, _ := s.Get(orig.ID)
	if got.Date != "08 April" {
		t.Fatalf("stored record not replaced: %+v", got)
	}
	if !s.Totals().Outcome.Equal(decimal.RequireFromString("-50")) {
		t.Fatalf("totals not invalidated after update: %+v", s.Totals())
	}

	_, err = s.Update(ctx, 99, draft("08 April", "X", core.Income, "1"))
	var nf *core.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 99 {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestStore_DeleteIsIdempotentAndIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.Insert(ctx, draft("07 April", "A", core.Income, "1"))
	b, _ := s.Insert(ctx, draft("07 April", "B", core.Income, "2"))

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	after := collectIDs(s.All())
	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if again := collectIDs(s.All()); !slices.Equal(after, again) {
		t.Fatalf("state changed on repeated delete: %v vs %v", after, again)
	}

	c, _ := s.Insert(ctx, draft("07 April", "C", core.Income, "3"))
	if c.ID == b.ID || c.ID == a.ID {
		t.Fatalf("id %d was reused", c.ID)
	}
}

func TestStore_SignInvariantHoldsForAllRecords(t *testing.T) {
	ctx := context.Background()
	s := New()
	inputs := []core.TransactionDraft{
		draft("01 March", "Salary", core.Income, "3500"),
		draft("03 March", "Grocery", core.Outcome, "-120.50"),
		draft("05 March", "Bad", core.Income, "-5"),
		draft("10 March", "Bad", core.Outcome, "5"),
	}
	for _, d := range inputs {
		_, _ = s.Insert(ctx, d)
		for r := range s.All() {
			if (r.Category == core.Outcome && r.Amount.IsPositive()) || (r.Category == core.Income && r.Amount.IsNegative()) {
				t.Fatalf("sign invariant violated by %+v", r)
			}
		}
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 stored records, got %d", s.Len())
	}
}

func TestStore_PageConfigurationError(t *testing.T) {
	s := New()
	_, err := s.Page("", 0, 0)
	var ce *core.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if _, err := s.Page("Transfer", 7, 0); !core.IsValidation(err) {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestStore_PageIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.Insert(ctx, draft("07 April", "A", core.Income, "1"))

	p, _ := s.Page("", 7, 0)
	p.Items[0].Title = "mutated"
	again, _ := s.Page("", 7, 0)
	if again.Items[0].Title != "A" {
		t.Fatalf("cached page was mutated through a returned copy")
	}
}

func TestOpen_LoadsAndWritesThrough(t *testing.T) {
	ctx := context.Background()
	p := newFakePersister(
		core.Transaction{ID: 4, Date: "07 April", Title: "Salary", Category: core.Income, Amount: decimal.RequireFromString("1500")},
		core.Transaction{ID: 9, Date: "08 April", Title: "Groceries", Category: core.Outcome, Amount: decimal.RequireFromString("-150")},
	)
	s, err := Open(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 loaded records, got %d", s.Len())
	}

	created, err := s.Insert(ctx, draft("09 April", "Bonus", core.Income, "10"))
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != 10 {
		t.Fatalf("expected persister id 10, got %d", created.ID)
	}
	if _, err := s.Update(ctx, 4, draft("07 April", "Salary", core.Income, "1600")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, 9); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, 12345); err != nil {
		t.Fatal(err)
	}
	if want := []string{"insert", "update", "delete"}; !slices.Equal(p.calls, want) {
		t.Fatalf("persister calls: got %v, want %v", p.calls, want)
	}
	if _, ok := p.rows[9]; ok {
		t.Fatalf("delete was not persisted")
	}
}

func TestStore_PersisterFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	p := newFakePersister()
	s, _ := Open(ctx, p)
	orig, _ := s.Insert(ctx, draft("07 April", "A", core.Income, "1"))

	p.failErr = errors.New("disk full")
	if _, err := s.Insert(ctx, draft("07 April", "B", core.Income, "1")); !errors.Is(err, p.failErr) {
		t.Fatalf("expected wrapped persister error, got %v", err)
	}
	if _, err := s.Update(ctx, orig.ID, draft("07 April", "Z", core.Income, "9")); !errors.Is(err, p.failErr) {
		t.Fatalf("expected wrapped persister error, got %v", err)
	}
	if err := s.Delete(ctx, orig.ID); !errors.Is(err, p.failErr) {
		t.Fatalf("expected wrapped persister error, got %v", err)
	}
	got, err := s.Get(orig.ID)
	if err != nil || got.Title != "A" || s.Len() != 1 {
		t.Fatalf("state changed after failed writes: %+v (len %d, err %v)", got, s.Len(), err)
	}
}

func TestOpen_RejectsDuplicateIDs(t *testing.T) {
	dup := core.Transaction{ID: 1, Date: "07 April", Title: "A", Category: core.Income, Amount: decimal.RequireFromString("1")}
	p := newFakePersister()
	p.loaded = []core.Transaction{dup, dup}
	if _, err := Open(context.Background(), p); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

// reusingPersister hands out the IDs in order, whatever was deleted.
type reusingPersister struct {
	*fakePersister
	ids []int64
}

func (r *reusingPersister) InsertTransaction(ctx context.Context, d core.TransactionDraft) (int64, error) {
	if _, err := r.fakePersister.InsertTransaction(ctx, d); err != nil {
		return 0, err
	}
	id := r.ids[0]
	r.ids = r.ids[1:]
	return id, nil
}

func TestStore_RejectsIDReusedByPersister(t *testing.T) {
	ctx := context.Background()
	p := &reusingPersister{fakePersister: newFakePersister(), ids: []int64{1, 2, 1, 3}}
	s, err := Open(ctx, p)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := s.Insert(ctx, draft("07 April", "A", core.Income, "1"))
	if _, err := s.Insert(ctx, draft("07 April", "B", core.Income, "1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Insert(ctx, draft("07 April", "C", core.Income, "1")); !errors.Is(err, ErrIDReused) {
		t.Fatalf("Insert() error = %v, want ErrIDReused", err)
	}
	if _, err := s.Get(1); !core.IsNotFound(err) || s.Len() != 1 {
		t.Fatalf("rejected insert must not enter the store (len %d, get err %v)", s.Len(), err)
	}

	next, err := s.Insert(ctx, draft("07 April", "D", core.Income, "1"))
	if err != nil || next.ID != 3 {
		t.Fatalf("Insert() = %d, %v; want id 3", next.ID, err)
	}
}

func TestStore_WithCacheSizeBoundsMemoizedPages(t *testing.T) {
	ctx := context.Background()
	s := New(WithCacheSize(2))
	for i := 0; i < 5; i++ {
		if _, err := s.Insert(ctx, draft("07 April", "T", core.Income, "1")); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 5; i++ {
		if _, err := s.Page("", 1, i); err != nil {
			t.Fatal(err)
		}
	}
	if n := s.pages.Size(); n != 2 {
		t.Fatalf("memoized pages = %d, want 2", n)
	}

	if got := New(WithCacheSize(0)).cacheSize; got != defaultCacheSize {
		t.Fatalf("cacheSize = %d, want default %d", got, defaultCacheSize)
	}
}
