package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/events"
	"ledger/internal/log"
	"ledger/internal/storage/memory"
)

type fakeExporter struct {
	calls int
	last  []core.Transaction
	err   error
}

func (f *fakeExporter) Export(_ context.Context, txs []core.Transaction) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.last = txs
	return nil
}

func newWorker(exp *fakeExporter) *MirrorWorker {
	src := memory.New(
		core.TransactionDraft{Date: "06 April", Title: "Groceries", Category: core.Outcome, Amount: decimal.RequireFromString("-84.30")},
		core.TransactionDraft{Date: "07 April", Title: "Salary", Category: core.Income, Amount: decimal.RequireFromString("1500")},
	)
	return NewMirrorWorker(src, exp, log.New(log.Config{Output: &bytes.Buffer{}}))
}

func TestMirrorWorker_Sync(t *testing.T) {
	exp := &fakeExporter{}
	w := newWorker(exp)

	if err := w.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(exp.last) != 2 || exp.last[0].Title != "Salary" {
		t.Fatalf("export should be sorted newest first: %+v", exp.last)
	}
}

func TestMirrorWorker_HandleEvent(t *testing.T) {
	exp := &fakeExporter{}
	w := newWorker(exp)
	ctx := context.Background()

	stale := events.NewDeletedEvent(1)
	stale.Timestamp = time.Now().Add(-time.Hour)

	if err := w.HandleEvent(ctx, events.NewDeletedEvent(1)); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleEvent(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if exp.calls != 1 {
		t.Fatalf("stale event should be skipped, exports = %d", exp.calls)
	}
}

func TestMirrorWorker_ExportError(t *testing.T) {
	exp := &fakeExporter{err: errors.New("quota exceeded")}
	w := newWorker(exp)

	if err := w.HandleEvent(context.Background(), events.NewDeletedEvent(1)); err == nil {
		t.Fatal("expected error so the event is requeued")
	}
	if !w.lastExport.IsZero() {
		t.Fatal("failed export must not advance lastExport")
	}
}
