package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/core"
	"ledger/internal/events"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/share"
)

// Input is a transaction as typed by the user. Amount and Category are raw
// strings; a zero Date means "today" on create and "unchanged" on edit.
type Input struct {
	Title    string
	Amount   string
	Category string
	Date     time.Time
}

// Overview is the formatted totals header.
type Overview struct {
	Totals  core.Totals
	Income  string
	Outcome string
	Balance string
}

// Exporter writes a snapshot of the ledger somewhere else.
type Exporter interface {
	Export(ctx context.Context, txs []core.Transaction) error
}

// Importer reads drafts from somewhere else.
type Importer interface {
	Import(ctx context.Context) ([]core.TransactionDraft, error)
}

type Options struct {
	Formatter core.Formatter
	Language  core.Language
	PageSize  int
	Logger    *log.Logger
	Now       func() time.Time
}

// TransactionService runs the input flow on top of the store: it turns raw
// input into drafts, applies them, and emits change events. Events are best
// effort; a failed publish is logged and never fails the mutation.
type TransactionService struct {
	store     *ledger.Store
	publisher events.Publisher
	formatter core.Formatter
	language  core.Language
	pageSize  int
	logger    *log.Logger
	sl        *log.StructuredLogger
	now       func() time.Time
	closers   []func() error
}

func NewTransactionService(store *ledger.Store, publisher events.Publisher, opts Options) *TransactionService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if opts.Formatter.Symbol == "" {
		opts.Formatter = core.DefaultFormatter
	}
	if opts.Language == "" {
		opts.Language = core.English
	}
	if opts.PageSize == 0 {
		opts.PageSize = core.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.WithComponent(log.ComponentLedger)
	return &TransactionService{
		store:     store,
		publisher: publisher,
		formatter: opts.Formatter,
		language:  opts.Language,
		pageSize:  opts.PageSize,
		logger:    logger,
		sl:        log.NewStructuredLogger(logger),
		now:       opts.Now,
	}
}

// OnClose registers a cleanup run by Close, e.g. a backend's database handle.
func (s *TransactionService) OnClose(fn func() error) {
	if fn != nil {
		s.closers = append(s.closers, fn)
	}
}

func (s *TransactionService) Formatter() core.Formatter {
	return s.formatter
}

// BuildDraft applies the input rules: the amount is parsed leniently, signed
// by category, and the tax label is derived from it.
func (s *TransactionService) BuildDraft(in Input) (core.TransactionDraft, error) {
	c, err := core.ParseCategory(in.Category)
	if err != nil {
		return core.TransactionDraft{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	amount := core.SignedAmount(core.ParseAmount(in.Amount), c)
	return core.TransactionDraft{
		Date:     core.DateLabel(date),
		Title:    strings.TrimSpace(in.Title),
		Category: c,
		Amount:   amount,
		TaxLabel: s.formatter.TaxLabel(amount, s.language),
	}, nil
}

func (s *TransactionService) Create(ctx context.Context, in Input) (core.Transaction, error) {
	d, err := s.BuildDraft(in)
	if err != nil {
		s.sl.LogError(ctx, "Invalid transaction input", err, log.OpCreate, nil)
		return core.Transaction{}, err
	}
	return s.insert(ctx, d)
}

func (s *TransactionService) insert(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	t, err := s.store.Insert(ctx, d)
	if err != nil {
		s.sl.LogError(ctx, "Failed to create transaction", err, log.OpCreate, log.NewFields().WithTransaction(d.WithID(0)))
		return core.Transaction{}, err
	}
	s.sl.LogTransaction(ctx, log.OpCreate, t)
	s.publish(ctx, events.NewTransactionEvent(events.TransactionCreated, t))
	return t, nil
}

// Edit replaces the transaction's fields. A zero input date keeps the
// existing date label.
func (s *TransactionService) Edit(ctx context.Context, id int64, in Input) (core.Transaction, error) {
	existing, err := s.store.Get(id)
	if err != nil {
		s.sl.LogError(ctx, "Failed to edit transaction", err, log.OpUpdate, nil)
		return core.Transaction{}, err
	}
	d, err := s.BuildDraft(in)
	if err != nil {
		s.sl.LogError(ctx, "Invalid transaction input", err, log.OpUpdate, nil)
		return core.Transaction{}, err
	}
	if in.Date.IsZero() {
		d.Date = existing.Date
	}

	t, err := s.store.Update(ctx, id, d)
	if err != nil {
		s.sl.LogError(ctx, "Failed to edit transaction", err, log.OpUpdate, nil)
		return core.Transaction{}, err
	}
	s.sl.LogTransaction(ctx, log.OpUpdate, t)
	s.publish(ctx, events.NewTransactionEvent(events.TransactionUpdated, t))
	return t, nil
}

// Delete removes the transaction. Deleting an unknown ID succeeds and emits
// nothing.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	existing, err := s.store.Get(id)
	if core.IsNotFound(err) {
		s.logger.DebugContext(ctx, "Delete of unknown transaction ignored", log.FieldTransactionID, id)
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.sl.LogError(ctx, "Failed to delete transaction", err, log.OpDelete, nil)
		return err
	}
	s.sl.LogTransaction(ctx, log.OpDelete, existing)
	s.publish(ctx, events.NewDeletedEvent(id))
	return nil
}

func (s *TransactionService) Get(id int64) (core.Transaction, error) {
	return s.store.Get(id)
}

func (s *TransactionService) Overview() Overview {
	t := s.store.Totals()
	return Overview{
		Totals:  t,
		Income:  s.formatter.FormatTotal(t.Income),
		Outcome: s.formatter.FormatTotal(t.Outcome),
		Balance: s.formatter.FormatTotal(t.Balance),
	}
}

// List returns one page using the configured page size. An empty category
// lists everything.
func (s *TransactionService) List(c core.Category, pageIndex int) (core.Page, error) {
	return s.store.Page(c, s.pageSize, pageIndex)
}

// ShareMessage returns the share text for a transaction: a caption in the
// configured language followed by its deep link.
func (s *TransactionService) ShareMessage(id int64) (string, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	link := share.LinkFromTransaction(t)
	return link.Message(link.Caption(s.language)), nil
}

// OpenLink creates a transaction from a shared deep link, dated today.
func (s *TransactionService) OpenLink(ctx context.Context, raw string) (core.Transaction, error) {
	link, err := share.ParseLink(raw)
	if err != nil {
		s.sl.LogError(ctx, "Invalid share link", err, log.OpShare, nil)
		return core.Transaction{}, err
	}
	return s.Create(ctx, Input{
		Title:    link.Title,
		Amount:   link.Amount.String(),
		Category: link.Category.String(),
	})
}

func (s *TransactionService) Export(ctx context.Context, to Exporter) (int, error) {
	txs := slices.Collect(s.store.All())
	if err := to.Export(ctx, txs); err != nil {
		s.sl.LogError(ctx, "Export failed", err, log.OpExport, nil)
		return 0, fmt.Errorf("export: %w", err)
	}
	s.logger.InfoContext(ctx, "Exported transactions", log.FieldCount, len(txs))
	return len(txs), nil
}

// Import inserts every draft in order and stops at the first failure; the
// drafts already inserted stay.
func (s *TransactionService) Import(ctx context.Context, from Importer) (int, error) {
	drafts, err := from.Import(ctx)
	if err != nil {
		s.sl.LogError(ctx, "Import failed", err, log.OpImport, nil)
		return 0, fmt.Errorf("import: %w", err)
	}
	for i, d := range drafts {
		if _, err := s.insert(ctx, d); err != nil {
			return i, fmt.Errorf("import row %d: %w", i+1, err)
		}
	}
	s.logger.InfoContext(ctx, "Imported transactions", log.FieldCount, len(drafts))
	return len(drafts), nil
}

func (s *TransactionService) publish(ctx context.Context, ev events.TransactionEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		fields := log.NewFields()
		fields[log.FieldTransactionID] = ev.TransactionID
		fields[log.FieldEventType] = string(ev.Type)
		s.sl.LogError(ctx, "Failed to publish transaction event", err, log.OpPublish, fields)
	}
}

// Close releases the publisher and every registered cleanup concurrently.
func (s *TransactionService) Close() error {
	var g errgroup.Group
	g.Go(s.publisher.Close)
	for _, fn := range s.closers {
		g.Go(fn)
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("close transaction service: %w", err)
	}
	return nil
}
