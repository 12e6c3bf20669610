package worker

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/core"
	"ledger/internal/events"
	"ledger/internal/log"
	"ledger/internal/ports"
)

// Exporter replaces the mirrored copy with a full snapshot.
type Exporter interface {
	Export(ctx context.Context, txs []core.Transaction) error
}

// MirrorWorker keeps a spreadsheet in step with a shared database. Each
// change event triggers a reload of the ledger and a full export, so lost or
// reordered events only delay the mirror.
type MirrorWorker struct {
	source   ports.TransactionLoader
	exporter Exporter
	logger   *log.Logger

	// Events older than the last export carry no newer state.
	lastExport time.Time
}

func NewMirrorWorker(source ports.TransactionLoader, exporter Exporter, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		source:   source,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentSheets),
	}
}

// HandleEvent mirrors the ledger after a change.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev events.TransactionEvent) error {
	if !ev.Timestamp.IsZero() && ev.Timestamp.Before(w.lastExport) {
		w.logger.DebugContext(ctx, "Event already covered by last export",
			log.FieldEventType, string(ev.Type),
			log.FieldTransactionID, ev.TransactionID)
		return nil
	}
	w.logger.InfoContext(ctx, "Processing transaction event",
		log.FieldEventType, string(ev.Type),
		log.FieldTransactionID, ev.TransactionID)
	return w.Sync(ctx)
}

// Sync exports the current ledger. Called on startup to catch up on events
// missed while the worker was down.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	started := time.Now()
	txs, err := w.source.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	core.SortTransactions(txs)

	if err := w.exporter.Export(ctx, txs); err != nil {
		w.logger.ErrorContext(ctx, "Failed to mirror ledger",
			log.FieldError, err,
			log.FieldCount, len(txs))
		return fmt.Errorf("export: %w", err)
	}
	w.lastExport = started

	w.logger.InfoContext(ctx, "Ledger mirrored",
		log.FieldCount, len(txs),
		"duration", time.Since(started).Round(time.Millisecond))
	return nil
}
