package cli

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/events/amqp"
	"ledger/internal/log"
	"ledger/internal/worker"
)

// RunMirror consumes AMQP change events and mirrors the shared database into
// the configured spreadsheet until ctx is cancelled.
func RunMirror(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if cfg.EventsBackend != string(backend.AMQPEvents) {
		return errors.New("mirror requires EVENTS_BACKEND=amqp")
	}
	if cfg.DataBackend == string(backend.MemoryBackend) {
		return errors.New("mirror requires a shared database: set DATA_BACKEND to sqlite or postgres")
	}

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		return err
	}
	if res.Cleanup != nil {
		defer res.Cleanup()
	}

	sheets, err := NewSheetsClient(ctx, cfg)
	if err != nil {
		return err
	}
	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect AMQP: %w", err)
	}
	defer consumer.Close()

	w := worker.NewMirrorWorker(res.Persister, sheets, logger)
	if err := w.Sync(ctx); err != nil {
		logger.WarnContext(ctx, "Startup mirror failed, waiting for events", log.FieldError, err)
	}

	err = consumer.Consume(ctx, w.HandleEvent)
	if errors.Is(err, context.Canceled) {
		logger.InfoContext(ctx, "Mirror stopped")
		return nil
	}
	return err
}
