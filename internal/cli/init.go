// Package cli provides the bootstrap shared by the ledger commands: logging,
// .env loading, configuration and the wiring of the transaction service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/sheets/google"
)

// SetupLogger builds the process logger and installs it as the slog default.
// debug overrides the configured level.
func SetupLogger(level string, debug bool, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if debug {
		lvl, err = slog.LevelDebug, nil
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = log.ComponentCLI
	if out != nil {
		cfg.Output = out
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, err
}

// LoadEnvFile loads a .env file. An empty path loads ./.env and a missing
// default file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadAndValidateConfig reads the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewService opens the configured backend, loads the store from it and
// returns a service that owns every resource it opened.
func NewService(ctx context.Context, cfg *config.Config, logger *log.Logger) (*services.TransactionService, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	lang, err := core.ParseLanguage(cfg.TaxLabelLang)
	if err != nil {
		return nil, err
	}
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	factory := backend.NewFactory(logger)
	res, err := factory.CreateBackend(ctx, bc)
	if err != nil {
		return nil, err
	}
	store, err := ledger.Open(ctx, res.Persister, ledger.WithCacheSize(cfg.CacheSize))
	if err != nil {
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		return nil, err
	}
	publisher, err := factory.CreatePublisher(ctx, bc)
	if err != nil {
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
		return nil, err
	}

	svc := services.NewTransactionService(store, publisher, services.Options{
		Formatter: core.Formatter{Symbol: cfg.CurrencySymbol},
		Language:  lang,
		PageSize:  cfg.PageSize,
		Logger:    logger,
	})
	if res.Cleanup != nil {
		svc.OnClose(res.Cleanup)
	}

	logger.DebugContext(ctx, "Ledger loaded",
		log.FieldBackend, cfg.DataBackend,
		log.FieldCount, store.Len())
	return svc, nil
}

// NewSheetsClient returns the spreadsheet client used by export and import.
func NewSheetsClient(ctx context.Context, cfg *config.Config) (*google.Client, error) {
	if !cfg.SheetsConfigured() {
		return nil, errors.New("GOOGLE_SPREADSHEET_ID is not set")
	}
	return google.New(ctx, google.Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
