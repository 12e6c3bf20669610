package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/ports"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	Name       string // migration source directory and migrate driver name
	DriverName string // database/sql driver
	// NumberedParams rewrites "?" placeholders as $1, $2, ...
	NumberedParams bool
	// ReturningID fetches the new ID with INSERT ... RETURNING instead of LastInsertId.
	ReturningID bool
}

var (
	SQLite   = Dialect{Name: "sqlite", DriverName: "sqlite"}
	Postgres = Dialect{Name: "postgres", DriverName: "postgres", NumberedParams: true, ReturningID: true}
)

// Repository persists transactions in a SQL database. It implements
// ports.Persister; the database owns the ID sequence, so IDs survive
// restarts and are never reused.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	logger  *log.Logger
}

var _ ports.Persister = (*Repository)(nil)

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open(SQLite.DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single local writer.
	db.SetMaxOpenConns(1)

	return newRepository(db, SQLite, dbPath, logger)
}

func NewPostgresRepository(dsn string, logger *log.Logger) (*Repository, error) {
	db, err := sql.Open(Postgres.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	return newRepository(db, Postgres, dsn, logger)
}

// A nil logger logs to stderr.
func newRepository(db *sql.DB, d Dialect, dsn string, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, dialect: d, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Dialect reports which SQL engine backs the repository.
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

// LoadTransactions implements ports.TransactionLoader
func (r *Repository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(
		`SELECT id, date_label, title, category, amount, tax_label FROM transactions ORDER BY id`))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			category string
			amount   decimal.Decimal
		)
		if err := rows.Scan(&t.ID, &t.Date, &t.Title, &category, &amount, &t.TaxLabel); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		c, err := core.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		t.Category = c
		t.Amount = amount
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	r.logger.DebugContext(ctx, "Loaded transactions",
		log.FieldCount, len(out),
		log.FieldBackend, r.dialect.Name)
	return out, nil
}

// InsertTransaction implements ports.TransactionWriter
func (r *Repository) InsertTransaction(ctx context.Context, d core.TransactionDraft) (int64, error) {
	query := `INSERT INTO transactions (date_label, title, category, amount, tax_label) VALUES (?, ?, ?, ?, ?)`
	args := []any{d.Date, d.Title, d.Category.String(), d.Amount.String(), d.TaxLabel}

	var id int64
	if r.dialect.ReturningID {
		if err := r.db.QueryRowContext(ctx, r.rebind(query+` RETURNING id`), args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
	} else {
		res, err := r.db.ExecContext(ctx, r.rebind(query), args...)
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("read inserted id: %w", err)
		}
	}

	r.logger.InfoContext(ctx, "Transaction saved",
		log.FieldOperation, log.OpCreate,
		log.FieldTransactionID, id,
		log.FieldTitle, d.Title,
		log.FieldCategory, d.Category.String(),
		log.FieldAmount, d.Amount.String(),
		log.FieldDate, d.Date)

	return id, nil
}

// UpdateTransaction implements ports.TransactionWriter
func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, r.rebind(
		`UPDATE transactions SET date_label = ?, title = ?, category = ?, amount = ?, tax_label = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
		t.Date, t.Title, t.Category.String(), t.Amount.String(), t.TaxLabel, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	if n == 0 {
		return &core.NotFoundError{ID: t.ID}
	}

	r.logger.InfoContext(ctx, "Transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTransactionID, t.ID)
	return nil
}

// DeleteTransaction implements ports.TransactionWriter
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM transactions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}

	r.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, id)
	return nil
}

// rebind converts "?" placeholders for dialects that number their parameters.
func (r *Repository) rebind(query string) string {
	if !r.dialect.NumberedParams {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
