package ports

import (
	"context"

	"ledger/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionLoader reads every stored transaction at startup.
	TransactionLoader interface {
		LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionWriter durably applies store mutations. Each call must be
	// persisted before it returns.
	TransactionWriter interface {
		// InsertTransaction stores the draft and returns the ID it was given.
		// IDs are never handed out twice, even after deletion.
		InsertTransaction(ctx context.Context, d core.TransactionDraft) (id int64, err error)
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		// DeleteTransaction is a no-op when id does not exist.
		DeleteTransaction(ctx context.Context, id int64) error
	}

	Persister interface {
		TransactionLoader
		TransactionWriter
	}
)
