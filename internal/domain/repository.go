package domain

import (
	"context"
)

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// FindAll retrieves the full persisted history of the account
	FindAll(ctx context.Context) ([]Transaction, error)

	// Save persists one transaction and returns its canonical persisted form
	// (with the assigned ID). Either the transaction is durable or an error is returned.
	Save(ctx context.Context, tx Transaction) (Transaction, error)

	// SaveAll persists a batch atomically: all transactions become durable or none do.
	// Returns the persisted forms in input order.
	SaveAll(ctx context.Context, txs []Transaction) ([]Transaction, error)
}

// EventPublisher defines the interface for publishing ledger events
type EventPublisher interface {
	// Publish announces a transaction that has been persisted and is visible in the account
	Publish(ctx context.Context, event TransactionPosted) error
}
