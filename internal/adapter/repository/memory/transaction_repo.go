package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

// transactionRepository is an in-memory implementation of domain.TransactionRepository.
// It is safe for concurrent use and keeps transactions in insertion order.
type transactionRepository struct {
	mu           sync.Mutex
	transactions []domain.Transaction
}

// NewTransactionRepository creates a new in-memory transaction repository seeded with the given history
func NewTransactionRepository(seed ...domain.Transaction) domain.TransactionRepository {
	r := &transactionRepository{}
	for _, tx := range seed {
		r.transactions = append(r.transactions, withID(tx))
	}
	return r
}

// FindAll returns a copy of all stored transactions
func (r *transactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.transactions), nil
}

// Save stores a transaction, assigning an ID if it has none
func (r *transactionRepository) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := withID(tx)
	r.transactions = append(r.transactions, saved)
	return saved, nil
}

// SaveAll stores a batch of transactions under a single lock
func (r *transactionRepository) SaveAll(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := make([]domain.Transaction, len(txs))
	for i, tx := range txs {
		saved[i] = withID(tx)
	}
	r.transactions = append(r.transactions, saved...)
	return saved, nil
}

func withID(tx domain.Transaction) domain.Transaction {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	return tx
}
