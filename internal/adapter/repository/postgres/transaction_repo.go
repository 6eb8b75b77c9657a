package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

const (
	selectTransactionsQuery = `
		SELECT id, occurred_at, kind, amount, source
		FROM transactions
		ORDER BY occurred_at, recorded_at
	`

	insertTransactionQuery = `
		INSERT INTO transactions (id, occurred_at, kind, amount, source)
		VALUES ($1, $2, $3, $4, $5)
	`
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// FindAll retrieves the full transaction history ordered by occurrence
func (r *transactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactionsQuery)
	if err != nil {
		return nil, storeError("query transactions", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var kind string

		if err := rows.Scan(&tx.ID, &tx.Timestamp, &kind, &tx.Amount, &tx.Source); err != nil {
			return nil, corruptError(err)
		}
		tx.Kind = domain.TransactionKind(kind)
		tx.Timestamp = tx.Timestamp.UTC()

		if err := tx.Validate(); err != nil {
			return nil, corruptError(fmt.Errorf("transaction %s: %w", tx.ID, err))
		}

		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, storeError("iterate transactions", err)
	}

	return transactions, nil
}

// Save inserts a single transaction, assigning an ID if it has none
func (r *transactionRepository) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	saved := withID(tx)

	_, err := r.db.ExecContext(ctx, insertTransactionQuery,
		saved.ID,
		saved.Timestamp,
		string(saved.Kind),
		saved.Amount,
		saved.Source,
	)
	if err != nil {
		return domain.Transaction{}, storeError("insert transaction", err)
	}

	return saved, nil
}

// SaveAll inserts all transactions in one database transaction
func (r *transactionRepository) SaveAll(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, insertTransactionQuery)
	if err != nil {
		return nil, storeError("prepare insert", err)
	}
	defer stmt.Close()

	saved := make([]domain.Transaction, len(txs))
	for i, tx := range txs {
		saved[i] = withID(tx)

		_, err = stmt.ExecContext(ctx,
			saved[i].ID,
			saved[i].Timestamp,
			string(saved[i].Kind),
			saved[i].Amount,
			saved[i].Source,
		)
		if err != nil {
			return nil, storeError(fmt.Sprintf("insert transaction %d", i), err)
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	return saved, nil
}

func withID(tx domain.Transaction) domain.Transaction {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	return tx
}

// corruptError marks a row that was read but could not be turned into a valid transaction
func corruptError(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrCorruptRecord, err)
}

// storeError marks err as a store failure so callers can match domain.ErrStoreUnavailable
func storeError(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrStoreUnavailable, op, err)
}
