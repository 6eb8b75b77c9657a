package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionPosted is emitted after a transaction has been persisted and added to the account
type TransactionPosted struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Kind          TransactionKind `json:"kind"`
	Amount        int64           `json:"amount"`
	SignedAmount  int64           `json:"signed_amount"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	PostedAt      time.Time       `json:"posted_at"`
}

// NewTransactionPosted builds the event for a persisted transaction
func NewTransactionPosted(tx Transaction, postedAt time.Time) TransactionPosted {
	return TransactionPosted{
		TransactionID: tx.ID,
		Kind:          tx.Kind,
		Amount:        tx.Amount,
		SignedAmount:  tx.SignedAmount(),
		Source:        tx.Source,
		Timestamp:     tx.Timestamp,
		PostedAt:      postedAt,
	}
}
