package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionKind represents the kind of money movement recorded in the ledger
type TransactionKind string

const (
	TransactionKindDeposit        TransactionKind = "DEPOSIT"
	TransactionKindSpend          TransactionKind = "SPEND"
	TransactionKindInterestCredit TransactionKind = "INTEREST_CREDIT"
)

// InterestCreditSource is the source label carried by every interest credit
const InterestCreditSource = "Interest Credit"

// Transaction represents one signed monetary movement in the ledger.
// Values are immutable once created: the account never edits or deletes them.
type Transaction struct {
	ID        uuid.UUID // uuid.Nil until the repository assigns one
	Timestamp time.Time // account clock time of the movement
	Kind      TransactionKind
	Amount    int64  // minor currency units (cents)
	Source    string // origin for deposits, purpose for spends
}

// NewDeposit creates a deposit transaction.
// Returns ErrInvalidAmount if amount is negative.
func NewDeposit(timestamp time.Time, amount int64, source string) (Transaction, error) {
	if amount < 0 {
		return Transaction{}, fmt.Errorf("%w: deposit of %d", ErrInvalidAmount, amount)
	}

	return Transaction{
		Timestamp: timestamp,
		Kind:      TransactionKindDeposit,
		Amount:    amount,
		Source:    source,
	}, nil
}

// NewSpend creates a spend transaction.
// Returns ErrInvalidAmount if amount is negative.
func NewSpend(timestamp time.Time, amount int64, description string) (Transaction, error) {
	if amount < 0 {
		return Transaction{}, fmt.Errorf("%w: spend of %d", ErrInvalidAmount, amount)
	}

	return Transaction{
		Timestamp: timestamp,
		Kind:      TransactionKindSpend,
		Amount:    amount,
		Source:    description,
	}, nil
}

// NewInterestCredit creates an interest credit posted by the account itself.
// The amount is the computed interest and may be negative for an overdrawn balance.
func NewInterestCredit(timestamp time.Time, amount int64) Transaction {
	return Transaction{
		Timestamp: timestamp,
		Kind:      TransactionKindInterestCredit,
		Amount:    amount,
		Source:    InterestCreditSource,
	}
}

// SignedAmount returns the contribution of the transaction to the balance
func (t Transaction) SignedAmount() int64 {
	if t.Kind == TransactionKindSpend {
		return -t.Amount
	}
	return t.Amount
}

// IsInterestCredit reports whether the transaction was posted by interest accrual
func (t Transaction) IsInterestCredit() bool {
	return t.Kind == TransactionKindInterestCredit
}

// Validate ensures the transaction adheres to domain rules.
// Used for transactions that did not come from the constructors (bulk load, stores).
func (t Transaction) Validate() error {
	switch t.Kind {
	case TransactionKindDeposit, TransactionKindSpend:
		if t.Amount < 0 {
			return fmt.Errorf("%w: %s of %d", ErrInvalidAmount, strings.ToLower(string(t.Kind)), t.Amount)
		}
	case TransactionKindInterestCredit:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, t.Kind)
	}

	return nil
}

// ParseTransactionKind converts a case-insensitive kind name to a TransactionKind.
// "interest", "interest credit" and "interest_credit" all map to TransactionKindInterestCredit.
func ParseTransactionKind(s string) (TransactionKind, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")

	switch normalized {
	case string(TransactionKindDeposit):
		return TransactionKindDeposit, nil
	case string(TransactionKindSpend):
		return TransactionKindSpend, nil
	case string(TransactionKindInterestCredit), "INTEREST":
		return TransactionKindInterestCredit, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, s)
	}
}

// SumSignedAmounts returns the sum of the signed amounts of the given transactions
func SumSignedAmounts(transactions []Transaction) int64 {
	var total int64
	for _, t := range transactions {
		total += t.SignedAmount()
	}
	return total
}
