package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeposit(t *testing.T) {
	ts := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		amount     int64
		wantErr    bool
		wantSigned int64
	}{
		{name: "Positive amount yields positive signed amount", amount: 1000, wantSigned: 1000},
		{name: "Zero amount is accepted", amount: 0, wantSigned: 0},
		{name: "Negative amount should fail", amount: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewDeposit(ts, tt.amount, "allowance")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, TransactionKindDeposit, tx.Kind)
			assert.Equal(t, ts, tx.Timestamp)
			assert.Equal(t, "allowance", tx.Source)
			assert.Equal(t, tt.wantSigned, tx.SignedAmount())
		})
	}
}

func TestNewSpend(t *testing.T) {
	ts := time.Date(2025, 1, 5, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		amount     int64
		wantErr    bool
		wantSigned int64
	}{
		{name: "Positive amount yields negative signed amount", amount: 300, wantSigned: -300},
		{name: "Zero amount is accepted", amount: 0, wantSigned: 0},
		{name: "Negative amount should fail", amount: -50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewSpend(ts, tt.amount, "toy")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, TransactionKindSpend, tx.Kind)
			assert.Equal(t, "toy", tx.Source)
			assert.Equal(t, tt.wantSigned, tx.SignedAmount())
		})
	}
}

func TestNewInterestCredit(t *testing.T) {
	ts := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	credit := NewInterestCredit(ts, 2)
	assert.Equal(t, TransactionKindInterestCredit, credit.Kind)
	assert.Equal(t, InterestCreditSource, credit.Source)
	assert.Equal(t, int64(2), credit.SignedAmount())
	assert.True(t, credit.IsInterestCredit())

	// Overdrawn accounts accrue negative interest, signed as-is
	debit := NewInterestCredit(ts, -2)
	assert.Equal(t, int64(-2), debit.SignedAmount())
	assert.NoError(t, debit.Validate())
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{
			name: "Deposit with positive amount should pass",
			tx:   Transaction{Kind: TransactionKindDeposit, Amount: 500, Source: "birthday"},
		},
		{
			name: "Spend with empty description should pass",
			tx:   Transaction{Kind: TransactionKindSpend, Amount: 200},
		},
		{
			name:    "Deposit with negative amount should fail",
			tx:      Transaction{Kind: TransactionKindDeposit, Amount: -500},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "Spend with negative amount should fail",
			tx:      Transaction{Kind: TransactionKindSpend, Amount: -1},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "Negative interest credit should pass",
			tx:   Transaction{Kind: TransactionKindInterestCredit, Amount: -3, Source: InterestCreditSource},
		},
		{
			name:    "Unknown kind should fail",
			tx:      Transaction{Kind: TransactionKind("REFUND"), Amount: 10},
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseTransactionKind(t *testing.T) {
	tests := []struct {
		input   string
		want    TransactionKind
		wantErr bool
	}{
		{input: "deposit", want: TransactionKindDeposit},
		{input: " SPEND ", want: TransactionKindSpend},
		{input: "Interest Credit", want: TransactionKindInterestCredit},
		{input: "interest", want: TransactionKindInterestCredit},
		{input: "INTEREST_CREDIT", want: TransactionKindInterestCredit},
		{input: "withdrawal", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransaction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSumSignedAmounts_OrderIndependent(t *testing.T) {
	ts := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	deposit, _ := NewDeposit(ts, 500, "gift")
	spend, _ := NewSpend(ts, 200, "book")
	interest := NewInterestCredit(ts, 1)

	assert.Equal(t, int64(301), SumSignedAmounts([]Transaction{deposit, spend, interest}))
	assert.Equal(t, int64(301), SumSignedAmounts([]Transaction{interest, spend, deposit}))
	assert.Equal(t, int64(0), SumSignedAmounts(nil))
}

func TestNewTransactionPosted(t *testing.T) {
	ts := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	spend, err := NewSpend(ts, 250, "movie")
	require.NoError(t, err)

	event := NewTransactionPosted(spend, ts.Add(time.Minute))

	assert.Equal(t, TransactionKindSpend, event.Kind)
	assert.Equal(t, int64(250), event.Amount)
	assert.Equal(t, int64(-250), event.SignedAmount)
	assert.Equal(t, "movie", event.Source)
	assert.Equal(t, ts.Add(time.Minute), event.PostedAt)
}
