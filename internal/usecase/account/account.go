package account

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

// AnnualInterestRate is the yearly interest rate, credited monthly as AnnualInterestRate/12
var AnnualInterestRate = decimal.RequireFromString("0.025")

// DefaultPublishTimeout bounds how long a write waits on its event publisher
const DefaultPublishTimeout = 2 * time.Second

var (
	monthsPerYear = decimal.NewFromInt(12)
	halfMonth     = decimal.NewFromInt(6) // 0.5 scaled by monthsPerYear
)

// Account owns the ledger of a single savings account.
//
// The transaction slice is never modified in place: every write builds a new
// slice, so snapshots handed out earlier are unaffected by later appends.
// Account does no locking; callers serialise access.
type Account struct {
	repo           domain.TransactionRepository
	clock          domain.Clock
	logger         *zap.Logger
	publisher      domain.EventPublisher
	publishTimeout time.Duration
	transactions   []domain.Transaction
}

// Option configures an Account
type Option func(*Account)

// WithClock overrides the clock used for interest accrual
func WithClock(clock domain.Clock) Option {
	return func(a *Account) {
		a.clock = clock
	}
}

// WithLogger sets the logger used for interest postings and publish failures
func WithLogger(logger *zap.Logger) Option {
	return func(a *Account) {
		a.logger = logger
	}
}

// WithPublisher sets the publisher notified after each transaction becomes visible
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(a *Account) {
		a.publisher = publisher
	}
}

// WithPublishTimeout overrides DefaultPublishTimeout
func WithPublishTimeout(d time.Duration) Option {
	return func(a *Account) {
		a.publishTimeout = d
	}
}

func newAccount(repo domain.TransactionRepository, clock domain.Clock, opts []Option) *Account {
	a := &Account{
		repo:           repo,
		clock:          clock,
		logger:         zap.NewNop(),
		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Open creates an Account from the full transaction history held by the repository.
// The system clock is used unless WithClock is given.
func Open(ctx context.Context, repo domain.TransactionRepository, opts ...Option) (*Account, error) {
	a := newAccount(repo, domain.SystemClock{}, opts)

	history, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	a.transactions = slices.Clone(history)

	a.logger.Info("account loaded", zap.Int("transactions", len(history)))
	return a, nil
}

// NewWithClock creates an Account with an empty ledger and an explicit clock.
// The repository is not read; it is only used for subsequent writes.
func NewWithClock(repo domain.TransactionRepository, clock domain.Clock, opts ...Option) *Account {
	a := newAccount(repo, clock, opts)
	a.transactions = []domain.Transaction{}
	return a
}

// Balance returns the account balance in minor units.
// Logic:
//  1. Run the interest accrual check (may post an interest credit)
//  2. Sum the signed amounts of all held transactions
func (a *Account) Balance(ctx context.Context) (int64, error) {
	if err := a.CreditInterestAsNeeded(ctx); err != nil {
		return 0, err
	}
	return domain.SumSignedAmounts(a.transactions), nil
}

// CreditInterestAsNeeded posts an interest credit, dated now, when ShouldCreditInterest holds.
// The interest is computed on the balance before the credit.
func (a *Account) CreditInterestAsNeeded(ctx context.Context) error {
	if !a.ShouldCreditInterest() {
		return nil
	}

	currentBalance := domain.SumSignedAmounts(a.transactions)
	interest := a.CalculateInterest(currentBalance)

	credit := domain.NewInterestCredit(a.clock.Now(), interest)
	if err := a.addNewTransaction(ctx, credit); err != nil {
		return fmt.Errorf("failed to credit interest: %w", err)
	}

	a.logger.Info("interest credited",
		zap.Int64("balance", currentBalance),
		zap.Int64("interest", interest),
	)
	return nil
}

// ShouldCreditInterest reports whether interest is due: the clock's day of month is 1.
// It does not check whether interest was already credited this month, so every
// call on the first of the month posts again.
func (a *Account) ShouldCreditInterest() bool {
	return a.clock.Now().Day() == 1
}

// CalculateInterest returns one month of interest on the balance, rounded half up:
// floor(balance * AnnualInterestRate/12 + 0.5). Negative balances give negative or zero interest.
func (a *Account) CalculateInterest(currentBalance int64) int64 {
	// Scaled by 12 so the only division happens last and ties stay exact
	scaled := decimal.NewFromInt(currentBalance).Mul(AnnualInterestRate).Add(halfMonth)
	return scaled.Div(monthsPerYear).Floor().IntPart()
}

// Deposit records money coming into the account
func (a *Account) Deposit(ctx context.Context, timestamp time.Time, amount int64, source string) error {
	deposit, err := domain.NewDeposit(timestamp, amount, source)
	if err != nil {
		return err
	}
	return a.addNewTransaction(ctx, deposit)
}

// Spend records money leaving the account. Overdrafts are allowed.
func (a *Account) Spend(ctx context.Context, timestamp time.Time, amount int64, description string) error {
	spend, err := domain.NewSpend(timestamp, amount, description)
	if err != nil {
		return err
	}
	return a.addNewTransaction(ctx, spend)
}

// Transactions returns a snapshot of the ledger. Changing it does not affect the account.
func (a *Account) Transactions() []domain.Transaction {
	return slices.Clone(a.transactions)
}

// Load imports historical transactions.
// Logic:
//  1. Validate every transaction (nothing is persisted if one is invalid)
//  2. Persist the whole batch with SaveAll
//  3. Add the persisted forms to the ledger
func (a *Account) Load(ctx context.Context, transactionsToLoad []domain.Transaction) error {
	if len(transactionsToLoad) == 0 {
		return nil
	}

	for i, tx := range transactionsToLoad {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	saved, err := a.repo.SaveAll(ctx, transactionsToLoad)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	a.transactions = appendSnapshot(a.transactions, saved...)
	a.logger.Info("transactions loaded", zap.Int("count", len(saved)))

	for _, tx := range saved {
		a.publish(ctx, tx)
	}
	return nil
}

// addNewTransaction persists the transaction and, only on success, adds the persisted form to the ledger
func (a *Account) addNewTransaction(ctx context.Context, tx domain.Transaction) error {
	saved, err := a.repo.Save(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	a.transactions = appendSnapshot(a.transactions, saved)
	a.publish(ctx, saved)
	return nil
}

func (a *Account) publish(ctx context.Context, tx domain.Transaction) {
	if a.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.publishTimeout)
	defer cancel()

	event := domain.NewTransactionPosted(tx, a.clock.Now())
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.logger.Warn("failed to publish transaction event",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err),
		)
	}
}

func appendSnapshot(current []domain.Transaction, added ...domain.Transaction) []domain.Transaction {
	next := make([]domain.Transaction, 0, len(current)+len(added))
	next = append(next, current...)
	return append(next, added...)
}
