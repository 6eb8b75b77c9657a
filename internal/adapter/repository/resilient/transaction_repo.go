// Package resilient wraps a transaction repository with a circuit breaker,
// plus retry with backoff for reads.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sony/gobreaker"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

// Config holds resilience parameters
type Config struct {
	// MaxRetries applies to FindAll only. Writes are attempted once.
	MaxRetries     int
	InitialBackoff time.Duration
}

// DefaultConfig returns the parameters used by the server
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
	}
}

// NewCircuitBreaker creates a circuit breaker for a transaction store
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,                // half-open: one probe
		Interval:    30 * time.Second, // closed: reset counters every 30s
		Timeout:     10 * time.Second, // open -> half-open after 10s
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// transactionRepository decorates another domain.TransactionRepository
type transactionRepository struct {
	next domain.TransactionRepository
	cb   *gobreaker.CircuitBreaker
	cfg  Config
}

// NewTransactionRepository wraps next with the given circuit breaker
func NewTransactionRepository(next domain.TransactionRepository, cb *gobreaker.CircuitBreaker, cfg Config) domain.TransactionRepository {
	return &transactionRepository{next: next, cb: cb, cfg: cfg}
}

// FindAll reads through the breaker, retrying transient failures
func (r *transactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction

	err := retryWithBackoff(ctx, r.cfg, func() error {
		result, err := r.cb.Execute(func() (interface{}, error) {
			return r.next.FindAll(ctx)
		})
		if err != nil {
			return err
		}
		transactions = result.([]domain.Transaction)
		return nil
	})
	if err != nil {
		return nil, breakerError(err)
	}

	return transactions, nil
}

// Save writes through the breaker without retrying
func (r *transactionRepository) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.Save(ctx, tx)
	})
	if err != nil {
		return domain.Transaction{}, breakerError(err)
	}
	return result.(domain.Transaction), nil
}

// SaveAll writes the batch through the breaker without retrying
func (r *transactionRepository) SaveAll(ctx context.Context, txs []domain.Transaction) ([]domain.Transaction, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.SaveAll(ctx, txs)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return result.([]domain.Transaction), nil
}

// breakerError maps the breaker's rejection errors to domain.ErrStoreUnavailable
func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

// retryWithBackoff executes fn with exponential backoff and jitter.
// Only errors wrapping domain.ErrStoreUnavailable are retried; anything else,
// including an open breaker or a corrupt record, is returned at once.
func retryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, domain.ErrStoreUnavailable) {
			return lastErr
		}

		if attempt < cfg.MaxRetries && cfg.InitialBackoff > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * cfg.InitialBackoff
			jitter := time.Duration(rand.Int63n(int64(backoff/2) + 1))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}
	}
	return lastErr
}
