// Package events holds publisher helpers shared by the event adapters.
package events

import (
	"context"
	"errors"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

// Fanout delivers each event to every publisher, in order
type Fanout []domain.EventPublisher

// Publish calls every publisher and joins their errors
func (f Fanout) Publish(ctx context.Context, event domain.TransactionPosted) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ domain.EventPublisher = Fanout(nil)
