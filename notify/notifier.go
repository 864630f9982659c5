// Package notify tells the outside world about placed orders.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/imaginarygifts/storefront-backend-go/metrics"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"go.uber.org/zap"
)

// Channel is one delivery route for order notifications.
type Channel interface {
	OrderPlaced(ctx context.Context, o models.Order) error
	Name() string
}

// Multi fans an order out to every channel. All channels are attempted even
// when one fails; the failures are logged, counted and joined.
type Multi struct {
	channels []Channel
	log      *zap.Logger
}

func NewMulti(log *zap.Logger, channels ...Channel) *Multi {
	return &Multi{channels: channels, log: log}
}

func (m *Multi) OrderPlaced(ctx context.Context, o models.Order) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.OrderPlaced(ctx, o); err != nil {
			metrics.NotificationFailures.WithLabelValues(ch.Name()).Inc()
			m.log.Warn("order notification channel failed",
				zap.String("channel", ch.Name()),
				zap.String("order_number", o.OrderNumber),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Len() int { return len(m.channels) }
