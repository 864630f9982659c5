package checkout

import (
	"context"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/payment"
)

// CounterStore hands out sequence values. Increment must be atomic: concurrent
// callers never observe the same value. The first value for a new counter is first.
type CounterStore interface {
	Increment(ctx context.Context, name string, first int64) (int64, error)
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	SetPayment(ctx context.Context, id string, p models.Payment) (*models.Order, error)
}

type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListCoupons(ctx context.Context) ([]models.Coupon, error)
}

type IntentStore interface {
	Insert(ctx context.Context, in *models.PaymentIntent) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentIntent, error)
	// Claim marks a created intent paid and reports false if another payment
	// got there first. Release reverts a claim made with the same payment id.
	Claim(ctx context.Context, gatewayOrderID, paymentID string) (bool, error)
	Release(ctx context.Context, gatewayOrderID, paymentID string) error
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req payment.OrderRequest) (payment.GatewayOrder, error)
	Verify(proof payment.Proof) error
	KeyID() string
}

// Notifier is told about every persisted order. Failures do not undo the order.
type Notifier interface {
	OrderPlaced(ctx context.Context, o models.Order) error
}
