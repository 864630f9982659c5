package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/imaginarygifts/storefront-backend-go/metrics"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/payment"
	"go.uber.org/zap"
)

type Service struct {
	catalog   Catalog
	orders    OrderStore
	intents   IntentStore
	allocator *Allocator
	gateway   PaymentGateway
	notifier  Notifier
	currency  string
	log       *zap.Logger
	now       func() time.Time
}

type Deps struct {
	Catalog  Catalog
	Orders   OrderStore
	Intents  IntentStore
	Counters CounterStore
	Gateway  PaymentGateway
	Notifier Notifier
	Currency string
}

func NewService(d Deps, log *zap.Logger) *Service {
	if d.Currency == "" {
		d.Currency = "INR"
	}
	return &Service{
		catalog:   d.Catalog,
		orders:    d.Orders,
		intents:   d.Intents,
		allocator: NewAllocator(d.Counters),
		gateway:   d.Gateway,
		notifier:  d.Notifier,
		currency:  d.Currency,
		log:       log,
		now:       time.Now,
	}
}

// Quote prices a selection without touching any state. Customer fields are not
// required at this stage.
func (s *Service) Quote(ctx context.Context, sel Selection) (Session, error) {
	product, err := s.catalog.GetProduct(ctx, sel.ProductID)
	if err != nil {
		return Session{}, err
	}
	coupons, err := s.catalog.ListCoupons(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("load coupons: %w", err)
	}
	return BuildSession(*product, sel, coupons, s.now())
}

// PaymentStart is returned to the client to open the gateway widget.
type PaymentStart struct {
	KeyID          string  `json:"keyId"`
	GatewayOrderID string  `json:"gatewayOrderId"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	Session        Session `json:"session"`
}

// StartPayment registers a gateway order for the quoted final amount.
func (s *Service) StartPayment(ctx context.Context, sel Selection) (PaymentStart, error) {
	if err := Validate(sel.Customer); err != nil {
		return PaymentStart{}, err
	}
	session, err := s.Quote(ctx, sel)
	if err != nil {
		return PaymentStart{}, err
	}
	if !session.Mode.UsesGateway() {
		return PaymentStart{}, fmt.Errorf("%w: %s is not collected online", ErrPaymentModeUnavailable, session.Mode)
	}
	if session.Quote.FinalAmount == 0 {
		return PaymentStart{}, ErrNothingToPay
	}

	amount := payment.MinorUnits(session.Quote.FinalAmount)
	receipt := uuid.NewString()
	gwOrder, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"productId": session.Product.ID,
			"mode":      string(session.Mode),
		},
	})
	if err != nil {
		metrics.OrderPlacementFailures.WithLabelValues("gateway").Inc()
		return PaymentStart{}, fmt.Errorf("create gateway order: %w", err)
	}

	now := s.now()
	intent := &models.PaymentIntent{
		GatewayOrderID: gwOrder.ID,
		Receipt:        receipt,
		Amount:         amount,
		Currency:       s.currency,
		ProductID:      session.Product.ID,
		Mode:           session.Mode,
		Status:         models.IntentCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.intents.Insert(ctx, intent); err != nil {
		return PaymentStart{}, fmt.Errorf("save payment intent: %w", err)
	}

	return PaymentStart{
		KeyID:          s.gateway.KeyID(),
		GatewayOrderID: gwOrder.ID,
		Amount:         amount,
		Currency:       s.currency,
		Session:        session,
	}, nil
}

// PlaceOrder validates, prices and persists an order. Gateway modes need a
// signed payment proof whose gateway order matches the recomputed total.
func (s *Service) PlaceOrder(ctx context.Context, sel Selection, proof *payment.Proof) (models.Order, error) {
	if err := Validate(sel.Customer); err != nil {
		return models.Order{}, err
	}
	session, err := s.Quote(ctx, sel)
	if err != nil {
		return models.Order{}, err
	}

	outcome, err := s.settle(ctx, session, proof)
	if err != nil {
		return models.Order{}, err
	}

	claimed := proof != nil && outcome.PaymentID != ""
	if claimed {
		if err := s.claim(ctx, *proof); err != nil {
			return models.Order{}, err
		}
	}

	order, err := s.Place(ctx, session, outcome)
	if err != nil {
		if claimed {
			s.release(ctx, *proof)
		}
		return models.Order{}, err
	}
	return order, nil
}

// claim takes the payment for exactly one order.
func (s *Service) claim(ctx context.Context, proof payment.Proof) error {
	ok, err := s.intents.Claim(ctx, proof.OrderID, proof.PaymentID)
	if err != nil {
		return fmt.Errorf("claim payment intent: %w", err)
	}
	if !ok {
		metrics.OrderPlacementFailures.WithLabelValues("payment_reused").Inc()
		return ErrPaymentAlreadyUsed
	}
	return nil
}

func (s *Service) release(ctx context.Context, proof payment.Proof) {
	if err := s.intents.Release(ctx, proof.OrderID, proof.PaymentID); err != nil {
		s.log.Error("failed to release payment intent",
			zap.String("gateway_order_id", proof.OrderID),
			zap.String("payment_id", proof.PaymentID),
			zap.Error(err))
	}
}

func (s *Service) settle(ctx context.Context, session Session, proof *payment.Proof) (PaymentOutcome, error) {
	if !session.Mode.UsesGateway() {
		return PaymentOutcome{Mode: session.Mode, Status: models.PaymentStatusPending}, nil
	}
	if session.Quote.FinalAmount == 0 {
		return PaymentOutcome{Mode: session.Mode, Status: models.PaymentStatusPaid}, nil
	}
	if proof == nil {
		return PaymentOutcome{}, ErrPaymentRequired
	}
	if err := s.gateway.Verify(*proof); err != nil {
		metrics.OrderPlacementFailures.WithLabelValues("verify").Inc()
		return PaymentOutcome{}, err
	}

	intent, err := s.intents.GetByGatewayOrderID(ctx, proof.OrderID)
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("load payment intent: %w", err)
	}
	if intent.Status == models.IntentPaid {
		return PaymentOutcome{}, ErrPaymentAlreadyUsed
	}
	if intent.Amount != payment.MinorUnits(session.Quote.FinalAmount) || intent.ProductID != session.Product.ID {
		metrics.OrderPlacementFailures.WithLabelValues("amount_mismatch").Inc()
		return PaymentOutcome{}, ErrPaymentAmountMismatch
	}

	return PaymentOutcome{
		Mode:      session.Mode,
		Status:    models.PaymentStatusPaid,
		PaymentID: proof.PaymentID,
	}, nil
}

// Place allocates an order number, assembles the record and persists it, in that
// order. Store failures are returned; notifications run only after the insert.
func (s *Service) Place(ctx context.Context, session Session, outcome PaymentOutcome) (models.Order, error) {
	if err := Validate(session.Customer); err != nil {
		return models.Order{}, err
	}

	number, err := s.allocator.Next(ctx)
	if err != nil {
		metrics.OrderPlacementFailures.WithLabelValues("allocate").Inc()
		return models.Order{}, err
	}

	order := Assemble(session, outcome, number, s.now())
	if err := s.orders.Insert(ctx, &order); err != nil {
		metrics.OrderPlacementFailures.WithLabelValues("persist").Inc()
		s.log.Error("order persistence failed",
			zap.String("order_number", number),
			zap.Error(err))
		return models.Order{}, fmt.Errorf("save order %s: %w", number, err)
	}

	metrics.OrdersPlaced.WithLabelValues(string(order.Payment.Mode)).Inc()
	metrics.OrderValue.Observe(float64(order.Pricing.FinalAmount))
	if order.CouponCode != "" {
		metrics.CouponsApplied.WithLabelValues(order.CouponCode).Inc()
	}
	s.log.Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("order_id", order.ID.Hex()),
		zap.String("mode", string(order.Payment.Mode)),
		zap.Int64("final_amount", order.Pricing.FinalAmount))

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			s.log.Warn("order notification failed",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err))
		}
	}
	return order, nil
}

// ConfirmPayment handles the gateway's payment confirmation callback for an
// order that is already stored. The payment must be unused and must cover
// that order's product and final amount.
func (s *Service) ConfirmPayment(ctx context.Context, orderID string, proof payment.Proof) (*models.Order, error) {
	if err := s.gateway.Verify(proof); err != nil {
		return nil, err
	}
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Payment.Status == models.PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}

	intent, err := s.intents.GetByGatewayOrderID(ctx, proof.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load payment intent: %w", err)
	}
	if intent.Status == models.IntentPaid {
		return nil, ErrPaymentAlreadyUsed
	}
	if intent.Amount != payment.MinorUnits(order.Pricing.FinalAmount) ||
		intent.ProductID != order.ProductID ||
		intent.Mode != order.Payment.Mode {
		metrics.OrderPlacementFailures.WithLabelValues("amount_mismatch").Inc()
		return nil, ErrPaymentAmountMismatch
	}

	if err := s.claim(ctx, proof); err != nil {
		return nil, err
	}
	updated, err := s.orders.SetPayment(ctx, orderID, models.Payment{
		Mode:      intent.Mode,
		Status:    models.PaymentStatusPaid,
		PaymentID: proof.PaymentID,
	})
	if err != nil {
		s.release(ctx, proof)
		return nil, err
	}

	s.log.Info("order payment confirmed",
		zap.String("order_number", updated.OrderNumber),
		zap.String("payment_id", proof.PaymentID))
	return updated, nil
}
