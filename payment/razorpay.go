package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var (
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected request")
)

type OrderRequest struct {
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Proof is what the checkout widget hands back after a successful payment.
type Proof struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type Config struct {
	KeyID       string
	KeySecret   string
	BaseURL     string
	Timeout     time.Duration
	MaxFailures uint32
}

type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[GatewayOrder]
	log       *zap.Logger
}

func NewRazorpayGateway(cfg Config, log *zap.Logger) *RazorpayGateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	g := &RazorpayGateway{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		client:    &http.Client{Timeout: cfg.Timeout},
		log:       log,
	}
	g.breaker = gobreaker.NewCircuitBreaker[GatewayOrder](gobreaker.Settings{
		Name:    "razorpay",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Rejections are the gateway answering; only transport failures count.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrGatewayRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("payment gateway breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return g
}

func (g *RazorpayGateway) KeyID() string { return g.keyID }

// CreateOrder registers an order with the gateway so the checkout widget can collect it.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error) {
	order, err := g.breaker.Execute(func() (GatewayOrder, error) {
		return g.createOrder(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return GatewayOrder{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return order, err
}

func (g *RazorpayGateway) createOrder(ctx context.Context, req OrderRequest) (GatewayOrder, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("build order request: %w", err)
	}
	httpReq.SetBasicAuth(g.keyID, g.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: read response: %v", ErrGatewayUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return GatewayOrder{}, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return GatewayOrder{}, fmt.Errorf("%w: %s", ErrGatewayRejected, gatewayErrorDescription(raw, resp.StatusCode))
	}

	var order GatewayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: decode response: %v", ErrGatewayUnavailable, err)
	}

	g.log.Debug("gateway order created",
		zap.String("gateway_order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("receipt", order.Receipt))
	return order, nil
}

// Verify checks the widget's signature: HMAC-SHA256(order_id|payment_id) keyed with the secret.
func (g *RazorpayGateway) Verify(p Proof) error {
	if p.OrderID == "" || p.PaymentID == "" || p.Signature == "" {
		return ErrInvalidSignature
	}
	if !hmac.Equal([]byte(Sign(g.keySecret, p.OrderID, p.PaymentID)), []byte(p.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the signature the gateway attaches to a completed payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// MinorUnits converts whole currency units to the gateway's minor units (paise).
func MinorUnits(amount int64) int64 { return amount * 100 }

func gatewayErrorDescription(raw []byte, status int) string {
	var e struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Description != "" {
		return e.Error.Description
	}
	return fmt.Sprintf("status %d", status)
}
