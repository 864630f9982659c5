package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/checkout"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/notify"
	"github.com/imaginarygifts/storefront-backend-go/payment"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Checkout interface {
	Quote(ctx context.Context, sel checkout.Selection) (checkout.Session, error)
	StartPayment(ctx context.Context, sel checkout.Selection) (checkout.PaymentStart, error)
	PlaceOrder(ctx context.Context, sel checkout.Selection, proof *payment.Proof) (models.Order, error)
	ConfirmPayment(ctx context.Context, orderID string, proof payment.Proof) (*models.Order, error)
}

type CheckoutHandler struct {
	checkout Checkout
	whatsapp notify.WhatsApp
	timeout  time.Duration
	log      *zap.Logger
}

func NewCheckoutHandler(svc Checkout, wa notify.WhatsApp, timeout time.Duration, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, whatsapp: wa, timeout: timeout, log: log}
}

// CreateOrderRequest is a checkout selection plus the widget's payment proof
// for gateway modes.
type CreateOrderRequest struct {
	checkout.Selection
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (r CreateOrderRequest) proof() *payment.Proof {
	if r.RazorpayOrderID == "" && r.RazorpayPaymentID == "" && r.RazorpaySignature == "" {
		return nil
	}
	return &payment.Proof{
		OrderID:   r.RazorpayOrderID,
		PaymentID: r.RazorpayPaymentID,
		Signature: r.RazorpaySignature,
	}
}

type CreateOrderResponse struct {
	Order           models.Order `json:"order"`
	WhatsAppMessage string       `json:"whatsappMessage"`
	WhatsAppLink    string       `json:"whatsappLink"`
}

func (h *CheckoutHandler) Quote(c echo.Context) error {
	var sel checkout.Selection
	if err := c.Bind(&sel); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	session, err := h.checkout.Quote(ctx, sel)
	if err != nil {
		return respondError(c, h.log, err, "Failed to price selection")
	}
	return c.JSON(http.StatusOK, session)
}

func (h *CheckoutHandler) StartPayment(c echo.Context) error {
	var sel checkout.Selection
	if err := c.Bind(&sel); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start, err := h.checkout.StartPayment(ctx, sel)
	if err != nil {
		return respondError(c, h.log, err, "Failed to start payment")
	}
	return c.JSON(http.StatusCreated, start)
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.checkout.PlaceOrder(ctx, req.Selection, req.proof())
	if err != nil {
		return respondError(c, h.log, err, "Failed to place order")
	}

	return c.JSON(http.StatusCreated, CreateOrderResponse{
		Order:           order,
		WhatsAppMessage: h.whatsapp.Message(order),
		WhatsAppLink:    h.whatsapp.Link(order),
	})
}

// ConfirmPayment records a gateway payment against an order placed earlier.
func (h *CheckoutHandler) ConfirmPayment(c echo.Context) error {
	var proof payment.Proof
	if err := c.Bind(&proof); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if proof.OrderID == "" || proof.PaymentID == "" || proof.Signature == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing payment details"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.checkout.ConfirmPayment(ctx, c.Param("id"), proof)
	if err != nil {
		return respondError(c, h.log, err, "Failed to confirm payment")
	}
	return c.JSON(http.StatusOK, order)
}
