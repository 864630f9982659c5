package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T, h http.HandlerFunc) *RazorpayGateway {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRazorpayGateway(Config{
		KeyID:       "rzp_test_key",
		KeySecret:   "shh",
		BaseURL:     srv.URL + "/",
		MaxFailures: 2,
	}, zap.NewNop())
}

func TestCreateOrder_Success(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "shh", pass)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(90000), req.Amount)

		_ = json.NewEncoder(w).Encode(GatewayOrder{ID: "order_123", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	})

	order, err := g.CreateOrder(context.Background(), OrderRequest{Amount: MinorUnits(900), Currency: "INR", Receipt: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(90000), order.Amount)
}

func TestCreateOrder_RejectedDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	})

	for i := 0; i < 4; i++ {
		_, err := g.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
		assert.ErrorIs(t, err, ErrGatewayRejected)
		assert.Contains(t, err.Error(), "amount too small")
	}
	assert.Equal(t, int32(4), calls.Load())
}

func TestCreateOrder_ServerErrorsOpenBreaker(t *testing.T) {
	var calls atomic.Int32
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		_, err := g.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	}

	_, err := g.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the gateway")
}

func TestVerify(t *testing.T) {
	g := NewRazorpayGateway(Config{KeyID: "k", KeySecret: "secret"}, zap.NewNop())

	good := Proof{OrderID: "order_1", PaymentID: "pay_1", Signature: Sign("secret", "order_1", "pay_1")}
	assert.NoError(t, g.Verify(good))

	bad := good
	bad.PaymentID = "pay_2"
	assert.ErrorIs(t, g.Verify(bad), ErrInvalidSignature)

	assert.ErrorIs(t, g.Verify(Proof{OrderID: "order_1"}), ErrInvalidSignature)
}
