package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	gopkgmail "gopkg.in/gomail.v2"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: "IG-1001",
		ProductID:   "mug",
		ProductName: "Magic Mug",
		Variants: models.Variants{
			Color: &models.Variant{Name: "Gold"},
		},
		Pricing:   models.Pricing{SubTotal: 1000, Discount: 100, FinalAmount: 900},
		Customer:  models.Customer{Name: "Asha K", Phone: "+91 98765-43210", Address: "12 MG Road & Co", Pincode: "411001"},
		Payment:   models.Payment{Mode: models.PaymentOnline, Status: models.PaymentStatusPaid, PaymentID: "pay_1"},
		Status:    models.OrderStatusPending,
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestWhatsAppMessage(t *testing.T) {
	w := WhatsApp{Number: "917030191819", StoreName: "Imaginary Gifts"}
	msg := w.Message(sampleOrder())

	assert.True(t, strings.HasPrefix(msg, "🛍 New Order — Imaginary Gifts\n\n"))
	assert.Contains(t, msg, "Name: Asha K\n")
	assert.Contains(t, msg, "Pincode: 411001\n\n")
	assert.Contains(t, msg, "Color: Gold\n")
	assert.NotContains(t, msg, "Size:")
	assert.Contains(t, msg, "\nTotal: ₹900\n")
	assert.Contains(t, msg, "Payment Mode: ONLINE\n")
	assert.Contains(t, msg, "Payment ID: pay_1\n")

	cod := sampleOrder()
	cod.Payment = models.Payment{Mode: models.PaymentCOD}
	assert.NotContains(t, w.Message(cod), "Payment ID")
}

func TestWhatsAppLink(t *testing.T) {
	w := WhatsApp{Number: "+91 70301 91819", StoreName: "Imaginary Gifts"}
	o := sampleOrder()
	link := w.Link(o)

	require.True(t, strings.HasPrefix(link, "https://wa.me/917030191819?text="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, w.Message(o), u.Query().Get("text"))
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hi (Gold)!*'", "Hi%20(Gold)!*'"},
		{"a+b c", "a%2Bb%20c"},
		{"Total: ₹900", "Total%3A%20%E2%82%B9900"},
		{"x&y=z/~-_.", "x%26y%3Dz%2F~-_."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := encodeComponent(tt.in)
			assert.Equal(t, tt.want, got)

			back, err := url.QueryUnescape(got)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestCustomerLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/919876543210", CustomerLink("+91 98765-43210"))
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	o := sampleOrder()

	require.NoError(t, p.OrderPlaced(context.Background(), o))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "IG-1001", string(w.msgs[0].Key))

	var ev OrderCreated
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, "order.created", ev.Type)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, o.ID.Hex(), ev.OrderID)
	assert.Equal(t, int64(900), ev.FinalAmount)
	assert.Equal(t, "online", ev.PaymentMode)
	assert.True(t, ev.Paid)
}

type fakeSender struct {
	sent []*gopkgmail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gopkgmail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestEmailNotifier(t *testing.T) {
	s := &fakeSender{}
	n := &EmailNotifier{from: "shop@example.com", to: "owner@example.com", store: "Imaginary Gifts", sender: s}

	require.NoError(t, n.OrderPlaced(context.Background(), sampleOrder()))
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"Imaginary Gifts: new order IG-1001"}, s.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"owner@example.com"}, s.sent[0].GetHeader("To"))

	s.err = errors.New("dial tcp: refused")
	assert.ErrorIs(t, n.OrderPlaced(context.Background(), sampleOrder()), s.err)
}

func TestSummary(t *testing.T) {
	got := summary(sampleOrder())
	assert.Contains(t, got, "Order IG-1001")
	assert.Contains(t, got, "Total: 900")
	assert.Contains(t, got, "Payment: online / paid (pay_1)")
}

type stubChannel struct {
	name  string
	err   error
	calls int
}

func (s *stubChannel) OrderPlaced(context.Context, models.Order) error {
	s.calls++
	return s.err
}

func (s *stubChannel) Name() string { return s.name }

func TestMulti_AttemptsEveryChannel(t *testing.T) {
	boom := errors.New("broker down")
	failing := &stubChannel{name: "kafka", err: boom}
	ok := &stubChannel{name: "email"}
	m := NewMulti(zap.NewNop(), failing, ok)

	err := m.OrderPlaced(context.Background(), sampleOrder())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 2, m.Len())

	assert.NoError(t, NewMulti(zap.NewNop()).OrderPlaced(context.Background(), sampleOrder()))
}
