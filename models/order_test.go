package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, st := range OrderStatuses() {
		got, err := ParseOrderStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	got, err := ParseOrderStatus("  In_Transit ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusInTransit, got)

	_, err = ParseOrderStatus("lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderStatusesIsACopy(t *testing.T) {
	s := OrderStatuses()
	s[0] = "mutated"
	assert.Equal(t, OrderStatusPending, OrderStatuses()[0])
	assert.Len(t, s, 8)
}

func TestParsePaymentMode(t *testing.T) {
	m, err := ParsePaymentMode("COD")
	require.NoError(t, err)
	assert.Equal(t, PaymentCOD, m)
	assert.False(t, m.UsesGateway())
	assert.True(t, PaymentAdvance.UsesGateway())

	_, err = ParsePaymentMode("upi")
	assert.ErrorIs(t, err, ErrInvalidPaymentMode)
}

func TestPaymentSettings(t *testing.T) {
	ps := PaymentSettings{COD: PaymentOption{Enabled: true}}
	assert.True(t, ps.Enabled(PaymentCOD))
	assert.False(t, ps.Enabled(PaymentOnline))
	assert.False(t, ps.Enabled("upi"))
}

func TestProductVariantsLookup(t *testing.T) {
	p := Product{
		Images: []string{"a.jpg"},
		Colors: []Variant{{Name: "Red"}},
		Sizes:  []Variant{{Name: "L", PriceDelta: 50}},
	}
	_, ok := p.Color("Red")
	assert.True(t, ok)
	_, ok = p.Color("Blue")
	assert.False(t, ok)
	sz, ok := p.Size("L")
	require.True(t, ok)
	assert.Equal(t, int64(50), sz.PriceDelta)
	assert.Equal(t, "a.jpg", p.FirstImage())
	assert.Equal(t, "", Product{}.FirstImage())
}

func TestOrderHasTag(t *testing.T) {
	o := Order{Tags: []string{"gift", "Personalised"}}
	assert.True(t, o.HasTag("gift"))
	assert.False(t, o.HasTag("sale"))
}
