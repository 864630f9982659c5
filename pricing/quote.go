package pricing

import "github.com/imaginarygifts/storefront-backend-go/models"

// Quote is the priced result of a checkout selection.
type Quote struct {
	Subtotal    int64          `json:"subTotal"`
	Discount    int64          `json:"discount"`
	FinalAmount int64          `json:"finalAmount"`
	Coupon      *models.Coupon `json:"coupon,omitempty"`
}

// FinalAmount never goes below zero.
func FinalAmount(subtotal, discount int64) int64 {
	if f := subtotal - discount; f > 0 {
		return f
	}
	return 0
}

// NewQuote prices subtotal with at most one coupon.
func NewQuote(subtotal int64, coupon *models.Coupon) Quote {
	q := Quote{Subtotal: subtotal}
	if coupon != nil {
		c := *coupon
		q.Coupon = &c
		q.Discount = Discount(c, subtotal)
	}
	q.FinalAmount = FinalAmount(q.Subtotal, q.Discount)
	return q
}

func (q Quote) Pricing() models.Pricing {
	return models.Pricing{
		SubTotal:    q.Subtotal,
		Discount:    q.Discount,
		FinalAmount: q.FinalAmount,
	}
}

// Subtotal is the product base price plus the price deltas of the chosen variants.
func Subtotal(p models.Product, color, size *models.Variant) int64 {
	s := p.Price
	if color != nil {
		s += color.PriceDelta
	}
	if size != nil {
		s += size.PriceDelta
	}
	return s
}
