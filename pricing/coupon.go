// Package pricing evaluates coupons and computes checkout amounts. Everything
// here is a pure function of its inputs; callers own coupon selection state.
package pricing

import (
	"errors"
	"strings"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCoupon       = errors.New("invalid coupon")
	ErrCouponNotApplicable = errors.New("coupon not applicable")
)

// EligibilityInput is what a coupon is checked against.
type EligibilityInput struct {
	Subtotal  int64
	Mode      models.PaymentMode
	ProductID string
	Now       time.Time
}

// Eligible reports whether every restriction on c is satisfied.
func Eligible(c models.Coupon, in EligibilityInput) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(in.Now) {
		return false
	}
	if c.MinOrder != nil && in.Subtotal < *c.MinOrder {
		return false
	}
	if len(c.AllowedModes) > 0 && !containsMode(c.AllowedModes, in.Mode) {
		return false
	}
	if len(c.ProductIDs) > 0 && !containsString(c.ProductIDs, in.ProductID) {
		return false
	}
	return true
}

// EligibleCoupons keeps the input order.
func EligibleCoupons(coupons []models.Coupon, in EligibilityInput) []models.Coupon {
	out := make([]models.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if Eligible(c, in) {
			out = append(out, c)
		}
	}
	return out
}

// Discount is the raw discount of c on subtotal. It is not clamped; Quote does that.
func Discount(c models.Coupon, subtotal int64) int64 {
	v := decimal.NewFromFloat(c.Value)
	switch c.Type {
	case models.CouponPercent:
		return decimal.NewFromInt(subtotal).Mul(v).Div(decimal.NewFromInt(100)).Round(0).IntPart()
	case models.CouponFixed:
		return v.Round(0).IntPart()
	}
	return 0
}

// FindByCode matches a manually entered code against coupon codes, ignoring case
// and surrounding whitespace. Exactly one coupon must match.
func FindByCode(coupons []models.Coupon, code string) (models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Coupon{}, ErrInvalidCoupon
	}

	var (
		found models.Coupon
		n     int
	)
	for _, c := range coupons {
		if strings.EqualFold(strings.TrimSpace(c.Code), code) {
			found = c
			n++
		}
	}
	if n != 1 {
		return models.Coupon{}, ErrInvalidCoupon
	}
	return found, nil
}

// ApplyCode resolves code and checks it is eligible for in.
func ApplyCode(coupons []models.Coupon, code string, in EligibilityInput) (models.Coupon, error) {
	c, err := FindByCode(coupons, code)
	if err != nil {
		return models.Coupon{}, err
	}
	if !Eligible(c, in) {
		return models.Coupon{}, ErrCouponNotApplicable
	}
	return c, nil
}

func containsMode(modes []models.PaymentMode, m models.PaymentMode) bool {
	for _, x := range modes {
		if strings.EqualFold(string(x), string(m)) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
