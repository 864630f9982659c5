package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/pricing"
)

// Selection is what the customer submits from the product page and checkout form.
type Selection struct {
	ProductID     string                `json:"productId"`
	Color         string                `json:"color,omitempty"`
	Size          string                `json:"size,omitempty"`
	CustomOptions []models.CustomOption `json:"customOptions,omitempty"`
	Mode          models.PaymentMode    `json:"paymentMode,omitempty"`
	CouponCode    string                `json:"couponCode,omitempty"`
	Customer      models.Customer       `json:"customer"`
}

// Session is the priced checkout state. It is a value: building a session for a
// different mode or coupon produces a new one.
type Session struct {
	Product         models.Product        `json:"product"`
	Color           *models.Variant       `json:"color,omitempty"`
	Size            *models.Variant       `json:"size,omitempty"`
	CustomOptions   []models.CustomOption `json:"customOptions,omitempty"`
	Mode            models.PaymentMode    `json:"paymentMode"`
	OfferedModes    []models.PaymentMode  `json:"offeredModes"`
	Quote           pricing.Quote         `json:"quote"`
	EligibleCoupons []models.Coupon       `json:"eligibleCoupons"`
	Customer        models.Customer       `json:"customer"`
}

// OfferedModes returns the enabled modes in preference order online, cod, advance.
// Products with no settings at all fall back to online.
func OfferedModes(ps models.PaymentSettings) []models.PaymentMode {
	var out []models.PaymentMode
	for _, m := range []models.PaymentMode{models.PaymentOnline, models.PaymentCOD, models.PaymentAdvance} {
		if ps.Enabled(m) {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		out = append(out, models.PaymentOnline)
	}
	return out
}

// DefaultMode is the mode preselected on the checkout page.
func DefaultMode(ps models.PaymentSettings) models.PaymentMode {
	return OfferedModes(ps)[0]
}

// BuildSession prices sel against product p. A coupon code, if any, must resolve
// to exactly one coupon that is eligible for the resulting subtotal and mode.
func BuildSession(p models.Product, sel Selection, coupons []models.Coupon, now time.Time) (Session, error) {
	s := Session{
		Product:       p,
		CustomOptions: sel.CustomOptions,
		OfferedModes:  OfferedModes(p.PaymentSettings),
		Customer:      trimCustomer(sel.Customer),
	}

	if sel.Color != "" {
		v, ok := p.Color(sel.Color)
		if !ok {
			return Session{}, fmt.Errorf("%w: color %q", ErrUnknownVariant, sel.Color)
		}
		s.Color = &v
	}
	if sel.Size != "" {
		v, ok := p.Size(sel.Size)
		if !ok {
			return Session{}, fmt.Errorf("%w: size %q", ErrUnknownVariant, sel.Size)
		}
		s.Size = &v
	}

	s.Mode = sel.Mode
	if s.Mode == "" {
		s.Mode = s.OfferedModes[0]
	}
	if !containsMode(s.OfferedModes, s.Mode) {
		return Session{}, fmt.Errorf("%w: %s", ErrPaymentModeUnavailable, s.Mode)
	}

	subtotal := pricing.Subtotal(p, s.Color, s.Size)
	in := pricing.EligibilityInput{
		Subtotal:  subtotal,
		Mode:      s.Mode,
		ProductID: p.ID,
		Now:       now,
	}
	s.EligibleCoupons = pricing.EligibleCoupons(coupons, in)

	var applied *models.Coupon
	if strings.TrimSpace(sel.CouponCode) != "" {
		c, err := pricing.ApplyCode(coupons, sel.CouponCode, in)
		if err != nil {
			return Session{}, err
		}
		applied = &c
	}
	s.Quote = pricing.NewQuote(subtotal, applied)

	return s, nil
}

// Validate checks that every customer contact field is filled in.
func Validate(c models.Customer) error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(c.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(c.Pincode) == "" {
		missing = append(missing, "pincode")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func trimCustomer(c models.Customer) models.Customer {
	return models.Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		Pincode: strings.TrimSpace(c.Pincode),
	}
}

func containsMode(modes []models.PaymentMode, m models.PaymentMode) bool {
	for _, x := range modes {
		if x == m {
			return true
		}
	}
	return false
}
