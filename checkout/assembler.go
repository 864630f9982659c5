package checkout

import (
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
)

const orderSource = "storefront"

// PaymentOutcome is how the order was (or will be) paid.
type PaymentOutcome struct {
	Mode      models.PaymentMode
	Status    models.PaymentStatus
	PaymentID string
}

// Assemble builds the order record for s. All snapshots are copied so later
// changes to the session's slices do not leak into the order.
func Assemble(s Session, outcome PaymentOutcome, orderNumber string, now time.Time) models.Order {
	o := models.Order{
		SchemaVersion: models.OrderSchemaVersion,
		OrderNumber:   orderNumber,
		ProductID:     s.Product.ID,
		ProductName:   s.Product.Name,
		ProductImage:  s.Product.FirstImage(),
		CategoryID:    s.Product.CategoryID,
		Tags:          append([]string{}, s.Product.Tags...),
		CustomOptions: append([]models.CustomOption{}, s.CustomOptions...),
		Pricing:       s.Quote.Pricing(),
		Customer:      s.Customer,
		Payment: models.Payment{
			Mode:      outcome.Mode,
			Status:    outcome.Status,
			PaymentID: outcome.PaymentID,
		},
		Status:    models.OrderStatusPending,
		Source:    orderSource,
		CreatedAt: now,
		Timeline:  map[string]time.Time{string(models.OrderStatusPending): now},
	}
	if s.Color != nil {
		c := *s.Color
		o.Variants.Color = &c
	}
	if s.Size != nil {
		sz := *s.Size
		o.Variants.Size = &sz
	}
	if s.Quote.Coupon != nil {
		o.CouponCode = s.Quote.Coupon.Code
	}
	return o
}
