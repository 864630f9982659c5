package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderDocument is the storage shape of an order as read back from the orders
// collection. It accepts both the current layout and the layouts written by the
// old browser checkout and the manual-order admin page. Normalize must be called
// once after decoding; nothing else should look at the legacy fields.
type OrderDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	SchemaVersion int                `bson:"schemaVersion"`
	OrderNumber   string             `bson:"orderNumber"`

	ProductID    string               `bson:"productId"`
	ProductName  string               `bson:"productName"`
	ProductImage string               `bson:"productImage"`
	Product      *legacyProduct       `bson:"product"`
	CategoryID   string               `bson:"categoryId"`
	Tags         []string             `bson:"tags"`
	Variants     *Variants            `bson:"variants"`
	Options      []CustomOption       `bson:"customOptions"`
	Pricing      *legacyPricing       `bson:"pricing"`
	Price        float64              `bson:"price"`
	Customer     *Customer            `bson:"customer"`
	CouponCode   string               `bson:"couponCode"`
	Source       string               `bson:"source"`
	Payment      *legacyPayment       `bson:"payment"`
	PaymentMode  string               `bson:"paymentMode"`
	PaymentState string               `bson:"paymentStatus"`
	PaymentID    string               `bson:"paymentId"`
	Status       string               `bson:"status"`
	OrderStatus  string               `bson:"orderStatus"`
	CreatedAt    bson.RawValue        `bson:"createdAt"`
	Timeline     map[string]time.Time `bson:"timeline"`
}

type legacyProduct struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Image string `bson:"image"`
}

type legacyPricing struct {
	SubTotal    float64 `bson:"subTotal"`
	Discount    float64 `bson:"discount"`
	FinalAmount float64 `bson:"finalAmount"`
	Total       float64 `bson:"total"`
}

type legacyPayment struct {
	Mode      string `bson:"mode"`
	Method    string `bson:"method"`
	Status    string `bson:"status"`
	PaymentID string `bson:"paymentId"`
}

// Normalize folds every known layout into the current Order shape.
func (d OrderDocument) Normalize() Order {
	o := Order{
		ID:            d.ID,
		SchemaVersion: d.SchemaVersion,
		OrderNumber:   d.OrderNumber,
		ProductID:     d.ProductID,
		ProductName:   d.ProductName,
		ProductImage:  d.ProductImage,
		CategoryID:    d.CategoryID,
		Tags:          d.Tags,
		CustomOptions: d.Options,
		CouponCode:    d.CouponCode,
		Source:        d.Source,
		CreatedAt:     rawTime(d.CreatedAt),
		Timeline:      d.Timeline,
	}
	if o.SchemaVersion == 0 {
		o.SchemaVersion = 1
	}

	if d.Product != nil {
		o.ProductID = firstNonEmpty(o.ProductID, d.Product.ID)
		o.ProductName = firstNonEmpty(o.ProductName, d.Product.Name)
		o.ProductImage = firstNonEmpty(o.ProductImage, d.Product.Image)
	}
	if d.Variants != nil {
		o.Variants = *d.Variants
	}
	if d.Customer != nil {
		o.Customer = *d.Customer
	}

	if p := d.Pricing; p != nil {
		o.Pricing = Pricing{
			SubTotal:    roundAmount(p.SubTotal),
			Discount:    roundAmount(p.Discount),
			FinalAmount: roundAmount(p.FinalAmount),
		}
		if o.Pricing.FinalAmount == 0 && p.Total != 0 {
			o.Pricing.FinalAmount = roundAmount(p.Total)
		}
	}
	if o.Pricing.FinalAmount == 0 && d.Price != 0 {
		o.Pricing.FinalAmount = roundAmount(d.Price)
	}

	var mode, status, paymentID string
	if p := d.Payment; p != nil {
		mode = firstNonEmpty(p.Mode, p.Method)
		status = p.Status
		paymentID = p.PaymentID
	}
	o.Payment = Payment{
		Mode:      PaymentMode(strings.ToLower(firstNonEmpty(mode, d.PaymentMode))),
		Status:    PaymentStatus(strings.ToLower(firstNonEmpty(status, d.PaymentState))),
		PaymentID: firstNonEmpty(paymentID, d.PaymentID),
	}

	st := strings.ToLower(firstNonEmpty(d.Status, d.OrderStatus))
	if st == "" {
		st = string(OrderStatusPending)
	}
	o.Status = OrderStatus(st)

	return o
}

// rawTime accepts a BSON date, a BSON timestamp or epoch milliseconds stored as a number.
func rawTime(v bson.RawValue) time.Time {
	switch v.Type {
	case bsontype.DateTime:
		if ms, ok := v.DateTimeOK(); ok {
			return time.UnixMilli(ms).UTC()
		}
	case bsontype.Timestamp:
		if t, _, ok := v.TimestampOK(); ok {
			return time.Unix(int64(t), 0).UTC()
		}
	case bsontype.Int64:
		if ms, ok := v.Int64OK(); ok {
			return time.UnixMilli(ms).UTC()
		}
	case bsontype.Int32:
		if ms, ok := v.Int32OK(); ok {
			return time.UnixMilli(int64(ms)).UTC()
		}
	case bsontype.Double:
		if ms, ok := v.DoubleOK(); ok {
			return time.UnixMilli(int64(ms)).UTC()
		}
	}
	return time.Time{}
}

func roundAmount(f float64) int64 { return int64(math.Round(f)) }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
