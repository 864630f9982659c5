package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderSchemaVersion is stamped on every order this service writes.
// Records without a version were written by the old browser checkout.
const OrderSchemaVersion = 2

var (
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusReturned  OrderStatus = "returned"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusReady,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// OrderStatuses lists every status in display order. Any status may replace any other.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	v := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range orderStatuses {
		if st == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

type PaymentMode string

const (
	PaymentOnline  PaymentMode = "online"
	PaymentCOD     PaymentMode = "cod"
	PaymentAdvance PaymentMode = "advance"
)

func ParsePaymentMode(s string) (PaymentMode, error) {
	switch m := PaymentMode(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentOnline, PaymentCOD, PaymentAdvance:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMode, s)
}

// UsesGateway reports whether the mode is collected through the payment gateway.
func (m PaymentMode) UsesGateway() bool { return m != PaymentCOD }

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Variants struct {
	Color *Variant `bson:"color" json:"color"`
	Size  *Variant `bson:"size" json:"size"`
}

type CustomOption struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
}

type Pricing struct {
	SubTotal    int64 `bson:"subTotal" json:"subTotal"`
	Discount    int64 `bson:"discount" json:"discount"`
	FinalAmount int64 `bson:"finalAmount" json:"finalAmount"`
}

type Customer struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
	Pincode string `bson:"pincode" json:"pincode"`
}

type Payment struct {
	Mode      PaymentMode   `bson:"mode" json:"mode"`
	Status    PaymentStatus `bson:"status" json:"status"`
	PaymentID string        `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
}

// Order is the normalized order record. Product, pricing and customer fields are
// snapshots taken at checkout and never recomputed.
type Order struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	SchemaVersion int                  `bson:"schemaVersion" json:"schemaVersion"`
	OrderNumber   string               `bson:"orderNumber" json:"orderNumber"`
	ProductID     string               `bson:"productId" json:"productId"`
	ProductName   string               `bson:"productName" json:"productName"`
	ProductImage  string               `bson:"productImage" json:"productImage"`
	CategoryID    string               `bson:"categoryId" json:"categoryId"`
	Tags          []string             `bson:"tags" json:"tags"`
	Variants      Variants             `bson:"variants" json:"variants"`
	CustomOptions []CustomOption       `bson:"customOptions" json:"customOptions"`
	Pricing       Pricing              `bson:"pricing" json:"pricing"`
	Customer      Customer             `bson:"customer" json:"customer"`
	Payment       Payment              `bson:"payment" json:"payment"`
	Status        OrderStatus          `bson:"status" json:"status"`
	CouponCode    string               `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	Source        string               `bson:"source" json:"source"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	Timeline      map[string]time.Time `bson:"timeline" json:"timeline"`
}

func (o Order) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
