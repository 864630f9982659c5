package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentIntentStatus string

const (
	IntentCreated PaymentIntentStatus = "created"
	IntentPaid    PaymentIntentStatus = "paid"
)

// PaymentIntent records a gateway order so the amount can be checked when the
// customer returns with a payment id.
type PaymentIntent struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GatewayOrderID string              `bson:"gatewayOrderId" json:"gatewayOrderId"`
	Receipt        string              `bson:"receipt" json:"receipt"`
	Amount         int64               `bson:"amount" json:"amount"` // minor units
	Currency       string              `bson:"currency" json:"currency"`
	ProductID      string              `bson:"productId" json:"productId"`
	Mode           PaymentMode         `bson:"mode" json:"mode"`
	Status         PaymentIntentStatus `bson:"status" json:"status"`
	PaymentID      string              `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
