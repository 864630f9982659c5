package models

import "time"

type CouponType string

const (
	CouponPercent CouponType = "percent"
	CouponFixed   CouponType = "fixed"
)

type Coupon struct {
	ID           string        `bson:"_id" json:"id"`
	Code         string        `bson:"code" json:"code"`
	Type         CouponType    `bson:"type" json:"type"`
	Value        float64       `bson:"value" json:"value"`
	Active       bool          `bson:"active" json:"active"`
	ExpiresAt    *time.Time    `bson:"expiry,omitempty" json:"expiry,omitempty"`
	MinOrder     *int64        `bson:"minOrder,omitempty" json:"minOrder,omitempty"`
	AllowedModes []PaymentMode `bson:"allowedModes,omitempty" json:"allowedModes,omitempty"`
	ProductIDs   []string      `bson:"productIds,omitempty" json:"productIds,omitempty"`
}
