package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is created on first successful phone OTP verification.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Phone       string             `bson:"phone" json:"phone"`
	Name        string             `bson:"name" json:"name"`
	Address     string             `bson:"address" json:"address"`
	Pincode     string             `bson:"pincode" json:"pincode"`
	Role        Role               `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	LastLoginAt time.Time          `bson:"lastLoginAt" json:"lastLoginAt"`
}
