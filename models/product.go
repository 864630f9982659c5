package models

import (
	"time"
)

type PaymentOption struct {
	Enabled bool `bson:"enabled" json:"enabled"`
}

// PaymentSettings gates which payment modes checkout offers for a product.
type PaymentSettings struct {
	Online  PaymentOption `bson:"online" json:"online"`
	COD     PaymentOption `bson:"cod" json:"cod"`
	Advance PaymentOption `bson:"advance" json:"advance"`
}

func (ps PaymentSettings) Enabled(mode PaymentMode) bool {
	switch mode {
	case PaymentOnline:
		return ps.Online.Enabled
	case PaymentCOD:
		return ps.COD.Enabled
	case PaymentAdvance:
		return ps.Advance.Enabled
	}
	return false
}

// Variant is a color or size choice. PriceDelta is added to the product's base price.
type Variant struct {
	Name       string `bson:"name" json:"name"`
	PriceDelta int64  `bson:"priceDelta,omitempty" json:"priceDelta,omitempty"`
}

type Product struct {
	ID              string          `bson:"_id" json:"id"`
	Name            string          `bson:"name" json:"name"`
	Description     string          `bson:"description" json:"description"`
	Price           int64           `bson:"price" json:"price"`
	Images          []string        `bson:"images" json:"images"`
	CategoryID      string          `bson:"categoryId" json:"categoryId"`
	Tags            []string        `bson:"tags" json:"tags"`
	Colors          []Variant       `bson:"colors" json:"colors"`
	Sizes           []Variant       `bson:"sizes" json:"sizes"`
	PaymentSettings PaymentSettings `bson:"paymentSettings" json:"paymentSettings"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage returns the primary image or an empty string.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) Color(name string) (Variant, bool) { return findVariant(p.Colors, name) }

func (p Product) Size(name string) (Variant, bool) { return findVariant(p.Sizes, name) }

func findVariant(vs []Variant, name string) (Variant, bool) {
	for _, v := range vs {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

type Category struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}
