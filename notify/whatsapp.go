package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/imaginarygifts/storefront-backend-go/models"
)

const waBaseURL = "https://wa.me/"

// WhatsApp builds the pre-filled order message the customer sends to the store.
// Nothing is delivered from the server; the client opens the link.
type WhatsApp struct {
	Number    string
	StoreName string
}

func (w WhatsApp) Message(o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛍 New Order — %s\n\n", w.StoreName)
	if o.OrderNumber != "" {
		fmt.Fprintf(&b, "Order: %s\n", o.OrderNumber)
	}
	fmt.Fprintf(&b, "Name: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.Customer.Phone)
	fmt.Fprintf(&b, "Address: %s\n", o.Customer.Address)
	fmt.Fprintf(&b, "Pincode: %s\n\n", o.Customer.Pincode)

	fmt.Fprintf(&b, "Product: %s\n", o.ProductName)
	if o.Variants.Color != nil {
		fmt.Fprintf(&b, "Color: %s\n", o.Variants.Color.Name)
	}
	if o.Variants.Size != nil {
		fmt.Fprintf(&b, "Size: %s\n", o.Variants.Size.Name)
	}
	for _, opt := range o.CustomOptions {
		fmt.Fprintf(&b, "%s: %s\n", opt.Label, opt.Value)
	}

	fmt.Fprintf(&b, "\nTotal: ₹%d\n", o.Pricing.FinalAmount)
	fmt.Fprintf(&b, "Payment Mode: %s\n", strings.ToUpper(string(o.Payment.Mode)))
	if o.Payment.PaymentID != "" {
		fmt.Fprintf(&b, "Payment ID: %s\n", o.Payment.PaymentID)
	}
	return b.String()
}

// Link is the wa.me deep link to the store number with the message pre-filled.
func (w WhatsApp) Link(o models.Order) string {
	return waBaseURL + digits(w.Number) + "?text=" + encodeComponent(w.Message(o))
}

// CustomerLink opens a chat with the customer from the admin order view.
func CustomerLink(phone string) string {
	return waBaseURL + digits(phone)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// componentUnescaper restores what encodeURIComponent leaves literal but
// QueryEscape escapes, and turns the form-style + back into %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes like a browser's encodeURIComponent, which is what
// wa.me expects.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
