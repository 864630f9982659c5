package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/imaginarygifts/storefront-backend-go/models"
	gopkgmail "gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Sender delivers one message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gopkgmail.Message) error
}

// EmailNotifier sends a plain-text order summary to the store inbox.
type EmailNotifier struct {
	from   string
	to     string
	store  string
	sender Sender
}

func NewEmailNotifier(cfg SMTPConfig, to, storeName string) *EmailNotifier {
	d := gopkgmail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Port == 465
	return &EmailNotifier{from: cfg.From, to: to, store: storeName, sender: d}
}

func (n *EmailNotifier) OrderPlaced(_ context.Context, o models.Order) error {
	m := gopkgmail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("%s: new order %s", n.store, o.OrderNumber))
	m.SetBody("text/plain", summary(o))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send order email: %w", err)
	}
	return nil
}

func (n *EmailNotifier) Name() string { return "email" }

func summary(o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n\n", o.OrderNumber)
	fmt.Fprintf(&b, "Product: %s (%s)\n", o.ProductName, o.ProductID)
	fmt.Fprintf(&b, "Subtotal: %d\nDiscount: %d\nTotal: %d\n", o.Pricing.SubTotal, o.Pricing.Discount, o.Pricing.FinalAmount)
	if o.CouponCode != "" {
		fmt.Fprintf(&b, "Coupon: %s\n", o.CouponCode)
	}
	fmt.Fprintf(&b, "Payment: %s / %s", o.Payment.Mode, o.Payment.Status)
	if o.Payment.PaymentID != "" {
		fmt.Fprintf(&b, " (%s)", o.Payment.PaymentID)
	}
	fmt.Fprintf(&b, "\n\nCustomer: %s, %s\n%s, %s\n", o.Customer.Name, o.Customer.Phone, o.Customer.Address, o.Customer.Pincode)
	return b.String()
}
