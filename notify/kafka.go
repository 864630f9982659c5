package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/segmentio/kafka-go"
)

const orderCreatedEvent = "order.created"

// MessageWriter is the part of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// OrderCreated is the event body. Amounts are whole currency units.
type OrderCreated struct {
	EventID     string    `json:"eventId"`
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	ProductID   string    `json:"productId"`
	CategoryID  string    `json:"categoryId,omitempty"`
	FinalAmount int64     `json:"finalAmount"`
	Discount    int64     `json:"discount"`
	CouponCode  string    `json:"couponCode,omitempty"`
	PaymentMode string    `json:"paymentMode"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewOrderCreated(o models.Order) OrderCreated {
	return OrderCreated{
		EventID:     uuid.NewString(),
		Type:        orderCreatedEvent,
		OrderID:     o.ID.Hex(),
		OrderNumber: o.OrderNumber,
		ProductID:   o.ProductID,
		CategoryID:  o.CategoryID,
		FinalAmount: o.Pricing.FinalAmount,
		Discount:    o.Pricing.Discount,
		CouponCode:  o.CouponCode,
		PaymentMode: string(o.Payment.Mode),
		Paid:        o.Payment.Status == models.PaymentStatusPaid,
		CreatedAt:   o.CreatedAt,
	}
}

// OrderPlaced publishes an order.created event keyed by order number.
func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	value, err := json.Marshal(NewOrderCreated(o))
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.OrderNumber),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(orderCreatedEvent)},
		},
	})
}

func (p *KafkaPublisher) Name() string { return "kafka" }

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
