package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrIntentNotFound = errors.New("payment intent not found")

type IntentStore struct {
	collection *mongo.Collection
}

func NewIntentStore(db *mongo.Database) *IntentStore {
	return &IntentStore{collection: db.Collection(intentsCollection)}
}

func (s *IntentStore) Insert(ctx context.Context, in *models.PaymentIntent) error {
	if in.ID.IsZero() {
		in.ID = primitive.NewObjectID()
	}
	if _, err := s.collection.InsertOne(ctx, in); err != nil {
		return fmt.Errorf("failed to insert payment intent: %w", err)
	}
	return nil
}

func (s *IntentStore) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentIntent, error) {
	var in models.PaymentIntent
	err := s.collection.FindOne(ctx, bson.M{"gatewayOrderId": gatewayOrderID}).Decode(&in)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	return &in, nil
}

// Claim flips a created intent to paid and records the payment id. It reports
// false when the intent is missing or already paid, so a payment is claimed once.
func (s *IntentStore) Claim(ctx context.Context, gatewayOrderID, paymentID string) (bool, error) {
	filter := bson.M{
		"gatewayOrderId": gatewayOrderID,
		"status":         models.IntentCreated,
	}
	update := bson.M{"$set": bson.M{
		"status":    models.IntentPaid,
		"paymentId": paymentID,
		"updatedAt": time.Now(),
	}}

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim payment intent: %w", err)
	}
	return result.MatchedCount == 1, nil
}

// Release undoes a Claim made with paymentID.
func (s *IntentStore) Release(ctx context.Context, gatewayOrderID, paymentID string) error {
	filter := bson.M{
		"gatewayOrderId": gatewayOrderID,
		"status":         models.IntentPaid,
		"paymentId":      paymentID,
	}
	update := bson.M{
		"$set":   bson.M{"status": models.IntentCreated, "updatedAt": time.Now()},
		"$unset": bson.M{"paymentId": ""},
	}
	if _, err := s.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release payment intent: %w", err)
	}
	return nil
}
