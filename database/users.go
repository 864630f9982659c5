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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUserNotFound = errors.New("user not found")

type UserStore struct {
	collection *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{collection: db.Collection(usersCollection)}
}

// UpsertByPhone records a login for phone, creating the user on first sign in.
// The role is refreshed on every login so admin changes apply immediately.
func (s *UserStore) UpsertByPhone(ctx context.Context, phone string, role models.Role, at time.Time) (*models.User, error) {
	filter := bson.M{"phone": phone}
	update := bson.M{
		"$set": bson.M{
			"role":        role,
			"lastLoginAt": at,
			"updatedAt":   at,
		},
		"$setOnInsert": bson.M{
			"phone":     phone,
			"createdAt": at,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var u models.User
	if err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// Profile holds the fields a customer may edit. They prefill the checkout form.
type Profile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
}

func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, p Profile) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"name":      p.Name,
		"address":   p.Address,
		"pincode":   p.Pincode,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &u, nil
}
