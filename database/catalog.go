package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogStore reads products, categories and coupons. The catalog is
// maintained elsewhere; this service never writes to it.
type CatalogStore struct {
	products   *mongo.Collection
	categories *mongo.Collection
	coupons    *mongo.Collection
}

func NewCatalogStore(db *mongo.Database) *CatalogStore {
	return &CatalogStore{
		products:   db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
		coupons:    db.Collection(couponsCollection),
	}
}

func (s *CatalogStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// ListProducts returns products newest first, optionally limited to one category.
func (s *CatalogStore) ListProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	filter := bson.M{}
	if categoryID != "" {
		filter["categoryId"] = categoryID
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	products := []models.Product{}
	if err := findAll(ctx, s.products, filter, opts, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	categories := []models.Category{}
	if err := findAll(ctx, s.categories, bson.M{}, opts, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CategoryNames maps category id to display name.
func (s *CatalogStore) CategoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// ListCoupons returns every coupon ordered by id. Eligibility is decided
// by the pricing package, not by the query.
func (s *CatalogStore) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	coupons := []models.Coupon{}
	if err := findAll(ctx, s.coupons, bson.M{}, opts, &coupons); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

func (s *CatalogStore) CountProducts(ctx context.Context) (int64, error) {
	return s.products.CountDocuments(ctx, bson.M{})
}

func (s *CatalogStore) CountCategories(ctx context.Context) (int64, error) {
	return s.categories.CountDocuments(ctx, bson.M{})
}

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, out interface{}) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
