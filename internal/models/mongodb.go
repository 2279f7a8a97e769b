package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps one collection per entity. It is opened once at startup and
// passed explicitly to everything that needs it.
type Store struct {
	client *mongo.Client

	Users         *mongo.Collection
	Products      *mongo.Collection
	CartItems     *mongo.Collection
	Orders        *mongo.Collection
	OrderItems    *mongo.Collection
	Reviews       *mongo.Collection
	Notifications *mongo.Collection
}

// OpenDB connects to MongoDB, verifies the connection and binds the
// entity collections.
func OpenDB(ctx context.Context, uri, name string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	db := client.Database(name)

	return &Store{
		client:        client,
		Users:         db.Collection("users"),
		Products:      db.Collection("products"),
		CartItems:     db.Collection("cart_items"),
		Orders:        db.Collection("orders"),
		OrderItems:    db.Collection("order_items"),
		Reviews:       db.Collection("reviews"),
		Notifications: db.Collection("notifications"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes plus the unique indexes backing
// the duplicate-email, unique cart line and one-review-per-order invariants.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	type indexSet struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}

	sets := []indexSet{
		{s.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		}},
		{s.Products, []mongo.IndexModel{
			{Keys: bson.D{{Key: "farmer_id", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{s.CartItems, []mongo.IndexModel{
			{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "product_id", Value: 1}}, Options: unique},
		}},
		{s.Orders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "buyer_id", Value: 1}}},
			{Keys: bson.D{{Key: "farmer_id", Value: 1}}},
		}},
		{s.OrderItems, []mongo.IndexModel{
			{Keys: bson.D{{Key: "order_id", Value: 1}}},
		}},
		{s.Reviews, []mongo.IndexModel{
			{Keys: bson.D{{Key: "product_id", Value: 1}}},
			{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "product_id", Value: 1}, {Key: "order_id", Value: 1}}, Options: unique},
		}},
		{s.Notifications, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		}},
	}

	for _, set := range sets {
		if _, err := set.coll.Indexes().CreateMany(ctx, set.models); err != nil {
			return fmt.Errorf("creating indexes for %s: %w", set.coll.Name(), err)
		}
	}
	return nil
}
