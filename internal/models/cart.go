package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddCartItem increments the quantity of the buyer's line for this product,
// creating the line if it does not exist yet. The (buyer, product) pair is
// kept unique by the upsert plus the compound index.
func (s *Store) AddCartItem(ctx context.Context, buyerID, productID primitive.ObjectID, quantity int) (*CartItem, error) {
	now := time.Now().UTC()

	filter := bson.M{"buyer_id": buyerID, "product_id": productID}
	update := bson.M{
		"$inc":         bson.M{"quantity": quantity},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var item CartItem
	if err := s.CartItems.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetCartItem(ctx context.Context, id primitive.ObjectID) (*CartItem, error) {
	var item CartItem
	err := s.CartItems.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetCartItems(ctx context.Context, buyerID primitive.ObjectID) ([]*CartItem, error) {
	var items []*CartItem
	cur, err := s.CartItems.Find(ctx, bson.M{"buyer_id": buyerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &items)
	return items, err
}

func (s *Store) SetCartItemQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	res, err := s.CartItems.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"quantity": quantity, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.CartItems.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// ClearCart removes every line the buyer has. Deleting an already empty
// cart is not an error.
func (s *Store) ClearCart(ctx context.Context, buyerID primitive.ObjectID) error {
	_, err := s.CartItems.DeleteMany(ctx, bson.M{"buyer_id": buyerID})
	return err
}
