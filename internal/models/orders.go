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

// OrderFilter narrows GetOrders to one buyer or one farmer; both nil means
// all orders.
type OrderFilter struct {
	BuyerID  *primitive.ObjectID
	FarmerID *primitive.ObjectID
}

func (s *Store) InsertOrder(ctx context.Context, o *Order) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	res, err := s.Orders.InsertOne(ctx, o)
	if err != nil {
		return primitive.NilObjectID, err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return o.ID, nil
}

func (s *Store) GetOrder(ctx context.Context, id primitive.ObjectID) (*Order, error) {
	var o Order
	err := s.Orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &o, nil
}

// GetOrders returns matching orders newest first.
func (s *Store) GetOrders(ctx context.Context, f OrderFilter) ([]*Order, error) {
	filter := bson.M{}
	if f.BuyerID != nil {
		filter["buyer_id"] = *f.BuyerID
	}
	if f.FarmerID != nil {
		filter["farmer_id"] = *f.FarmerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var orders []*Order
	cur, err := s.Orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &orders)
	return orders, err
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.Orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (s *Store) InsertOrderItem(ctx context.Context, item *OrderItem) error {
	item.CreatedAt = time.Now().UTC()
	res, err := s.OrderItems.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) GetOrderItems(ctx context.Context, orderID primitive.ObjectID) ([]*OrderItem, error) {
	var items []*OrderItem
	cur, err := s.OrderItems.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &items)
	return items, err
}

// GetOrderItem finds the line for one product inside one order; used to
// check order membership before accepting a review.
func (s *Store) GetOrderItem(ctx context.Context, orderID, productID primitive.ObjectID) (*OrderItem, error) {
	var item OrderItem
	err := s.OrderItems.FindOne(ctx, bson.M{"order_id": orderID, "product_id": productID}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &item, nil
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	return s.Orders.CountDocuments(ctx, bson.M{})
}

// TotalRevenue sums total_amount over all orders with a single aggregation.
func (s *Store) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$total_amount"}}},
	}
	cur, err := s.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var results []bson.M
	if err = cur.All(ctx, &results); err != nil || len(results) == 0 {
		return 0, err
	}
	switch v := results[0]["total"].(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, nil
	}
}
