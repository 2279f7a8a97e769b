package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductFilter narrows GetProducts. Zero-valued fields are ignored; Status
// "" means any status.
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Status   string
}

// ProductUpdate carries the updatable product fields; nil fields are left
// untouched.
type ProductUpdate struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int
	Description *string
	Images      []string
}

func (s *Store) InsertProduct(ctx context.Context, p *Product) (*Product, error) {
	p.Status = ProductPending
	p.AvgRating = 0
	p.ReviewCount = 0
	p.CreatedAt = time.Now().UTC()

	res, err := s.Products.InsertOne(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

func (s *Store) GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	err := s.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetProducts(ctx context.Context, f ProductFilter) ([]*Product, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}

	var products []*Product
	cur, err := s.Products.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &products)
	return products, err
}

func (s *Store) GetProductsByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]*Product, error) {
	var products []*Product
	cur, err := s.Products.Find(ctx, bson.M{"farmer_id": farmerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &products)
	return products, err
}

func (s *Store) UpdateProduct(ctx context.Context, id primitive.ObjectID, u ProductUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Quantity != nil {
		set["quantity"] = *u.Quantity
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Images != nil {
		set["images"] = u.Images
	}

	res, err := s.Products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (s *Store) SetProductStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.Products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
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

// DecrementStock subtracts n from the product quantity only if at least n
// units remain: the filter and the $inc run as one conditional update, so
// two racing checkouts cannot drive the quantity negative. An unmatched
// update on an existing product is reported as ErrInsufficientStock.
func (s *Store) DecrementStock(ctx context.Context, id primitive.ObjectID, n int) error {
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": n}}
	update := bson.M{"$inc": bson.M{"quantity": -n}}

	res, err := s.Products.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetProduct(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (s *Store) SetProductRating(ctx context.Context, id primitive.ObjectID, avg float64, count int) error {
	res, err := s.Products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"avg_rating": avg, "review_count": count},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.Products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// CountProducts counts products with the given status, or all products when
// status is empty.
func (s *Store) CountProducts(ctx context.Context, status string) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.Products.CountDocuments(ctx, filter)
}
