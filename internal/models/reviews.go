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

func (s *Store) InsertReview(ctx context.Context, r *Review) (*Review, error) {
	r.CreatedAt = time.Now().UTC()

	res, err := s.Reviews.InsertOne(ctx, r)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return r, nil
}

// GetReview finds the review for one (buyer, product, order) triple.
func (s *Store) GetReview(ctx context.Context, buyerID, productID, orderID primitive.ObjectID) (*Review, error) {
	var r Review
	err := s.Reviews.FindOne(ctx, bson.M{
		"buyer_id":   buyerID,
		"product_id": productID,
		"order_id":   orderID,
	}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &r, nil
}

// GetProductReviews returns a product's reviews newest first.
func (s *Store) GetProductReviews(ctx context.Context, productID primitive.ObjectID) ([]*Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var reviews []*Review
	cur, err := s.Reviews.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &reviews)
	return reviews, err
}

// RecomputeProductRating recalculates avg_rating and review_count from every
// stored review for the product and writes both back. A full scan each time
// keeps the aggregate immune to drift.
func (s *Store) RecomputeProductRating(ctx context.Context, productID primitive.ObjectID) (float64, int, error) {
	reviews, err := s.GetProductReviews(ctx, productID)
	if err != nil {
		return 0, 0, err
	}

	avg := averageRating(reviews)
	if err := s.SetProductRating(ctx, productID, avg, len(reviews)); err != nil {
		return 0, 0, err
	}
	return avg, len(reviews), nil
}

func averageRating(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
