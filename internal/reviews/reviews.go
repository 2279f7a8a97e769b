// Package reviews implements the review submission workflow: a review
// is accepted only for a delivered order the buyer owns, only for a
// product that order actually contains, and only once per (buyer,
// product, order) triple. An accepted review refreshes the product's
// aggregate rating and notifies the farmer.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/models"
)

// Store is the slice of the data layer the workflow needs.
type Store interface {
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetOrderItem(ctx context.Context, orderID, productID primitive.ObjectID) (*models.OrderItem, error)
	GetReview(ctx context.Context, buyerID, productID, orderID primitive.ObjectID) (*models.Review, error)
	InsertReview(ctx context.Context, r *models.Review) (*models.Review, error)
	RecomputeProductRating(ctx context.Context, productID primitive.ObjectID) (float64, int, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// Notifier delivers a notification to one user, durably and best-effort
// live.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, kind, message string) (*models.Notification, error)
}

type Service struct {
	store    Store
	notifier Notifier
	errorLog *log.Logger
}

func NewService(store Store, notifier Notifier, errorLog *log.Logger) *Service {
	return &Service{store: store, notifier: notifier, errorLog: errorLog}
}

// Submit runs the gating checks in order and inserts the review only if
// every one passes. A duplicate triple reports models.ErrDuplicateReview,
// whether caught by the pre-check or by the unique index on insert. The
// rating recompute and the farmer notification run after the insert and
// never fail the submission.
func (s *Service) Submit(ctx context.Context, buyer *models.User, productID, orderID primitive.ObjectID, rating int, text string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	// A missing order and another buyer's order look the same to the
	// caller, so order ids cannot be probed.
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil || order.BuyerID != buyer.ID {
		return nil, ErrOrderNotOwned
	}
	if order.Status != models.OrderDelivered {
		return nil, ErrOrderNotDelivered
	}

	if _, err := s.store.GetOrderItem(ctx, orderID, productID); err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			return nil, ErrProductNotInOrder
		}
		return nil, fmt.Errorf("checking order item: %w", err)
	}

	if _, err := s.store.GetReview(ctx, buyer.ID, productID, orderID); err == nil {
		return nil, models.ErrDuplicateReview
	} else if !errors.Is(err, models.ErrNoRecord) {
		return nil, fmt.Errorf("checking existing review: %w", err)
	}

	review, err := s.store.InsertReview(ctx, &models.Review{
		ProductID: productID,
		BuyerID:   buyer.ID,
		OrderID:   orderID,
		Rating:    rating,
		Text:      text,
	})
	if err != nil {
		return nil, err
	}

	if _, _, err := s.store.RecomputeProductRating(ctx, productID); err != nil {
		s.errorLog.Println("failed to recompute product rating:", err)
	}

	if product, err := s.store.GetProduct(ctx, productID); err == nil {
		msg := fmt.Sprintf("New %d-star review for '%s'", rating, product.Name)
		if _, err := s.notifier.Notify(ctx, product.FarmerID, "new_review", msg); err != nil {
			s.errorLog.Println("failed to notify farmer of new review:", err)
		}
	} else {
		s.errorLog.Println("failed to load product for review notification:", err)
	}

	return review, nil
}
