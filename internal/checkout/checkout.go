// Package checkout implements the order placement workflow: validating the
// requested lines against the live catalog, splitting them into one order
// per farmer, and committing each farmer group.
package checkout

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/models"
)

// Store is the slice of the data layer the workflow needs.
type Store interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	InsertOrder(ctx context.Context, o *models.Order) (primitive.ObjectID, error)
	InsertOrderItem(ctx context.Context, item *models.OrderItem) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, n int) error
	ClearCart(ctx context.Context, buyerID primitive.ObjectID) error
}

// Notifier delivers a notification to one user, durably and best-effort
// live.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, kind, message string) (*models.Notification, error)
}

// LineItem is one requested (product, quantity) pair.
type LineItem struct {
	ProductID primitive.ObjectID `json:"product_id"`
	Quantity  int                `json:"quantity"`
}

// ResolvedItem is a validated line with the product's price and farmer
// snapshotted at validation time. Downstream steps use only the snapshot,
// never a fresh read, so the amount committed matches the amount quoted.
type ResolvedItem struct {
	ProductID   primitive.ObjectID
	FarmerID    primitive.ObjectID
	ProductName string
	Price       float64
	Quantity    int
}

// Group is the subset of the request belonging to one farmer, committed as
// one order.
type Group struct {
	FarmerID primitive.ObjectID
	Items    []ResolvedItem
	Total    float64
}

// GroupFailure records a farmer group whose commit failed after validation
// passed. Committed sibling groups are not rolled back.
type GroupFailure struct {
	FarmerID primitive.ObjectID
	Err      error
}

// Result reports the outcome per farmer group so callers can tell partial
// success from total failure.
type Result struct {
	Orders []*models.Order
	Failed []GroupFailure
}

type Service struct {
	store    Store
	notifier Notifier
	errorLog *log.Logger
}

func NewService(store Store, notifier Notifier, errorLog *log.Logger) *Service {
	return &Service{store: store, notifier: notifier, errorLog: errorLog}
}

// PlaceOrder runs the full workflow for one buyer. Validation is
// all-or-nothing: any invalid line aborts before a single write. Past
// validation, farmer groups commit independently; a failing group never
// rolls back an already committed one. The cart is cleared once after all
// groups, and each successfully committed group's farmer gets one
// notification.
func (s *Service) PlaceOrder(ctx context.Context, buyer *models.User, shippingAddress string, items []LineItem) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	resolved, err := s.validate(ctx, items)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, g := range split(resolved) {
		order, err := s.commitGroup(ctx, buyer.ID, shippingAddress, g)
		if err != nil {
			res.Failed = append(res.Failed, GroupFailure{FarmerID: g.FarmerID, Err: err})
			continue
		}
		res.Orders = append(res.Orders, order)
	}

	// Cleared once for the whole request, not per group: a failed later
	// group still consumes the cart lines of earlier committed groups.
	if err := s.store.ClearCart(ctx, buyer.ID); err != nil {
		s.errorLog.Println("failed to clear cart after checkout:", err)
	}

	for _, order := range res.Orders {
		msg := fmt.Sprintf("New order received from %s", buyer.Name)
		if _, err := s.notifier.Notify(ctx, order.FarmerID, "new_order", msg); err != nil {
			s.errorLog.Println("failed to notify farmer of new order:", err)
		}
	}

	return res, nil
}

// commitGroup creates the order, then per item writes the frozen-price line
// and conditionally decrements stock. A conditional failure fails the rest
// of the group; already executed writes stay in place (no compensation).
func (s *Service) commitGroup(ctx context.Context, buyerID primitive.ObjectID, shippingAddress string, g Group) (*models.Order, error) {
	order := &models.Order{
		BuyerID:         buyerID,
		FarmerID:        g.FarmerID,
		TotalAmount:     g.Total,
		Status:          models.OrderPending,
		ShippingAddress: shippingAddress,
	}

	if _, err := s.store.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	for _, item := range g.Items {
		err := s.store.InsertOrderItem(ctx, &models.OrderItem{
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.Price,
		})
		if err != nil {
			return nil, fmt.Errorf("creating order item for %q: %w", item.ProductName, err)
		}

		if err := s.store.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("decrementing stock for %q: %w", item.ProductName, err)
		}
	}

	return order, nil
}
