package reviews

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/models"
)

// MockStore implements Store over in-memory maps for testing.
type MockStore struct {
	Orders   map[primitive.ObjectID]*models.Order
	Products map[primitive.ObjectID]*models.Product

	// OrderItems holds one entry per (order, product) pair the order
	// contains.
	OrderItems map[[2]primitive.ObjectID]*models.OrderItem

	Reviews []*models.Review

	Recomputed []primitive.ObjectID

	InsertReviewErr error
}

func NewMockStore() *MockStore {
	return &MockStore{
		Orders:     make(map[primitive.ObjectID]*models.Order),
		Products:   make(map[primitive.ObjectID]*models.Product),
		OrderItems: make(map[[2]primitive.ObjectID]*models.OrderItem),
	}
}

// AddOrderItem registers productID as part of orderID.
func (m *MockStore) AddOrderItem(orderID, productID primitive.ObjectID) {
	m.OrderItems[[2]primitive.ObjectID{orderID, productID}] = &models.OrderItem{
		ID:        primitive.NewObjectID(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  1,
	}
}

func (m *MockStore) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := m.Orders[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	cp := *o
	return &cp, nil
}

func (m *MockStore) GetOrderItem(_ context.Context, orderID, productID primitive.ObjectID) (*models.OrderItem, error) {
	item, ok := m.OrderItems[[2]primitive.ObjectID{orderID, productID}]
	if !ok {
		return nil, models.ErrNoRecord
	}
	return item, nil
}

func (m *MockStore) GetReview(_ context.Context, buyerID, productID, orderID primitive.ObjectID) (*models.Review, error) {
	for _, r := range m.Reviews {
		if r.BuyerID == buyerID && r.ProductID == productID && r.OrderID == orderID {
			return r, nil
		}
	}
	return nil, models.ErrNoRecord
}

func (m *MockStore) InsertReview(_ context.Context, r *models.Review) (*models.Review, error) {
	if m.InsertReviewErr != nil {
		return nil, m.InsertReviewErr
	}
	for _, existing := range m.Reviews {
		if existing.BuyerID == r.BuyerID && existing.ProductID == r.ProductID && existing.OrderID == r.OrderID {
			return nil, models.ErrDuplicateReview
		}
	}
	r.ID = primitive.NewObjectID()
	m.Reviews = append(m.Reviews, r)
	return r, nil
}

func (m *MockStore) RecomputeProductRating(_ context.Context, productID primitive.ObjectID) (float64, int, error) {
	m.Recomputed = append(m.Recomputed, productID)

	var sum, count int
	for _, r := range m.Reviews {
		if r.ProductID == productID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	avg := float64(sum) / float64(count)
	if p, ok := m.Products[productID]; ok {
		p.AvgRating = avg
		p.ReviewCount = count
	}
	return avg, count, nil
}

func (m *MockStore) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := m.Products[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	cp := *p
	return &cp, nil
}

type sentNotification struct {
	UserID  primitive.ObjectID
	Kind    string
	Message string
}

// MockNotifier implements Notifier and records every delivery.
type MockNotifier struct {
	Sent []sentNotification
	Err  error
}

func (m *MockNotifier) Notify(_ context.Context, userID primitive.ObjectID, kind, message string) (*models.Notification, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Sent = append(m.Sent, sentNotification{UserID: userID, Kind: kind, Message: message})
	return &models.Notification{UserID: userID, Type: kind, Message: message}, nil
}
