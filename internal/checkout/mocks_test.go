package checkout

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/models"
)

// MockStore implements Store over in-memory maps for testing.
type MockStore struct {
	Products map[primitive.ObjectID]*models.Product

	Orders     []*models.Order
	OrderItems []*models.OrderItem

	// FailDecrement forces the conditional decrement to report a stock
	// conflict for these products, simulating a lost race.
	FailDecrement map[primitive.ObjectID]bool

	CartCleared   int
	CartClearedBy []primitive.ObjectID

	InsertOrderErr error
}

func NewMockStore(products ...*models.Product) *MockStore {
	m := &MockStore{
		Products:      make(map[primitive.ObjectID]*models.Product),
		FailDecrement: make(map[primitive.ObjectID]bool),
	}
	for _, p := range products {
		m.Products[p.ID] = p
	}
	return m
}

func (m *MockStore) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := m.Products[id]
	if !ok {
		return nil, models.ErrNoRecord
	}
	cp := *p
	return &cp, nil
}

func (m *MockStore) InsertOrder(_ context.Context, o *models.Order) (primitive.ObjectID, error) {
	if m.InsertOrderErr != nil {
		return primitive.NilObjectID, m.InsertOrderErr
	}
	o.ID = primitive.NewObjectID()
	m.Orders = append(m.Orders, o)
	return o.ID, nil
}

func (m *MockStore) InsertOrderItem(_ context.Context, item *models.OrderItem) error {
	item.ID = primitive.NewObjectID()
	m.OrderItems = append(m.OrderItems, item)
	return nil
}

func (m *MockStore) DecrementStock(_ context.Context, id primitive.ObjectID, n int) error {
	p, ok := m.Products[id]
	if !ok {
		return models.ErrNoRecord
	}
	if m.FailDecrement[id] || p.Quantity < n {
		return models.ErrInsufficientStock
	}
	p.Quantity -= n
	return nil
}

func (m *MockStore) ClearCart(_ context.Context, buyerID primitive.ObjectID) error {
	m.CartCleared++
	m.CartClearedBy = append(m.CartClearedBy, buyerID)
	return nil
}

// ItemsForOrder returns the captured order lines for one order.
func (m *MockStore) ItemsForOrder(orderID primitive.ObjectID) []*models.OrderItem {
	var items []*models.OrderItem
	for _, item := range m.OrderItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items
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
