package reviews

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/models"
)

func newTestService(store *MockStore, notifier *MockNotifier) *Service {
	return NewService(store, notifier, log.New(io.Discard, "", 0))
}

// deliveredOrderFixture builds a buyer with one delivered order
// containing one product.
func deliveredOrderFixture(store *MockStore) (*models.User, *models.Order, *models.Product) {
	buyer := &models.User{ID: primitive.NewObjectID(), Name: "Arun"}
	farmerID := primitive.NewObjectID()

	product := &models.Product{
		ID:       primitive.NewObjectID(),
		FarmerID: farmerID,
		Name:     "Fresh Tomatoes",
		Status:   models.ProductApproved,
	}
	store.Products[product.ID] = product

	order := &models.Order{
		ID:       primitive.NewObjectID(),
		BuyerID:  buyer.ID,
		FarmerID: farmerID,
		Status:   models.OrderDelivered,
	}
	store.Orders[order.ID] = order
	store.AddOrderItem(order.ID, product.ID)

	return buyer, order, product
}

func TestSubmit(t *testing.T) {
	store := NewMockStore()
	notifier := &MockNotifier{}
	buyer, order, product := deliveredOrderFixture(store)

	review, err := newTestService(store, notifier).Submit(context.Background(), buyer, product.ID, order.ID, 5, "Excellent quality!")
	require.NoError(t, err)

	assert.False(t, review.ID.IsZero())
	assert.Equal(t, buyer.ID, review.BuyerID)
	assert.Equal(t, product.ID, review.ProductID)
	assert.Equal(t, order.ID, review.OrderID)
	assert.Equal(t, 5, review.Rating)

	// The product aggregate was refreshed from the stored reviews.
	assert.Equal(t, []primitive.ObjectID{product.ID}, store.Recomputed)
	assert.Equal(t, 5.0, store.Products[product.ID].AvgRating)
	assert.Equal(t, 1, store.Products[product.ID].ReviewCount)

	// The farmer, not the buyer, is notified.
	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, product.FarmerID, notifier.Sent[0].UserID)
	assert.Equal(t, "new_review", notifier.Sent[0].Kind)
	assert.Equal(t, "New 5-star review for 'Fresh Tomatoes'", notifier.Sent[0].Message)
}

func TestSubmitRatingOutOfRange(t *testing.T) {
	store := NewMockStore()
	notifier := &MockNotifier{}
	buyer, order, product := deliveredOrderFixture(store)
	svc := newTestService(store, notifier)

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(context.Background(), buyer, product.ID, order.ID, rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", rating)
	}

	assert.Empty(t, store.Reviews)
	assert.Empty(t, notifier.Sent)
}

func TestSubmitUnknownOrder(t *testing.T) {
	store := NewMockStore()
	notifier := &MockNotifier{}
	buyer, _, product := deliveredOrderFixture(store)

	_, err := newTestService(store, notifier).Submit(context.Background(), buyer, product.ID, primitive.NewObjectID(), 4, "")
	assert.ErrorIs(t, err, ErrOrderNotOwned)
	assert.Empty(t, store.Reviews)
}

func TestSubmitSomeoneElsesOrder(t *testing.T) {
	store := NewMockStore()
	notifier := &MockNotifier{}
	_, order, product := deliveredOrderFixture(store)

	other := &models.User{ID: primitive.NewObjectID(), Name: "Priya"}
	_, err := newTestService(store, notifier).Submit(context.Background(), other, product.ID, order.ID, 4, "")
	assert.ErrorIs(t, err, ErrOrderNotOwned)
	assert.Empty(t, store.Reviews)
}

func TestSubmitUndeliveredOrder(t *testing.T) {
	store := NewMockStore()
	notifier := &MockNotifier{}
	buyer, order, product := deliveredOrderFixture(store)
	svc := newTestService(store, notifier)

	for _, status := range []string{models.OrderPending, models.OrderConfirmed, models.OrderShipped} {
		store.Orders[order.ID].Status = status
		_, err := svc.Submit(context.Background(), buyer, product.ID, order.ID, 4, "")
		assert.ErrorIs(t, err, ErrOrderNotDelivered, "status %s", status)
	}

	assert.Empty(t, store.Reviews)
	assert.Empty(t, notifier.Sent)
}

func TestSubmitProductNotInOrder(t *testing.T) {
	store := NewMockStore()
	notifier := &MockNotifier{}
	buyer, order, _ := deliveredOrderFixture(store)

	stranger := &models.Product{
		ID:       primitive.NewObjectID(),
		FarmerID: primitive.NewObjectID(),
		Name:     "Basmati Rice",
		Status:   models.ProductApproved,
	}
	store.Products[stranger.ID] = stranger

	_, err := newTestService(store, notifier).Submit(context.Background(), buyer, stranger.ID, order.ID, 4, "")
	assert.ErrorIs(t, err, ErrProductNotInOrder)
	assert.Empty(t, store.Reviews)
}

func TestSubmitDuplicateReview(t *testing.T) {
	store := NewMockStore()
	notifier := &MockNotifier{}
	buyer, order, product := deliveredOrderFixture(store)
	svc := newTestService(store, notifier)

	_, err := svc.Submit(context.Background(), buyer, product.ID, order.ID, 5, "first")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), buyer, product.ID, order.ID, 3, "second")
	assert.ErrorIs(t, err, models.ErrDuplicateReview)

	// Neither the review set, the aggregate, nor the farmer's inbox
	// changed on the second attempt.
	assert.Len(t, store.Reviews, 1)
	assert.Equal(t, 5, store.Reviews[0].Rating)
	assert.Equal(t, 5.0, store.Products[product.ID].AvgRating)
	assert.Len(t, notifier.Sent, 1)
}

func TestSubmitDuplicateCaughtByInsert(t *testing.T) {
	// The pre-check can lose a race; the unique index surfaces the same
	// sentinel from the insert itself.
	store := NewMockStore()
	notifier := &MockNotifier{}
	buyer, order, product := deliveredOrderFixture(store)

	store.InsertReviewErr = models.ErrDuplicateReview

	_, err := newTestService(store, notifier).Submit(context.Background(), buyer, product.ID, order.ID, 4, "")
	assert.ErrorIs(t, err, models.ErrDuplicateReview)
	assert.Empty(t, notifier.Sent)
}
