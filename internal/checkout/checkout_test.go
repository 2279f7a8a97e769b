package checkout

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

func testBuyer() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Name: "Aigerim"}
}

func approvedProduct(farmerID primitive.ObjectID, name string, price float64, quantity int) *models.Product {
	return &models.Product{
		ID:       primitive.NewObjectID(),
		FarmerID: farmerID,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Status:   models.ProductApproved,
	}
}

func TestPlaceOrderSplitsCartAcrossFarmers(t *testing.T) {
	farmer1 := primitive.NewObjectID()
	farmer2 := primitive.NewObjectID()
	productA := approvedProduct(farmer1, "apples", 40, 10)
	productB := approvedProduct(farmer2, "honey", 90, 5)

	store := NewMockStore(productA, productB)
	notifier := &MockNotifier{}
	svc := newTestService(store, notifier)
	buyer := testBuyer()

	result, err := svc.PlaceOrder(context.Background(), buyer, "12 Abai Ave", []LineItem{
		{ProductID: productA.ID, Quantity: 2},
		{ProductID: productB.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)
	assert.Empty(t, result.Failed)

	order1, order2 := result.Orders[0], result.Orders[1]
	assert.Equal(t, farmer1, order1.FarmerID)
	assert.Equal(t, 80.0, order1.TotalAmount)
	assert.Equal(t, farmer2, order2.FarmerID)
	assert.Equal(t, 90.0, order2.TotalAmount)

	for _, o := range result.Orders {
		assert.Equal(t, buyer.ID, o.BuyerID)
		assert.Equal(t, models.OrderPending, o.Status)
		assert.Equal(t, "12 Abai Ave", o.ShippingAddress)
	}

	// No cross-farmer lines, totals match the frozen line prices.
	items1 := store.ItemsForOrder(order1.ID)
	require.Len(t, items1, 1)
	assert.Equal(t, productA.ID, items1[0].ProductID)
	assert.Equal(t, 40.0, items1[0].PriceAtPurchase)
	assert.Equal(t, 2, items1[0].Quantity)

	items2 := store.ItemsForOrder(order2.ID)
	require.Len(t, items2, 1)
	assert.Equal(t, productB.ID, items2[0].ProductID)
	assert.Equal(t, 90.0, items2[0].PriceAtPurchase)

	// Stock decremented by exactly the purchased amounts.
	assert.Equal(t, 8, store.Products[productA.ID].Quantity)
	assert.Equal(t, 4, store.Products[productB.ID].Quantity)

	// Cart cleared once for the whole request.
	assert.Equal(t, 1, store.CartCleared)
	assert.Equal(t, []primitive.ObjectID{buyer.ID}, store.CartClearedBy)

	// One notification per farmer.
	require.Len(t, notifier.Sent, 2)
	assert.Equal(t, farmer1, notifier.Sent[0].UserID)
	assert.Equal(t, farmer2, notifier.Sent[1].UserID)
	for _, n := range notifier.Sent {
		assert.Equal(t, "new_order", n.Kind)
		assert.Contains(t, n.Message, "Aigerim")
	}
}

func TestPlaceOrderSingleFarmerYieldsOneOrder(t *testing.T) {
	farmer := primitive.NewObjectID()
	productA := approvedProduct(farmer, "apples", 12.5, 10)
	productB := approvedProduct(farmer, "pears", 7.25, 10)

	store := NewMockStore(productA, productB)
	notifier := &MockNotifier{}
	svc := newTestService(store, notifier)

	result, err := svc.PlaceOrder(context.Background(), testBuyer(), "addr", []LineItem{
		{ProductID: productA.ID, Quantity: 2},
		{ProductID: productB.ID, Quantity: 4},
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, 12.5*2+7.25*4, result.Orders[0].TotalAmount)
	assert.Len(t, notifier.Sent, 1)
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, &MockNotifier{})

	_, err := svc.PlaceOrder(context.Background(), testBuyer(), "addr", nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, store.Orders)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	store := NewMockStore()
	svc := newTestService(store, &MockNotifier{})

	_, err := svc.PlaceOrder(context.Background(), testBuyer(), "addr", []LineItem{
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPlaceOrderUnapprovedProduct(t *testing.T) {
	farmer := primitive.NewObjectID()
	product := approvedProduct(farmer, "apples", 40, 10)
	product.Status = models.ProductPending

	store := NewMockStore(product)
	notifier := &MockNotifier{}
	svc := newTestService(store, notifier)

	_, err := svc.PlaceOrder(context.Background(), testBuyer(), "addr", []LineItem{
		{ProductID: product.ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Empty(t, store.Orders)
	assert.Zero(t, store.CartCleared)
	assert.Empty(t, notifier.Sent)
}

func TestPlaceOrderInvalidQuantity(t *testing.T) {
	farmer := primitive.NewObjectID()
	product := approvedProduct(farmer, "apples", 40, 10)

	store := NewMockStore(product)
	svc := newTestService(store, &MockNotifier{})

	_, err := svc.PlaceOrder(context.Background(), testBuyer(), "addr", []LineItem{
		{ProductID: product.ID, Quantity: 0},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPlaceOrderUnderstockedProductFailsWholeRequest(t *testing.T) {
	farmer1 := primitive.NewObjectID()
	farmer2 := primitive.NewObjectID()
	fine := approvedProduct(farmer1, "apples", 40, 10)
	short := approvedProduct(farmer2, "honey", 90, 1)

	store := NewMockStore(fine, short)
	svc := newTestService(store, &MockNotifier{})

	// One understocked line aborts validation: zero orders, zero writes,
	// even for the farmer whose stock sufficed.
	_, err := svc.PlaceOrder(context.Background(), testBuyer(), "addr", []LineItem{
		{ProductID: fine.ID, Quantity: 2},
		{ProductID: short.ID, Quantity: 3},
	})
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "honey")

	assert.Empty(t, store.Orders)
	assert.Empty(t, store.OrderItems)
	assert.Equal(t, 10, store.Products[fine.ID].Quantity)
	assert.Zero(t, store.CartCleared)
}

func TestPlaceOrderCommitConflictFailsOnlyThatGroup(t *testing.T) {
	farmer1 := primitive.NewObjectID()
	farmer2 := primitive.NewObjectID()
	productA := approvedProduct(farmer1, "apples", 40, 10)
	productB := approvedProduct(farmer2, "honey", 90, 5)

	store := NewMockStore(productA, productB)
	// productB passes validation but loses the conditional decrement,
	// like a racing checkout taking the last units in between.
	store.FailDecrement[productB.ID] = true

	notifier := &MockNotifier{}
	svc := newTestService(store, notifier)
	buyer := testBuyer()

	result, err := svc.PlaceOrder(context.Background(), buyer, "addr", []LineItem{
		{ProductID: productA.ID, Quantity: 2},
		{ProductID: productB.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, result.Orders, 1)
	assert.Equal(t, farmer1, result.Orders[0].FarmerID)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, farmer2, result.Failed[0].FarmerID)
	assert.ErrorIs(t, result.Failed[0].Err, models.ErrInsufficientStock)

	// The surviving group is untouched by the sibling failure, the cart is
	// still cleared once, and only the committed group's farmer is told.
	assert.Equal(t, 8, store.Products[productA.ID].Quantity)
	assert.Equal(t, 1, store.CartCleared)
	require.Len(t, notifier.Sent, 1)
	assert.Equal(t, farmer1, notifier.Sent[0].UserID)
}

func TestPlaceOrderStockNeverGoesNegative(t *testing.T) {
	farmer := primitive.NewObjectID()
	product := approvedProduct(farmer, "apples", 40, 3)

	store := NewMockStore(product)
	svc := newTestService(store, &MockNotifier{})
	buyer := testBuyer()

	// First purchase drains the stock.
	_, err := svc.PlaceOrder(context.Background(), buyer, "addr", []LineItem{
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, store.Products[product.ID].Quantity)

	// Second one must fail outright rather than go negative.
	_, err = svc.PlaceOrder(context.Background(), buyer, "addr", []LineItem{
		{ProductID: product.ID, Quantity: 1},
	})
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 0, store.Products[product.ID].Quantity)
}
