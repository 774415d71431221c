package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func shippingFixture() model.ShippingAddress {
	return model.ShippingAddress{
		Name:    "Jane Buyer",
		Street:  "1 Main St",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62701",
		Country: "US",
	}
}

func totalsFixture(items float64) OrderTotals {
	itemsPrice := decimal.NewFromFloat(items)
	tax := itemsPrice.Mul(decimal.NewFromFloat(0.1)).Round(2)
	shipping := decimal.NewFromInt(5)
	return OrderTotals{
		Items:    itemsPrice,
		Tax:      tax,
		Shipping: shipping,
		Total:    itemsPrice.Add(tax).Add(shipping),
	}
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 500, 5)
	cable := seedProduct(t, db, category.ID, "Cable", 10, 20)

	lines := []OrderLine{
		{ProductID: phone.ID, Quantity: 2},
		{ProductID: cable.ID, Quantity: 3},
	}
	order, err := PlaceOrder(ctx, db, buyer.ID, lines, shippingFixture(), model.PaymentInfo{Method: "card"}, totalsFixture(1030))
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)

	freshPhone, err := GetProduct(ctx, db, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, freshPhone.Stock)
	assert.Equal(t, 2, freshPhone.TotalSold)

	freshCable, err := GetProduct(ctx, db, cable.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, freshCable.Stock)
	assert.Equal(t, 3, freshCable.TotalSold)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 500, 5)
	charger := seedProduct(t, db, category.ID, "Charger", 25, 1)

	lines := []OrderLine{
		{ProductID: phone.ID, Quantity: 2},
		{ProductID: charger.ID, Quantity: 4},
	}
	_, err := PlaceOrder(ctx, db, buyer.ID, lines, shippingFixture(), model.PaymentInfo{}, totalsFixture(1100))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing may survive a failed placement: no order rows, no decrements
	freshPhone, err := GetProduct(ctx, db, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, freshPhone.Stock)
	assert.Equal(t, 0, freshPhone.TotalSold)

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 500, 5)

	_, err := PlaceOrder(ctx, db, buyer.ID, nil, shippingFixture(), model.PaymentInfo{}, totalsFixture(0))
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 0}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(0))
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: 999999, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(10))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderItemsSnapshotProductState(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 500, 5)

	order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(500))
	require.NoError(t, err)

	// Rename and reprice the product after the sale
	name := "Phone Pro"
	price := 700.0
	_, err = UpdateProduct(ctx, db, phone.ID, ProductUpdate{Name: &name, Price: &price})
	require.NoError(t, err)

	fetched, err := GetOrder(ctx, db, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Phone", fetched.Items[0].Name)
	assert.True(t, fetched.Items[0].Price.Equal(decimal.NewFromInt(500)), "snapshot keeps the price at order time")
}

func TestGetOrderAuthorized(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	stranger := seedUser(t, db, "Stranger", "stranger@example.com", "user")
	admin := seedUser(t, db, "Admin", "admin@example.com", "admin")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 500, 5)

	order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(500))
	require.NoError(t, err)

	_, err = GetOrderAuthorized(ctx, db, order.ID, buyer.ID, false)
	assert.NoError(t, err, "owner can read own order")

	_, err = GetOrderAuthorized(ctx, db, order.ID, stranger.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = GetOrderAuthorized(ctx, db, order.ID, admin.ID, true)
	assert.NoError(t, err, "admin can read any order")
}

func TestUpdateOrderStatusLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 500, 5)

	order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(500))
	require.NoError(t, err)

	// Skipping a state is rejected
	_, err = UpdateOrderStatus(ctx, db, order.ID, model.OrderStatusShipped, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = UpdateOrderStatus(ctx, db, order.ID, model.OrderStatusProcessing, "")
	require.NoError(t, err)

	shipped, err := UpdateOrderStatus(ctx, db, order.ID, model.OrderStatusShipped, "TRK-123")
	require.NoError(t, err)
	assert.Equal(t, "TRK-123", shipped.TrackingNumber)

	delivered, err := UpdateOrderStatus(ctx, db, order.ID, model.OrderStatusDelivered, "")
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)

	// Terminal states accept no further transitions
	_, err = UpdateOrderStatus(ctx, db, order.ID, model.OrderStatusCancelled, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatusTrackingOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 500, 5)

	order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(500))
	require.NoError(t, err)

	updated, err := UpdateOrderStatus(ctx, db, order.ID, "", "TRK-999")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, updated.Status, "tracking update leaves status alone")
	assert.Equal(t, "TRK-999", updated.TrackingNumber)
}

func TestListOrdersStatusFilterAndPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 10, 100)

	var cancelled uint
	for i := 0; i < 5; i++ {
		order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(10))
		require.NoError(t, err)
		cancelled = order.ID
	}
	_, err := UpdateOrderStatus(ctx, db, cancelled, model.OrderStatusCancelled, "")
	require.NoError(t, err)

	page, err := ListOrders(ctx, db, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Len(t, page.Orders, 2)

	pending, err := ListOrders(ctx, db, model.OrderStatusPending, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pending.Total)

	_, err = ListOrders(ctx, db, "bogus", 1, 20)
	assert.Error(t, err)
}

func TestListMyOrders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	other := seedUser(t, db, "Other", "other@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 10, 100)

	for i := 0; i < 3; i++ {
		_, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(10))
		require.NoError(t, err)
	}
	_, err := PlaceOrder(ctx, db, other.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(10))
	require.NoError(t, err)

	mine, err := ListMyOrders(ctx, db, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, order := range mine {
		assert.Equal(t, buyer.ID, order.UserID)
	}
}

func TestDeleteOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 10, 100)

	order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, totalsFixture(10))
	require.NoError(t, err)

	require.NoError(t, DeleteOrder(ctx, db, order.ID))
	_, err = GetOrder(ctx, db, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var items int64
	require.NoError(t, db.Model(&model.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items, "line items are removed with their order")

	assert.ErrorIs(t, DeleteOrder(ctx, db, order.ID), ErrNotFound)
}
