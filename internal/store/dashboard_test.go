package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func TestComputeDashboard(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	seedUser(t, db, "Admin", "admin@example.com", "admin")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 50, 100)
	seedProduct(t, db, category.ID, "Scarce Gadget", 20, 3)

	place := func(total float64, at time.Time) *model.Order {
		order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, OrderTotals{
			Items:    decimal.NewFromFloat(total),
			Total:    decimal.NewFromFloat(total),
			Tax:      decimal.Zero,
			Shipping: decimal.Zero,
		})
		require.NoError(t, err)
		require.NoError(t, db.Model(order).Update("created_at", at).Error)
		return order
	}

	// Three orders this month totalling 150, two last month totalling 80
	place(50, monthStart.Add(24*time.Hour))
	place(50, monthStart.Add(48*time.Hour))
	place(50, monthStart.Add(72*time.Hour))
	place(30, monthStart.AddDate(0, -1, 0).Add(24*time.Hour))
	place(50, monthStart.AddDate(0, -1, 0).Add(48*time.Hour))

	stats, err := ComputeDashboard(ctx, db, now)
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.MonthOrders)
	assert.Equal(t, int64(2), stats.LastMonthOrders)
	assert.True(t, stats.MonthRevenue.Equal(decimal.NewFromInt(150)), "month revenue got %s", stats.MonthRevenue)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(230)), "total revenue got %s", stats.TotalRevenue)

	// Admin accounts do not count toward the customer totals
	assert.Equal(t, int64(1), stats.TotalUsers)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStock)

	assert.Len(t, stats.RecentOrders, 5)
	require.NotEmpty(t, stats.TopProducts)
	assert.Equal(t, "Phone", stats.TopProducts[0].Name, "phone sold five units")

	require.Len(t, stats.OrdersByStatus, 1)
	assert.Equal(t, string(model.OrderStatusPending), stats.OrdersByStatus[0].Status)
	assert.Equal(t, int64(5), stats.OrdersByStatus[0].Count)
}

func TestComputeDashboardMonthlyBucketsZeroFilled(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	buyer := seedUser(t, db, "Buyer", "buyer@example.com", "user")
	category := seedCategory(t, db, "Electronics")
	phone := seedProduct(t, db, category.ID, "Phone", 50, 100)

	order, err := PlaceOrder(ctx, db, buyer.ID, []OrderLine{{ProductID: phone.ID, Quantity: 1}}, shippingFixture(), model.PaymentInfo{}, OrderTotals{
		Items: decimal.NewFromInt(100),
		Total: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	january := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(order).Update("created_at", january).Error)

	stats, err := ComputeDashboard(ctx, db, now)
	require.NoError(t, err)

	// Six chronological buckets ending in the current month, empty months as zeros
	require.Len(t, stats.MonthlyRevenue, 6)
	assert.Equal(t, 2025, stats.MonthlyRevenue[0].Year)
	assert.Equal(t, int(time.October), stats.MonthlyRevenue[0].Month)
	assert.Equal(t, int(time.March), stats.MonthlyRevenue[5].Month)

	for _, bucket := range stats.MonthlyRevenue {
		if bucket.Month == int(time.January) {
			assert.True(t, bucket.Revenue.Equal(decimal.NewFromInt(100)))
			assert.Equal(t, int64(1), bucket.Orders)
		} else {
			assert.True(t, bucket.Revenue.IsZero(), "month %d should be zero, got %s", bucket.Month, bucket.Revenue)
			assert.Zero(t, bucket.Orders)
		}
	}
}

func TestComputeDashboardEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	stats, err := ComputeDashboard(ctx, db, time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Empty(t, stats.RecentOrders)
	assert.Len(t, stats.MonthlyRevenue, 6)
}
