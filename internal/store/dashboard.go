package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// lowStockThreshold marks active products that need restocking
const lowStockThreshold = 10

// StatusCount is one bucket of the orders-by-status breakdown
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MonthlyBucket is one calendar month of revenue and order volume
type MonthlyBucket struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// DashboardStats is the combined admin dashboard response
type DashboardStats struct {
	TotalOrders     int64           `json:"total_orders"`
	MonthOrders     int64           `json:"month_orders"`
	LastMonthOrders int64           `json:"last_month_orders"`
	TotalUsers      int64           `json:"total_users"`
	MonthUsers      int64           `json:"month_users"`
	TotalProducts   int64           `json:"total_products"`
	LowStock        int64           `json:"low_stock_products"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	MonthRevenue    decimal.Decimal `json:"month_revenue"`
	RecentOrders    []model.Order   `json:"recent_orders"`
	TopProducts     []model.Product `json:"top_products"`
	OrdersByStatus  []StatusCount   `json:"orders_by_status"`
	MonthlyRevenue  []MonthlyBucket `json:"monthly_revenue"`
}

// ComputeDashboard computes every admin dashboard aggregate as of now. The
// independent read-only sub-queries run concurrently; the first failure
// cancels the rest and fails the whole computation, there is no
// partial-result mode.
func ComputeDashboard(ctx context.Context, db *gorm.DB, now time.Time) (*DashboardStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	windowStart := monthStart.AddDate(0, -5, 0)

	stats := &DashboardStats{
		TotalRevenue: decimal.Zero,
		MonthRevenue: decimal.Zero,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Order{}).Count(&stats.TotalOrders).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Order{}).
			Where("created_at >= ?", monthStart).
			Count(&stats.MonthOrders).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Order{}).
			Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
			Count(&stats.LastMonthOrders).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.User{}).
			Where("role = ?", model.RoleUser).
			Count(&stats.TotalUsers).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.User{}).
			Where("role = ? AND created_at >= ?", model.RoleUser, monthStart).
			Count(&stats.MonthUsers).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Product{}).
			Where("is_active = ?", true).
			Count(&stats.TotalProducts).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Product{}).
			Where("is_active = ? AND stock <= ?", true, lowStockThreshold).
			Count(&stats.LowStock).Error
	})
	g.Go(func() error {
		return sumRevenue(gctx, db, time.Time{}, &stats.TotalRevenue)
	})
	g.Go(func() error {
		return sumRevenue(gctx, db, monthStart, &stats.MonthRevenue)
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Order{}).
			Preload("User").
			Order("created_at DESC").
			Limit(5).
			Find(&stats.RecentOrders).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Product{}).
			Where("is_active = ?", true).
			Preload("Category").
			Order("total_sold DESC").
			Limit(5).
			Find(&stats.TopProducts).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(&model.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("status").
			Scan(&stats.OrdersByStatus).Error
	})
	g.Go(func() error {
		buckets, err := monthlyRevenue(gctx, db, windowStart, now)
		if err != nil {
			return err
		}
		stats.MonthlyRevenue = buckets
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute dashboard: %w", err)
	}
	return stats, nil
}

// sumRevenue sums total_price over all orders created at or after since; a
// zero since means all time
func sumRevenue(ctx context.Context, db *gorm.DB, since time.Time, out *decimal.Decimal) error {
	q := db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_price), 0)")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	row := q.Row()
	if err := row.Scan(out); err != nil {
		return fmt.Errorf("sum revenue: %w", err)
	}
	return nil
}

// monthlyRevenue returns one bucket per calendar month from windowStart
// through now, in chronological order. Months without orders appear as zero
// buckets so the trailing window always has six entries.
func monthlyRevenue(ctx context.Context, db *gorm.DB, windowStart, now time.Time) ([]MonthlyBucket, error) {
	var rows []MonthlyBucket
	err := db.WithContext(ctx).Model(&model.Order{}).
		Select("EXTRACT(YEAR FROM created_at)::int AS year, EXTRACT(MONTH FROM created_at)::int AS month, COALESCE(SUM(total_price), 0) AS revenue, COUNT(*) AS orders").
		Where("created_at >= ?", windowStart).
		Group("1, 2").
		Order("1, 2").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}

	byMonth := make(map[[2]int]MonthlyBucket, len(rows))
	for _, row := range rows {
		byMonth[[2]int{row.Year, row.Month}] = row
	}

	buckets := make([]MonthlyBucket, 0, 6)
	for cursor := windowStart; !cursor.After(now); cursor = cursor.AddDate(0, 1, 0) {
		key := [2]int{cursor.Year(), int(cursor.Month())}
		if bucket, ok := byMonth[key]; ok {
			buckets = append(buckets, bucket)
		} else {
			buckets = append(buckets, MonthlyBucket{
				Year:    cursor.Year(),
				Month:   int(cursor.Month()),
				Revenue: decimal.Zero,
			})
		}
	}
	return buckets, nil
}
