package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-service/internal/model"
)

// OrderLine is one requested cart line
type OrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderTotals carries the four monetary totals captured at checkout
type OrderTotals struct {
	Items    decimal.Decimal `json:"items_price"`
	Tax      decimal.Decimal `json:"tax_price"`
	Shipping decimal.Decimal `json:"shipping_price"`
	Total    decimal.Decimal `json:"total_price"`
}

// PlaceOrder creates an order snapshot from cart lines and applies the
// matching stock mutations. The order row, its line snapshots and every
// per-line stock decrement commit in one transaction: a failed line (missing
// product, short stock) rolls the whole order back. Line items copy the
// product name, image and price at call time, so later catalog edits never
// change historical orders.
func PlaceOrder(ctx context.Context, db *gorm.DB, userID uint, lines []OrderLine, addr model.ShippingAddress, payment model.PaymentInfo, totals OrderTotals) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("line for product %d has quantity %d: %w", line.ProductID, line.Quantity, ErrEmptyOrder)
		}
	}

	var order *model.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			var product model.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, line.ProductID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("lock product %d: %w", line.ProductID, err)
			}
			if product.Stock < line.Quantity {
				return ErrInsufficientStock
			}

			image := ""
			if len(product.Images) > 0 {
				image = product.Images[0]
			}
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     image,
				Price:     product.Price,
				Quantity:  line.Quantity,
			})
		}

		order = &model.Order{
			UserID:          userID,
			Items:           items,
			ShippingAddress: addr,
			PaymentInfo:     payment,
			ItemsPrice:      totals.Items,
			TaxPrice:        totals.Tax,
			ShippingPrice:   totals.Shipping,
			TotalPrice:      totals.Total,
			Status:          model.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range lines {
			result := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				Updates(map[string]interface{}{
					"stock":      gorm.Expr("stock - ?", line.Quantity),
					"total_sold": gorm.Expr("total_sold + ?", line.Quantity),
				})
			if result.Error != nil {
				return fmt.Errorf("update stock for product %d: %w", line.ProductID, result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder fetches an order with its items and owner
func GetOrder(ctx context.Context, db *gorm.DB, id uint) (*model.Order, error) {
	var order model.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// GetOrderAuthorized fetches an order and enforces the ownership rule: the
// requester must own the order or be an admin.
func GetOrderAuthorized(ctx context.Context, db *gorm.DB, id, requesterID uint, isAdmin bool) (*model.Order, error) {
	order, err := GetOrder(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != requesterID && !isAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListMyOrders returns the requester's own orders, newest first
func ListMyOrders(ctx context.Context, db *gorm.DB, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// OrderPage is one page of the admin order listing
type OrderPage struct {
	Orders []model.Order `json:"orders"`
	Total  int64         `json:"total"`
	Pages  int           `json:"pages"`
	Page   int           `json:"page"`
}

// ListOrders returns all orders for the admin panel, optionally filtered by
// status, newest first, paginated
func ListOrders(ctx context.Context, db *gorm.DB, status model.OrderStatus, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidTransition)
	}

	base := db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	var orders []model.Order
	err := base.
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &OrderPage{
		Orders: orders,
		Total:  total,
		Pages:  pageCount(total, limit),
		Page:   page,
	}, nil
}

// UpdateOrderStatus moves an order through the lifecycle state machine.
// Transitions outside pending→processing→shipped→delivered (with cancel from
// any non-terminal state) fail with ErrInvalidTransition. A tracking number
// may be attached with or without a status change; delivery stamps
// delivered_at.
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, id uint, next model.OrderStatus, trackingNumber string) (*model.Order, error) {
	order, err := GetOrder(ctx, db, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if next != "" && next != order.Status {
		if !next.Valid() || !order.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%s -> %s: %w", order.Status, next, ErrInvalidTransition)
		}
		changes["status"] = next
		if next == model.OrderStatusDelivered {
			now := time.Now()
			changes["delivered_at"] = &now
			order.DeliveredAt = &now
		}
		order.Status = next
	}
	if trackingNumber != "" {
		changes["tracking_number"] = trackingNumber
		order.TrackingNumber = trackingNumber
	}

	if len(changes) > 0 {
		if err := db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update order: %w", err)
		}
	}
	return order, nil
}

// DeleteOrder removes an order and its items (admin action)
func DeleteOrder(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Select(clause.Associations).Delete(&model.Order{ID: id})
	if result.Error != nil {
		return fmt.Errorf("delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
