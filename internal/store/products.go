package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"storefront-service/internal/model"
	"storefront-service/internal/query"
)

// ProductPage is one page of a catalog listing, with the pre-pagination
// total and computed page count
type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
	Pages    int             `json:"pages"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
}

// ListProducts runs a validated catalog query. Only active products are ever
// returned through this path.
func ListProducts(ctx context.Context, db *gorm.DB, params *query.ListParams) (*ProductPage, error) {
	base := db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)
	for _, cond := range params.Conditions {
		base = base.Where(cond.Expr, cond.Args...)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	var products []model.Product
	err := base.
		Preload("Category").
		Order(params.OrderBy).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Pages:    params.Pages(total),
		Page:     params.Page,
		Limit:    params.Limit,
	}, nil
}

// GetProduct fetches a product with its category and reviews
func GetProduct(ctx context.Context, db *gorm.DB, id uint) (*model.Product, error) {
	var product model.Product
	err := db.WithContext(ctx).
		Preload("Category").
		Preload("Reviews").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// FeaturedProducts returns up to eight active featured products
func FeaturedProducts(ctx context.Context, db *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	err := db.WithContext(ctx).
		Where("is_featured = ? AND is_active = ?", true, true).
		Preload("Category").
		Limit(8).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return products, nil
}

// CreateProduct stores a new product. A SKU is generated when the caller
// does not supply one; sellerID records the creating admin.
func CreateProduct(ctx context.Context, db *gorm.DB, product *model.Product, sellerID uint) error {
	product.SellerID = &sellerID
	if strings.TrimSpace(product.SKU) == "" {
		product.SKU = GenerateSKU()
	}
	if err := db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GenerateSKU produces a unique stock keeping unit
func GenerateSKU() string {
	return "SKU-" + strings.ToUpper(uuid.New().String()[:8])
}

// ProductUpdate carries the editable product fields. Ratings, review count
// and the sold counter are derived and cannot be set through updates.
type ProductUpdate struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Price        *float64  `json:"price"`
	ComparePrice *float64  `json:"compare_price"`
	Images       *[]string `json:"images"`
	CategoryID   *uint     `json:"category_id"`
	Brand        *string   `json:"brand"`
	Stock        *int      `json:"stock"`
	Tags         *[]string `json:"tags"`
	IsFeatured   *bool     `json:"is_featured"`
	IsActive     *bool     `json:"is_active"`
}

// UpdateProduct applies a partial edit and returns the updated product
func UpdateProduct(ctx context.Context, db *gorm.DB, id uint, upd ProductUpdate) (*model.Product, error) {
	product, err := GetProduct(ctx, db, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Name != nil {
		changes["name"] = *upd.Name
	}
	if upd.Description != nil {
		changes["description"] = *upd.Description
	}
	if upd.Price != nil {
		changes["price"] = *upd.Price
	}
	if upd.ComparePrice != nil {
		changes["compare_price"] = *upd.ComparePrice
	}
	if upd.Images != nil {
		changes["images"] = toTextArray(*upd.Images)
	}
	if upd.CategoryID != nil {
		changes["category_id"] = *upd.CategoryID
	}
	if upd.Brand != nil {
		changes["brand"] = *upd.Brand
	}
	if upd.Stock != nil {
		changes["stock"] = *upd.Stock
	}
	if upd.Tags != nil {
		changes["tags"] = toTextArray(*upd.Tags)
	}
	if upd.IsFeatured != nil {
		changes["is_featured"] = *upd.IsFeatured
	}
	if upd.IsActive != nil {
		changes["is_active"] = *upd.IsActive
	}

	if len(changes) > 0 {
		if err := db.WithContext(ctx).Model(product).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
	}
	return product, nil
}

func toTextArray(values []string) pq.StringArray {
	return pq.StringArray(values)
}

// DeleteProduct removes a product and its reviews (admin action)
func DeleteProduct(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
