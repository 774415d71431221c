package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Monetary fields serialize as JSON numbers, matching the API contract
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents the catalog master data. Ratings and NumReviews are
// derived from the review rows and recomputed on every review write.
type Product struct {
	ID           uint             `json:"id" gorm:"primarykey"`
	Name         string           `json:"name" gorm:"type:varchar(200);not null"`
	Description  string           `json:"description" gorm:"type:text"`
	Price        decimal.Decimal  `json:"price" gorm:"type:decimal(12,2);not null"`
	ComparePrice *decimal.Decimal `json:"compare_price,omitempty" gorm:"type:decimal(12,2)"`
	Images       pq.StringArray   `json:"images" gorm:"type:text[]"`
	CategoryID   uint             `json:"category_id" gorm:"index;not null"`
	Category     *Category        `json:"category,omitempty"`
	Brand        string           `json:"brand,omitempty" gorm:"type:varchar(100)"`
	Stock        int              `json:"stock" gorm:"not null;default:0"`
	Ratings      float64          `json:"ratings" gorm:"not null;default:0"`
	NumReviews   int              `json:"num_reviews" gorm:"not null;default:0"`
	Reviews      []Review         `json:"reviews,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Tags         pq.StringArray   `json:"tags" gorm:"type:text[]"`
	SKU          string           `json:"sku" gorm:"type:varchar(100);uniqueIndex;not null"`
	IsFeatured   bool             `json:"is_featured" gorm:"not null;default:false"`
	IsActive     bool             `json:"is_active" gorm:"not null;default:true"`
	SellerID     *uint            `json:"seller_id,omitempty" gorm:"index"`
	TotalSold    int              `json:"total_sold" gorm:"not null;default:0"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `json:"deleted_at,omitempty" gorm:"index"`
}

// DiscountPercent returns the rounded percentage discount against the
// compare-at price, or 0 when no compare price is set or it is not higher
// than the selling price.
func (p *Product) DiscountPercent() int {
	if p.ComparePrice == nil || !p.ComparePrice.GreaterThan(p.Price) {
		return 0
	}
	pct := decimal.NewFromInt(1).
		Sub(p.Price.Div(*p.ComparePrice)).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return int(pct.IntPart())
}

// Review is a single customer review embedded under a product. One review
// per (product, user) pair, enforced by the composite unique index.
type Review struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProductID uint      `json:"-" gorm:"uniqueIndex:idx_review_product_user;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_review_product_user;not null"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
