package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// AddReview appends a single review per (product, user) pair and recomputes
// the running rating average and count. The average is a full recompute over
// all review rows rather than an incremental update, so repeated additions
// cannot accumulate floating point drift.
func AddReview(ctx context.Context, db *gorm.DB, productID, userID uint, userName string, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	var review *model.Review
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get product: %w", err)
		}

		var count int64
		err := tx.Model(&model.Review{}).
			Where("product_id = ? AND user_id = ?", productID, userID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("check existing review: %w", err)
		}
		if count > 0 {
			return ErrDuplicateReview
		}

		review = &model.Review{
			ProductID: productID,
			UserID:    userID,
			Name:      userName,
			Rating:    rating,
			Comment:   comment,
		}
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		// Recompute the derived aggregates from the review rows
		var agg struct {
			Count   int64
			Average float64
		}
		err = tx.Model(&model.Review{}).
			Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
			Where("product_id = ?", productID).
			Scan(&agg).Error
		if err != nil {
			return fmt.Errorf("aggregate reviews: %w", err)
		}

		err = tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Updates(map[string]interface{}{
				"num_reviews": agg.Count,
				"ratings":     agg.Average,
			}).Error
		if err != nil {
			return fmt.Errorf("update product aggregates: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}
