package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storefront-service/internal/model"
)

// ListActiveCategories returns active categories in display order
func ListActiveCategories(ctx context.Context, db *gorm.DB) ([]model.Category, error) {
	var categories []model.Category
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory fetches a category by id
func GetCategory(ctx context.Context, db *gorm.DB, id uint) (*model.Category, error) {
	var category model.Category
	if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// CreateCategory stores a new category. The slug is derived from the name by
// the model hook; the parent, if set, must exist.
func CreateCategory(ctx context.Context, db *gorm.DB, category *model.Category) error {
	if category.ParentID != nil {
		if _, err := GetCategory(ctx, db, *category.ParentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrParentNotFound
			}
			return err
		}
	}
	if err := db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory applies an edit, revalidating the parent chain. Re-pointing
// the parent may not introduce a cycle.
func UpdateCategory(ctx context.Context, db *gorm.DB, id uint, upd *model.Category) (*model.Category, error) {
	category, err := GetCategory(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if upd.ParentID != nil {
		if err := checkParentChain(ctx, db, id, *upd.ParentID); err != nil {
			return nil, err
		}
	}

	category.Name = upd.Name
	category.Description = upd.Description
	category.ImageURL = upd.ImageURL
	category.ParentID = upd.ParentID
	category.IsActive = upd.IsActive
	category.SortOrder = upd.SortOrder

	if err := db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category (admin action)
func DeleteCategory(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&model.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// checkParentChain walks up from parentID and fails with ErrCategoryCycle if
// the walk reaches the category being edited (or revisits any node).
func checkParentChain(ctx context.Context, db *gorm.DB, id, parentID uint) error {
	seen := map[uint]bool{id: true}
	current := parentID
	for {
		if seen[current] {
			return ErrCategoryCycle
		}
		seen[current] = true

		parent, err := GetCategory(ctx, db, current)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrParentNotFound
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}
