package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/model"
)

func TestCreateCategoryDerivesSlug(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	category := &model.Category{Name: "Home & Garden", IsActive: true}
	require.NoError(t, CreateCategory(ctx, db, category))
	assert.Equal(t, "home-garden", category.Slug)

	// Slug recomputes on rename
	category.Name = "Outdoor Living"
	updated, err := UpdateCategory(ctx, db, category.ID, category)
	require.NoError(t, err)
	assert.Equal(t, "outdoor-living", updated.Slug)
}

func TestCreateCategoryParentMustExist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	missing := uint(4242)
	category := &model.Category{Name: "Orphan", ParentID: &missing, IsActive: true}
	assert.ErrorIs(t, CreateCategory(ctx, db, category), ErrParentNotFound)
}

func TestUpdateCategoryRejectsCycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	root := seedCategory(t, db, "Root")
	child := &model.Category{Name: "Child", ParentID: &root.ID, IsActive: true}
	require.NoError(t, CreateCategory(ctx, db, child))

	// Root -> Child -> Root would be a cycle
	rootEdit := *root
	rootEdit.ParentID = &child.ID
	_, err := UpdateCategory(ctx, db, root.ID, &rootEdit)
	assert.ErrorIs(t, err, ErrCategoryCycle)

	// Self-parent is the smallest cycle
	childEdit := *child
	childEdit.ParentID = &child.ID
	_, err = UpdateCategory(ctx, db, child.ID, &childEdit)
	assert.ErrorIs(t, err, ErrCategoryCycle)
}

func TestListActiveCategoriesSortedAndFiltered(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	second := &model.Category{Name: "Second", IsActive: true, SortOrder: 2}
	first := &model.Category{Name: "First", IsActive: true, SortOrder: 1}
	hidden := &model.Category{Name: "Hidden", IsActive: false, SortOrder: 0}
	for _, c := range []*model.Category{second, first, hidden} {
		require.NoError(t, CreateCategory(ctx, db, c))
	}

	categories, err := ListActiveCategories(ctx, db)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "First", categories[0].Name)
	assert.Equal(t, "Second", categories[1].Name)
}

func TestDeleteCategory(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	category := seedCategory(t, db, "Doomed")
	require.NoError(t, DeleteCategory(ctx, db, category.ID))

	_, err := GetCategory(ctx, db, category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, DeleteCategory(ctx, db, category.ID), ErrNotFound)
}
