package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
)

// ListCategories handles GET /api/categories
func ListCategories(c echo.Context) error {
	categories, err := store.ListActiveCategories(c.Request().Context(), database.GetDB())
	if err != nil {
		logger.FromContext(c).Error("Failed to list categories", zap.Error(err))
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "categories": categories})
}

// CategoryRequest is the payload for category writes
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ParentID    *uint  `json:"parent_id"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

// CreateCategory handles POST /api/categories (admin)
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category name is required"})
	}

	category := model.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ParentID:    req.ParentID,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := store.CreateCategory(c.Request().Context(), database.GetDB(), &category); err != nil {
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("slug", category.Slug))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "category": category})
}

// UpdateCategory handles PUT /api/categories/:id (admin)
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category name is required"})
	}

	upd := model.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ParentID:    req.ParentID,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if req.IsActive != nil {
		upd.IsActive = *req.IsActive
	}

	category, err := store.UpdateCategory(c.Request().Context(), database.GetDB(), id, &upd)
	if err != nil {
		log.Warn("Category update rejected", zap.Uint("category_id", id), zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("Category updated", zap.Uint("category_id", id), zap.String("slug", category.Slug))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "category": category})
}

// DeleteCategory handles DELETE /api/categories/:id (admin)
func DeleteCategory(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	if err := store.DeleteCategory(c.Request().Context(), database.GetDB(), id); err != nil {
		return jsonError(c, err)
	}

	logger.FromContext(c).Info("Category deleted", zap.Uint("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "category deleted"})
}
