package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/model"
	"storefront-service/internal/query"
	"storefront-service/internal/store"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// ListProducts handles GET /api/products with filter, keyword search, sort
// and pagination parameters
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	params, err := query.ParseListParams(c.QueryParams(), query.DefaultLimit)
	if err != nil {
		log.Warn("Rejected catalog query", zap.Error(err))
		return jsonError(c, err)
	}

	page, err := store.ListProducts(c.Request().Context(), database.GetDB(), params)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return jsonError(c, err)
	}

	log.Info("Products listed",
		zap.Int64("total", page.Total),
		zap.Int("page", page.Page),
		zap.Int("count", len(page.Products)))
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": page.Products,
		"total":    page.Total,
		"pages":    page.Pages,
		"page":     page.Page,
		"limit":    page.Limit,
	})
}

// GetProduct handles GET /api/products/:id
func GetProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := store.GetProduct(c.Request().Context(), database.GetDB(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": product})
}

// FeaturedProducts handles GET /api/products/featured
func FeaturedProducts(c echo.Context) error {
	products, err := store.FeaturedProducts(c.Request().Context(), database.GetDB())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "products": products})
}

// ProductRequest is the payload for product creation
type ProductRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"compare_price"`
	Images       []string `json:"images"`
	CategoryID   uint     `json:"category_id"`
	Brand        string   `json:"brand"`
	Stock        int      `json:"stock"`
	Tags         []string `json:"tags"`
	SKU          string   `json:"sku"`
	IsFeatured   bool     `json:"is_featured"`
	IsActive     *bool    `json:"is_active"`
}

// CreateProduct handles POST /api/products (admin)
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	current, _ := middleware.CurrentUser(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.Price <= 0 || req.CategoryID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, a positive price and a category are required"})
	}

	product := model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       decimal.NewFromFloat(req.Price),
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		Brand:       req.Brand,
		Stock:       req.Stock,
		Tags:        req.Tags,
		SKU:         req.SKU,
		IsFeatured:  req.IsFeatured,
		IsActive:    true,
	}
	if req.ComparePrice != nil {
		cp := decimal.NewFromFloat(*req.ComparePrice)
		product.ComparePrice = &cp
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := store.CreateProduct(c.Request().Context(), database.GetDB(), &product, current.ID); err != nil {
		log.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return jsonError(c, err)
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "product": product})
}

// UpdateProduct handles PUT /api/products/:id (admin)
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var upd store.ProductUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	product, err := store.UpdateProduct(c.Request().Context(), database.GetDB(), id, upd)
	if err != nil {
		return jsonError(c, err)
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": product})
}

// DeleteProduct handles DELETE /api/products/:id (admin)
func DeleteProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := store.DeleteProduct(c.Request().Context(), database.GetDB(), id); err != nil {
		return jsonError(c, err)
	}

	prometheus.RecordProductOperation("delete")
	logger.FromContext(c).Info("Product deleted", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "product deleted"})
}

// AddReview handles POST /api/products/:id/reviews
func AddReview(c echo.Context) error {
	log := logger.FromContext(c)
	current, _ := middleware.CurrentUser(c)

	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	review, err := store.AddReview(c.Request().Context(), database.GetDB(), id, current.ID, current.Name, req.Rating, req.Comment)
	if err != nil {
		log.Warn("Review rejected", zap.Uint("product_id", id), zap.Error(err))
		return jsonError(c, err)
	}

	prometheus.ReviewsAddedCounter.Inc()
	log.Info("Review added",
		zap.Uint("product_id", id),
		zap.Uint("user_id", current.ID),
		zap.Int("rating", req.Rating))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "review added", "review": review})
}

// paramID parses the :id path parameter
func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
