package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
)

// ListUsers handles GET /api/users (admin)
func ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}

	result, err := store.ListUsers(c.Request().Context(), database.GetDB(), page, limit)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"users":   result.Users,
		"total":   result.Total,
		"pages":   result.Pages,
		"page":    result.Page,
	})
}

// GetUser handles GET /api/users/:id (admin)
func GetUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	user, err := store.GetUser(c.Request().Context(), database.GetDB(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// UpdateUser handles PUT /api/users/:id (admin)
func UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var upd store.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	user, err := store.UpdateUser(c.Request().Context(), database.GetDB(), id, upd)
	if err != nil {
		return jsonError(c, err)
	}

	log.Info("User updated", zap.Uint("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// DeleteUser handles DELETE /api/users/:id (admin)
func DeleteUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	if err := store.DeleteUser(c.Request().Context(), database.GetDB(), id); err != nil {
		return jsonError(c, err)
	}

	logger.FromContext(c).Info("User deleted", zap.Uint("user_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "user deleted"})
}

// AddAddress handles PUT /api/users/address (self)
func AddAddress(c echo.Context) error {
	current, _ := middleware.CurrentUser(c)

	var addr model.Address
	if err := c.Bind(&addr); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	addresses, err := store.AddAddress(c.Request().Context(), database.GetDB(), current.ID, addr)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "addresses": addresses})
}
