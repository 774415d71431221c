package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/store"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// DashboardStats handles GET /api/dashboard/stats (admin). Every
// sub-aggregate is computed as of the request time; a failure in any of
// them fails the whole response.
func DashboardStats(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("dashboard")(time.Now())

	stats, err := store.ComputeDashboard(c.Request().Context(), database.GetDB(), time.Now())
	if err != nil {
		log.Error("Failed to compute dashboard", zap.Error(err))
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}
