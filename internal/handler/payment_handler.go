package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/pkg/config"
	"storefront-service/pkg/logger"
)

// PaymentHandler passes gateway keys and intents through to the client. The
// gateway itself is an external collaborator; no real call is made here.
type PaymentHandler struct {
	cfg *config.Config
}

func NewPaymentHandler(cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{cfg: cfg}
}

// Key handles GET /api/payment/key
func (h *PaymentHandler) Key(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"key":     h.cfg.Payment.PublishableKey,
	})
}

// CreateIntent handles POST /api/payment/intent
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	log := logger.FromContext(c)
	current, _ := middleware.CurrentUser(c)

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	clientSecret := "pi_" + uuid.NewString()
	log.Info("Payment intent created",
		zap.Uint("user_id", current.ID),
		zap.Float64("amount", req.Amount))
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"client_secret": clientSecret,
	})
}
