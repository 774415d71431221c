package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/middleware"
	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
)

// AuthHandler serves registration, login and profile endpoints. It carries
// the config needed to shape the session cookie.
type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// sendToken issues a session token in the body and as an http-only,
// strict-same-site cookie
func (h *AuthHandler) sendToken(c echo.Context, status int, user *model.User) error {
	token, err := jwtutil.GenerateToken(user.ID, user.Role)
	if err != nil {
		logger.FromContext(c).Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.JWT.Expiration()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.cfg.IsProduction(),
		Path:     "/",
	})

	return c.JSON(status, echo.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of at least 6 characters are required"})
	}

	user, err := store.RegisterUser(c.Request().Context(), database.GetDB(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		prometheus.RecordAuthError("registration_failed")
		return jsonError(c, err)
	}

	log.Info("User registered", zap.String("email", user.Email))
	return h.sendToken(c, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "please provide email and password"})
	}

	user, err := store.AuthenticateUser(c.Request().Context(), database.GetDB(), req.Email, req.Password)
	if err != nil {
		log.Warn("Login failed", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return jsonError(c, err)
	}

	log.Info("User logged in", zap.String("email", user.Email), zap.Uint("user_id", user.ID))
	return h.sendToken(c, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout by expiring the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out successfully"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	current, _ := middleware.CurrentUser(c)
	user, err := store.GetUser(c.Request().Context(), database.GetDB(), current.ID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	current, _ := middleware.CurrentUser(c)

	var req struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	changes := map[string]interface{}{}
	if req.Name != "" {
		changes["name"] = req.Name
	}
	if req.Phone != "" {
		changes["phone"] = req.Phone
	}
	if len(changes) > 0 {
		if err := database.GetDB().WithContext(c.Request().Context()).
			Model(current).Updates(changes).Error; err != nil {
			return jsonError(c, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": current})
}

// ChangePassword handles PUT /api/auth/password. The current password must
// re-verify; a mismatch is a 400 and nothing changes.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	current, _ := middleware.CurrentUser(c)

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 6 characters"})
	}

	user, err := store.ChangePassword(c.Request().Context(), database.GetDB(), current.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password is incorrect"})
		}
		return jsonError(c, err)
	}

	logger.FromContext(c).Info("Password changed", zap.Uint("user_id", user.ID))
	return h.sendToken(c, http.StatusOK, user)
}
