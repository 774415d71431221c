package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront-service/internal/model"
	"storefront-service/pkg/database"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
)

// SessionCookieName is the cookie carrying the bearer token for browser
// clients
const SessionCookieName = "token"

const userContextKey = "current_user"

// Authenticate validates the session token and resolves the subject. The
// token is read from the Authorization header, falling back to the session
// cookie. Requests with a missing or invalid token, or whose subject is gone
// or deactivated, are rejected with 401.
func Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		tokenString := extractToken(c)
		if tokenString == "" {
			log.Warn("Missing session token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized, no token"})
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid session token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		var user model.User
		if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
			log.Warn("Token subject not found", zap.Uint("user_id", claims.UserID))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found or deactivated"})
		}
		if !user.IsActive {
			log.Warn("Token subject deactivated", zap.Uint("user_id", user.ID))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found or deactivated"})
		}

		c.Set(userContextKey, &user)
		return next(c)
	}
}

// AdminOnly gates an endpoint to admin users. Must run after Authenticate.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			logger.FromContext(c).Warn("Admin access denied")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied: admins only"})
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user stored by Authenticate
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok
}

// extractToken reads the bearer token from the Authorization header or the
// session cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
