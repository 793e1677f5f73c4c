package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/pkg/jwtutil"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
	"github.com/Thesarss/Lautan-Kita/prometheus"
)

// Auth validates the Bearer token and stores the caller's identity in the
// request context.
func Auth(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwt.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			role, err := model.ParseRole(claims.Role)
			if err != nil {
				log.Warn("Token carries unknown role", zap.String("role", claims.Role))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("user_role", role)

			return next(c)
		}
	}
}

// RequireRole allows the request through only when the authenticated role
// is one of the listed ones. Must run after Auth.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			logger.FromEcho(c).Warn("Role not allowed for endpoint",
				zap.String("role", string(role)),
				zap.String("endpoint", c.Path()))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "akses ditolak untuk role ini"})
		}
	}
}

// UserIDFromContext retrieves the authenticated user ID from the context
func UserIDFromContext(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}

// RoleFromContext retrieves the authenticated role from the context
func RoleFromContext(c echo.Context) (model.Role, bool) {
	role, ok := c.Get("user_role").(model.Role)
	return role, ok
}
