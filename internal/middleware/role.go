package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/domain"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user holds one of the specified roles.  The JWT middleware
// stores the raw "role" claim in the context; it is re-parsed here through
// the closed role enumeration, so a missing, malformed or unknown role
// value always fails closed with 403 Forbidden.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := c.Get("role").(string)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			role, ok := domain.ParseRole(raw)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
