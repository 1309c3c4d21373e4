package middleware

import (
	"net/http"

	"sitedesk/internal/common"
	"sitedesk/internal/services"

	"github.com/labstack/echo/v4"
)

// RequirePermission gates a route on the static role capability table. It
// must run after JWTMiddleware, which places the role in the context.
func RequirePermission(action services.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if !services.Allowed(role, action) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
