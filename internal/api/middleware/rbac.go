package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/commerce-system/internal/core/domain"
)

// RBAC lets the request through when the token carries any of allowedRoles.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tags, _ := c.Get("roles").([]string)
			granted := domain.NewRoleSet()
			for _, t := range tags {
				granted.Add(domain.Role(t))
			}
			if granted.HasAny(allowedRoles...) {
				return next(c)
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
