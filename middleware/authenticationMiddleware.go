package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"

	"vitigen/api/contexts"
	e "vitigen/api/models/dtos/errors"
)

/*
	Echo middleware to resolve the requester's identity and stash it on
	the request context. With authentication enabled the email comes from
	the identity service via the bearer token; disabled mode falls back
	to the X-User-Email header for development setups.
*/
func MandateRequesterEmailAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.VitiGenContext)

		if !gc.AuthnService.IsEnabled() {
			devEmail := strings.TrimSpace(c.Request().Header.Get("X-User-Email"))
			if devEmail == "" {
				return c.JSON(http.StatusUnauthorized,
					e.CreateSimpleUnauthorized("Missing 'X-User-Email' header!"))
			}
			gc.RequesterEmail = devEmail
			return next(gc)
		}

		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized,
				e.CreateSimpleUnauthorized("Missing or malformed 'Authorization' header!"))
		}

		email, resolveErr := gc.AuthnService.ResolveRequesterEmail(strings.TrimPrefix(authHeader, "Bearer "))
		if resolveErr != nil {
			return c.JSON(http.StatusUnauthorized, e.CreateSimpleUnauthorized(resolveErr.Error()))
		}

		gc.RequesterEmail = email
		return next(gc)
	}
}
