package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"

	"vitigen/api/contexts"
)

/*
	Echo middleware to ensure a `collection` path parameter was provided
*/
func MandateCollectionPathParameter(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.VitiGenContext)

		collection := strings.TrimSpace(c.Param("collection"))
		if len(collection) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'collection' path parameter!")
		}

		gc.CollectionName = collection

		return next(gc)
	}
}
