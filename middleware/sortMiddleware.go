package middleware

import (
	"net/http"

	"github.com/labstack/echo"

	"vitigen/api/contexts"
	"vitigen/api/models/constants/sort"
)

/*
	Echo middleware to validate the optional `sort_by` and `sort_order`
	HTTP query parameters and stash them on the request context
*/
func ValidateOptionalSortAttributes(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.VitiGenContext)

		sortOrder := sort.Ascending
		sortOrderQP := c.QueryParam("sort_order")
		if len(sortOrderQP) > 0 {
			parsedOrder := sort.CastToSortDirection(sortOrderQP)
			if parsedOrder == sort.Undefined {
				return echo.NewHTTPError(http.StatusBadRequest, "Please provide a 'sort_order' of either 'asc' or 'desc'!")
			}
			sortOrder = parsedOrder
		}

		gc.SortBy = c.QueryParam("sort_by")
		gc.SortOrder = sortOrder

		return next(gc)
	}
}
