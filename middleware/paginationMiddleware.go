package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo"

	"vitigen/api/contexts"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 1000
)

/*
	Echo middleware to validate the optional `page` and `per_page` HTTP
	query parameters and stash the effective values on the request context
*/
func ValidatePaginationAttributes(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.VitiGenContext)

		page := DefaultPage
		pageQP := c.QueryParam("page")
		if len(pageQP) > 0 {
			i, conversionErr := strconv.Atoi(pageQP)
			if conversionErr != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'page' query parameter! Check your input")
			}
			if i < 1 {
				return echo.NewHTTPError(http.StatusBadRequest, "Please provide a 'page' greater than 0!")
			}
			page = i
		}

		perPage := DefaultPerPage
		perPageQP := c.QueryParam("per_page")
		if len(perPageQP) > 0 {
			i, conversionErr := strconv.Atoi(perPageQP)
			if conversionErr != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'per_page' query parameter! Check your input")
			}
			if i < 1 || i > MaxPerPage {
				return echo.NewHTTPError(http.StatusBadRequest, "Please provide a 'per_page' between 1 and 1000!")
			}
			perPage = i
		}

		gc.Page = page
		gc.PerPage = perPage

		return next(gc)
	}
}
