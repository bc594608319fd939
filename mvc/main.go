package mvc

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo"

	e "vitigen/api/models/dtos/errors"
	"vitigen/api/repositories/mongodb"
)

// RespondOwnershipError maps upload registry resolution failures to
// their HTTP shape; anything unexpected falls through to a 500.
func RespondOwnershipError(c echo.Context, resolutionErr error, collectionName string) error {
	switch {
	case errors.Is(resolutionErr, mongodb.ErrNotFound):
		return c.JSON(http.StatusNotFound, e.CreateSimpleNotFound(resolutionErr.Error()))
	case errors.Is(resolutionErr, mongodb.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, e.CreateSimpleForbidden(resolutionErr.Error()))
	default:
		fmt.Printf("[%s] - Error serving %s : %v\n", time.Now(), collectionName, resolutionErr)
		return c.JSON(http.StatusInternalServerError,
			e.CreateSimpleInternalServerError("Something went wrong!"))
	}
}
