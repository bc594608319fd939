package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"

	"vitigen/api/contexts"
	"vitigen/api/models/constants/sort"
)

func setUpEcho(path string) (*contexts.VitiGenContext, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	gc := &contexts.VitiGenContext{
		Context: c,
	}
	return gc, rec
}

func TestPaginationDefaults(t *testing.T) {
	gc, _ := setUpEcho("/variants/search/abc")

	handlerErr := ValidatePaginationAttributes(func(c echo.Context) error {
		inner := c.(*contexts.VitiGenContext)
		assert.Equal(t, DefaultPage, inner.Page)
		assert.Equal(t, DefaultPerPage, inner.PerPage)
		return nil
	})(gc)

	assert.NoError(t, handlerErr)
}

func TestPaginationAcceptsExplicitValues(t *testing.T) {
	gc, _ := setUpEcho("/variants/search/abc?page=3&per_page=100")

	handlerErr := ValidatePaginationAttributes(func(c echo.Context) error {
		inner := c.(*contexts.VitiGenContext)
		assert.Equal(t, 3, inner.Page)
		assert.Equal(t, 100, inner.PerPage)
		return nil
	})(gc)

	assert.NoError(t, handlerErr)
}

func TestPaginationRejectsBadValues(t *testing.T) {
	badPaths := []string{
		"/variants/search/abc?page=0",
		"/variants/search/abc?page=-1",
		"/variants/search/abc?page=abc",
		"/variants/search/abc?per_page=0",
		"/variants/search/abc?per_page=1001",
		"/variants/search/abc?per_page=abc",
	}

	for _, badPath := range badPaths {
		gc, _ := setUpEcho(badPath)

		handlerErr := ValidatePaginationAttributes(func(c echo.Context) error {
			t.Errorf("handler should not run for %s", badPath)
			return nil
		})(gc)

		httpErr, ok := handlerErr.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	}
}

func TestSortAttributesDefaultToAscending(t *testing.T) {
	gc, _ := setUpEcho("/variants/search/abc")

	handlerErr := ValidateOptionalSortAttributes(func(c echo.Context) error {
		inner := c.(*contexts.VitiGenContext)
		assert.Equal(t, "", inner.SortBy)
		assert.Equal(t, sort.Ascending, inner.SortOrder)
		return nil
	})(gc)

	assert.NoError(t, handlerErr)
}

func TestSortAttributesAccepted(t *testing.T) {
	gc, _ := setUpEcho("/variants/search/abc?sort_by=pos&sort_order=desc")

	handlerErr := ValidateOptionalSortAttributes(func(c echo.Context) error {
		inner := c.(*contexts.VitiGenContext)
		assert.Equal(t, "pos", inner.SortBy)
		assert.Equal(t, sort.Descending, inner.SortOrder)
		return nil
	})(gc)

	assert.NoError(t, handlerErr)
}

func TestSortOrderRejected(t *testing.T) {
	gc, _ := setUpEcho("/variants/search/abc?sort_order=sideways")

	handlerErr := ValidateOptionalSortAttributes(func(c echo.Context) error {
		t.Error("handler should not run")
		return nil
	})(gc)

	httpErr, ok := handlerErr.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCollectionPathParameterMandated(t *testing.T) {
	gc, _ := setUpEcho("/variants/search/")

	handlerErr := MandateCollectionPathParameter(func(c echo.Context) error {
		t.Error("handler should not run")
		return nil
	})(gc)

	httpErr, ok := handlerErr.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCollectionPathParameterStashed(t *testing.T) {
	gc, _ := setUpEcho("/variants/search/variants_abc123")
	gc.SetParamNames("collection")
	gc.SetParamValues("variants_abc123")

	handlerErr := MandateCollectionPathParameter(func(c echo.Context) error {
		inner := c.(*contexts.VitiGenContext)
		assert.Equal(t, "variants_abc123", inner.CollectionName)
		return nil
	})(gc)

	assert.NoError(t, handlerErr)
}
