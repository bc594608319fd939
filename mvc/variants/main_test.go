package variants

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"

	"vitigen/api/contexts"
)

func TestIsSupportedUploadName(t *testing.T) {
	assert.True(t, isSupportedUploadName("sample.vcf"))
	assert.True(t, isSupportedUploadName("sample.vcf.gz"))
	assert.True(t, isSupportedUploadName("SAMPLE.VCF.GZ"))

	// gzip alone does not make a variant file
	assert.False(t, isSupportedUploadName("data.tar.gz"))
	assert.False(t, isSupportedUploadName("sample.gz"))
	assert.False(t, isSupportedUploadName("notes.txt"))
	assert.False(t, isSupportedUploadName("sample.vcf.txt"))
}

func setUpUpload(t *testing.T, filename string) (*contexts.VitiGenContext, *httptest.ResponseRecorder) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, partErr := writer.CreateFormFile("file", filename)
	assert.NoError(t, partErr)
	_, writeErr := part.Write([]byte("##fileformat=VCFv4.2\n"))
	assert.NoError(t, writeErr)
	assert.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/variants/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	gc := &contexts.VitiGenContext{
		Context: c,
	}
	return gc, rec
}

func TestVariantsUploadRejectsUnsupportedExtension(t *testing.T) {
	gc, rec := setUpUpload(t, "data.tar.gz")

	assert.NoError(t, VariantsUpload(gc))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVariantsUploadRejectsMissingFileField(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/variants/upload", nil)
	rec := httptest.NewRecorder()
	gc := &contexts.VitiGenContext{
		Context: e.NewContext(req, rec),
	}

	assert.NoError(t, VariantsUpload(gc))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
