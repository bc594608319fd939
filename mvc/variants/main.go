package variants

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	linq "github.com/ahmetb/go-linq"
	"github.com/google/uuid"
	"github.com/labstack/echo"

	"vitigen/api/contexts"
	"vitigen/api/models/dtos"
	e "vitigen/api/models/dtos/errors"
	"vitigen/api/models/ingest"
	"vitigen/api/mvc"
	"vitigen/api/services/search"
)

/*
	Receive one multipart file upload, persist it to the temporary
	upload area and queue an ingestion run for it. The HTTP call
	returns as soon as the run is queued; progress is observable
	through the ingestion requests endpoint.
*/
func VariantsUpload(c echo.Context) error {
	fmt.Printf("[%s] - VariantsUpload hit!\n", time.Now())

	gc := c.(*contexts.VitiGenContext)
	ingestionService := gc.IngestionService

	fileHeader, formErr := c.FormFile("file")
	if formErr != nil {
		return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest("Missing 'file' form field!"))
	}

	if !isSupportedUploadName(fileHeader.Filename) {
		return c.JSON(http.StatusBadRequest,
			e.CreateSimpleBadRequest("Only .vcf and .vcf.gz files are supported!"))
	}

	// check if there is an already existing ingestion request state
	if ingestionService.FilenameAlreadyRunning(fileHeader.Filename) {
		return c.JSON(http.StatusBadRequest,
			e.CreateSimpleBadRequest("File already being ingested.."))
	}

	src, openErr := fileHeader.Open()
	if openErr != nil {
		return c.JSON(http.StatusBadRequest, e.CreateSimpleBadRequest("Unable to read uploaded file!"))
	}
	defer src.Close()

	tempPath, fileSize, saveErr := ingestionService.SaveUploadedFile(src, fileHeader.Filename)
	if saveErr != nil {
		fmt.Printf("[%s] - Error persisting upload %s : %v\n", time.Now(), fileHeader.Filename, saveErr)
		return c.JSON(http.StatusInternalServerError,
			e.CreateSimpleInternalServerError("Unable to persist uploaded file!"))
	}

	startTime := time.Now()

	// the listener only ever receives snapshots; this local value stays
	// exclusively with the worker across its state transitions
	newRequestState := ingest.UploadIngestRequest{
		Id:        uuid.New(),
		Filename:  fileHeader.Filename,
		State:     ingest.Queued,
		CreatedAt: fmt.Sprintf("%v", startTime),
	}
	ingestionService.PublishRequestState(newRequestState)

	requesterEmail := gc.RequesterEmail

	go func(_tempPath string, _originalFilename string, _ownerEmail string,
		_fileSize int64, reqStat ingest.UploadIngestRequest) {

		// take a spot in the queue
		ingestionService.ConcurrentFileIngestionQueue <- true

		// free up a spot in the queue
		defer func() {
			<-ingestionService.ConcurrentFileIngestionQueue
		}()

		fmt.Printf("Begin running %s !\n", _originalFilename)
		reqStat.State = ingest.Running
		ingestionService.PublishRequestState(reqStat)

		runResult, runErr := ingestionService.ProcessVcf(_tempPath, _originalFilename, _ownerEmail, _fileSize)
		if runErr != nil {
			fmt.Printf("[%s] - %v\n", time.Now(), runErr)

			reqStat.State = ingest.Error
			reqStat.Message = runErr.Error()
			ingestionService.PublishRequestState(reqStat)

			return
		}

		reqStat.State = ingest.Done
		reqStat.CollectionName = runResult.CollectionName
		reqStat.RecordCount = runResult.RecordCount
		ingestionService.PublishRequestState(reqStat)
	}(tempPath, fileHeader.Filename, requesterEmail, fileSize, newRequestState)

	return c.JSON(http.StatusOK, dtos.UploadResponseDTO{
		Message:  "Successfully queued..",
		Filename: fileHeader.Filename,
		FileSize: fileSize,
		Request: ingest.IngestResponseDTO{
			Id:       newRequestState.Id,
			Filename: newRequestState.Filename,
			State:    newRequestState.State,
			Message:  "Successfully queued..",
		},
	})
}

func GetAllVariantIngestionRequests(c echo.Context) error {
	fmt.Printf("[%s] - GetAllVariantIngestionRequests hit!\n", time.Now())

	ingestionService := c.(*contexts.VitiGenContext).IngestionService

	// transform map of id-to-ingestRequests to an array
	ingestionService.IngestRequestMapMux.RLock()
	m := make([]*ingest.UploadIngestRequest, 0, len(ingestionService.IngestRequestMap))
	for _, val := range ingestionService.IngestRequestMap {
		m = append(m, val)
	}
	ingestionService.IngestRequestMapMux.RUnlock()

	// newest first
	sorted := []*ingest.UploadIngestRequest{}
	linq.From(m).OrderByDescendingT(func(ingestRequest *ingest.UploadIngestRequest) string {
		return ingestRequest.CreatedAt
	}).ToSlice(&sorted)

	return c.JSON(http.StatusOK, sorted)
}

/*
	Serve one page of an upload's variants, filtered by the free-text
	`term` query parameter. Ownership of the target collection is
	enforced before any variant query runs.
*/
func VariantsSearch(c echo.Context) error {
	fmt.Printf("[%s] - VariantsSearch hit!\n", time.Now())
	return executeSearch(c, c.QueryParam("term"))
}

/*
	Serve one unfiltered page of an upload's variants.
*/
func VariantsGetAll(c echo.Context) error {
	fmt.Printf("[%s] - VariantsGetAll hit!\n", time.Now())
	return executeSearch(c, "")
}

// isSupportedUploadName accepts only .vcf and .vcf.gz files. A bare .gz
// extension is not enough : data.tar.gz is not a variant file.
func isSupportedUploadName(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".vcf") || strings.HasSuffix(name, ".vcf.gz")
}

func executeSearch(c echo.Context, term string) error {
	gc := c.(*contexts.VitiGenContext)

	searchResult, searchErr := gc.SearchService.Search(context.Background(), search.SearchParams{
		Term:           term,
		CollectionName: gc.CollectionName,
		SortBy:         gc.SortBy,
		SortOrder:      gc.SortOrder,
		RequesterEmail: gc.RequesterEmail,
		Page:           gc.Page,
		PerPage:        gc.PerPage,
	})
	if searchErr != nil {
		if errors.Is(searchErr, search.ErrQueryTimeout) {
			return c.JSON(http.StatusRequestTimeout, e.CreateSimpleRequestTimeout(searchErr.Error()))
		}
		return mvc.RespondOwnershipError(c, searchErr, gc.CollectionName)
	}

	return c.JSON(http.StatusOK, searchResult)
}
