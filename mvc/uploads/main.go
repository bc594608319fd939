package uploads

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo"

	"vitigen/api/contexts"
	"vitigen/api/models/dtos"
	e "vitigen/api/models/dtos/errors"
	"vitigen/api/mvc"
	"vitigen/api/repositories/mongodb"
)

/*
	List the requester's registered uploads, newest first.
*/
func UploadsList(c echo.Context) error {
	fmt.Printf("[%s] - UploadsList hit!\n", time.Now())

	gc := c.(*contexts.VitiGenContext)

	records, listErr := gc.Uploads.ListByOwner(context.Background(), gc.RequesterEmail)
	if listErr != nil {
		fmt.Printf("[%s] - Error listing uploads for %s : %v\n", time.Now(), gc.RequesterEmail, listErr)
		return c.JSON(http.StatusInternalServerError,
			e.CreateSimpleInternalServerError("Something went wrong listing uploads!"))
	}

	return c.JSON(http.StatusOK, dtos.UploadsListResponseDTO{
		Count:   len(records),
		Uploads: records,
	})
}

/*
	Delete one of the requester's uploads : the variant collection and
	its registry entry go together, never one without the other.
*/
func UploadDelete(c echo.Context) error {
	fmt.Printf("[%s] - UploadDelete hit!\n", time.Now())

	gc := c.(*contexts.VitiGenContext)

	record, accessErr := gc.Uploads.FindOwned(context.Background(), gc.CollectionName, gc.RequesterEmail)
	if accessErr != nil {
		return mvc.RespondOwnershipError(c, accessErr, gc.CollectionName)
	}

	if dropErr := mongodb.DropVariantsCollection(context.Background(), gc.Database, record.CollectionName); dropErr != nil {
		fmt.Printf("[%s] - Error dropping collection %s : %v\n", time.Now(), record.CollectionName, dropErr)
		return c.JSON(http.StatusInternalServerError,
			e.CreateSimpleInternalServerError("Something went wrong deleting the upload!"))
	}

	if deleteErr := gc.Uploads.Delete(context.Background(), record.CollectionName); deleteErr != nil {
		fmt.Printf("[%s] - Error deleting upload entry %s : %v\n", time.Now(), record.CollectionName, deleteErr)
		return c.JSON(http.StatusInternalServerError,
			e.CreateSimpleInternalServerError("Something went wrong deleting the upload!"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Upload deleted..",
		"collection": record.CollectionName,
		"filename":   record.Filename,
	})
}
