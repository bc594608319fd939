package contexts

import (
	"github.com/labstack/echo"
	"go.mongodb.org/mongo-driver/mongo"

	"vitigen/api/models"
	"vitigen/api/models/constants"
	"vitigen/api/repositories/mongodb"
	"vitigen/api/services"
	"vitigen/api/services/search"
)

type (
	// "Helper" Context to pass into routes that need
	//  the mongo client, global singletons and per-request variables
	VitiGenContext struct {
		echo.Context
		Database *mongo.Database
		Config   *models.Config

		// global singletons
		AuthnService     *services.AuthnService
		IngestionService *services.IngestionService
		SearchService    *search.SearchService
		Uploads          *mongodb.UploadRepo

		// requester identity, set by the authentication middleware
		RequesterEmail string

		// pagination, set by the pagination middleware
		Page    int
		PerPage int

		// sorting, set by the sort middleware
		SortBy    string
		SortOrder constants.SortDirection

		// target collection, set by the collection middleware
		CollectionName string
	}
)
