package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"vitigen/api/contexts"
	gam "vitigen/api/middleware"
	"vitigen/api/models"
	serviceInfo "vitigen/api/models/constants/service-info"
	uploadsMvc "vitigen/api/mvc/uploads"
	variantsMvc "vitigen/api/mvc/variants"
	"vitigen/api/repositories/mongodb"
	"vitigen/api/services"
	"vitigen/api/services/notification"
	"vitigen/api/services/sanitation"
	"vitigen/api/services/search"
	"vitigen/api/utils"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tUpload Path : %s \n"+
		"\tIngestion Batch Size : %d\n"+
		"\tFile Processing Concurrency Level : %d\n"+
		"\tSearch Timeout (seconds) : %d\n\n"+

		"\tMongo Url : %s \n"+
		"\tMongo Database : %s\n"+
		"\tMongo Max Pool Size : %d\n\n"+

		"\tAuthentication Enabled : %t\n"+
		"\tIdentity Service Url : %s\n\n"+

		"\tNotifier Url : %s\n"+
		"\tNotifier Sender : %s <%s>\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.UploadPath,
		cfg.Api.IngestionBatchSize,
		cfg.Api.FileProcessingConcurrencyLevel,
		cfg.Api.SearchTimeoutSeconds,
		cfg.Mongo.Url, cfg.Mongo.Database, cfg.Mongo.MaxPoolSize,
		cfg.AuthX.IsAuthenticationEnabled,
		cfg.AuthX.IdentityServiceUrl,
		cfg.Notifier.Url,
		cfg.Notifier.SenderName, cfg.Notifier.SenderEmail,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- MongoDB
	client, connErr := utils.CreateMongoConnection(&cfg)
	if connErr != nil {
		fmt.Println(connErr)
		os.Exit(2)
	}
	db := client.Database(cfg.Mongo.Database)

	// Service Singletons
	uploadRepo := mongodb.NewUploadRepo(db)
	az := services.NewAuthnService(&cfg)
	nz := notification.NewNotificationService(&cfg)
	iz := services.NewIngestionService(db, uploadRepo, nz, &cfg)
	sz := search.NewSearchService(db, uploadRepo, &cfg)
	sanitation.NewSanitationService(db, uploadRepo, services.VariantCollectionPrefix, &cfg)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom VitiGen" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.VitiGenContext{
				Context:          c,
				Database:         db,
				Config:           &cfg,
				AuthnService:     az,
				IngestionService: iz,
				SearchService:    sz,
				Uploads:          uploadRepo,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Health
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	// -- Service Info
	e.GET("/service-info", func(c echo.Context) error {
		// Spec: https://github.com/ga4gh-discovery/ga4gh-service-info
		return c.JSON(http.StatusOK, map[string]interface{}{
			"id":          serviceInfo.SERVICE_ID,
			"name":        serviceInfo.SERVICE_NAME,
			"type":        serviceInfo.SERVICE_TYPE,
			"description": serviceInfo.SERVICE_DESCRIPTION,
			"organization": map[string]string{
				"name": "VitiGen Labs",
				"url":  "https://vitigenlabs.example",
			},
			"contactUrl": serviceInfo.SERVICE_CONTACT,
			"version":    serviceInfo.SERVICE_VERSION,
		})
	})

	// -- Variants
	e.POST("/variants/upload", variantsMvc.VariantsUpload,
		// middleware
		gam.MandateRequesterEmailAttribute)
	e.GET("/variants/ingestion/requests", variantsMvc.GetAllVariantIngestionRequests,
		// middleware
		gam.MandateRequesterEmailAttribute)

	e.GET("/variants/search/:collection", variantsMvc.VariantsSearch,
		// middleware
		gam.MandateRequesterEmailAttribute,
		gam.MandateCollectionPathParameter,
		gam.ValidatePaginationAttributes,
		gam.ValidateOptionalSortAttributes)
	e.GET("/variants/all/:collection", variantsMvc.VariantsGetAll,
		// middleware
		gam.MandateRequesterEmailAttribute,
		gam.MandateCollectionPathParameter,
		gam.ValidatePaginationAttributes,
		gam.ValidateOptionalSortAttributes)

	// -- Uploads
	e.GET("/uploads", uploadsMvc.UploadsList,
		// middleware
		gam.MandateRequesterEmailAttribute)
	e.DELETE("/uploads/:collection", uploadsMvc.UploadDelete,
		// middleware
		gam.MandateRequesterEmailAttribute,
		gam.MandateCollectionPathParameter)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
