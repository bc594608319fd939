package sanitation

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-co-op/gocron"
	"go.mongodb.org/mongo-driver/mongo"

	"vitigen/api/models"
	"vitigen/api/repositories/mongodb"
)

type (
	SanitationService struct {
		Initialized bool
		Database    *mongo.Database
		Uploads     *mongodb.UploadRepo
		Config      *models.Config

		// everything sharing this prefix is considered a variant
		// collection and is subject to orphan cleanup
		CollectionPrefix string
	}
)

func NewSanitationService(db *mongo.Database, uploadRepo *mongodb.UploadRepo,
	collectionPrefix string, cfg *models.Config) *SanitationService {

	ss := &SanitationService{
		Initialized:      false,
		Database:         db,
		Uploads:          uploadRepo,
		Config:           cfg,
		CollectionPrefix: collectionPrefix,
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if !ss.Initialized {
		// - spin up a go routine that will periodically
		//   run through a series of steps to ensure
		//   the system is "sanitary" ; here that means
		//   - dropping variant collections with no registry entry
		//     (an ingestion run that died between collection creation
		//     and registration leaves one behind)
		//   - purging stale temporary upload files
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			// drop variant collections with non-existing registry entries
			s.Every(1).Days().At("04:00:00").Do(func() { // 12am EST
				fmt.Printf("[%s] - Running orphaned collection cleanup..\n", time.Now())

				ss.CleanupOrphanedCollections(context.Background())
				ss.CleanupStaleUploadFiles()
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		ss.Initialized = true
		fmt.Println("Sanitation Service Initialized ..")
	}
}

// CleanupOrphanedCollections drops every variant collection that has no
// matching entry in the upload registry.
func (ss *SanitationService) CleanupOrphanedCollections(ctx context.Context) {
	// - get all variant collections present in the database
	collectionNames, listErr := mongodb.ListVariantCollectionNames(ctx, ss.Database, ss.CollectionPrefix)
	if listErr != nil {
		fmt.Printf("[%s] - Error listing variant collections : %v..\n", time.Now(), listErr)
		return
	}
	fmt.Printf("[%s] - Variant collections found : %v..\n", time.Now(), collectionNames)

	// - get all registered uploads
	records, listUploadsErr := ss.Uploads.ListAll(ctx)
	if listUploadsErr != nil {
		fmt.Printf("[%s] - Error listing registered uploads : %v..\n", time.Now(), listUploadsErr)
		return
	}

	registeredNames := make([]string, 0, len(records))
	for _, record := range records {
		registeredNames = append(registeredNames, record.CollectionName)
	}
	fmt.Printf("[%s] - Registered collections found : %v..\n", time.Now(), registeredNames)

	// obtain set-difference between present and registered collections
	setDiff := setDifference(collectionNames, registeredNames)
	fmt.Printf("[%s] - Orphaned collections : %v..\n", time.Now(), setDiff)

	// drop collections found in this set difference
	for _, orphanName := range setDiff {
		// fire and forget
		go func(_orphanName string) {
			if dropErr := mongodb.DropVariantsCollection(context.Background(), ss.Database, _orphanName); dropErr != nil {
				fmt.Printf("[%s] - Error dropping orphaned collection %s : %v..\n", time.Now(), _orphanName, dropErr)
			}
		}(orphanName)
	}
}

// CleanupStaleUploadFiles removes temporary upload files older than a
// day; a healthy ingestion run deletes its own file well before that.
func (ss *SanitationService) CleanupStaleUploadFiles() {
	entries, readErr := os.ReadDir(ss.Config.Api.UploadPath)
	if readErr != nil {
		fmt.Printf("[%s] - Error reading upload directory : %v..\n", time.Now(), readErr)
		return
	}

	cutoff := time.Now().Add(-24 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			stalePath := path.Join(ss.Config.Api.UploadPath, entry.Name())
			fmt.Printf("[%s] - Removing stale upload file %s..\n", time.Now(), stalePath)
			if removeErr := os.Remove(stalePath); removeErr != nil {
				fmt.Printf("[%s] - Error removing stale upload file : %v..\n", time.Now(), removeErr)
			}
		}
	}
}

func setDifference(a, b []string) (c []string) {
	m := make(map[string]bool)

	for _, item := range b {
		m[item] = true
	}

	for _, item := range a {
		if _, ok := m[item]; !ok {
			c = append(c, item)
		}
	}
	return
}
