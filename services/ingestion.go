package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"vitigen/api/models"
	"vitigen/api/models/ingest"
	"vitigen/api/models/uploads"
	"vitigen/api/repositories/mongodb"
	"vitigen/api/services/notification"
	"vitigen/api/services/vcf"
)

// VariantCollectionPrefix namespaces every per-upload collection so the
// registry, sanitation and deletion can tell them apart from the rest of
// the database.
const VariantCollectionPrefix = "variants_"

type (
	IngestionService struct {
		Initialized                  bool
		IngestRequestChan            chan *ingest.UploadIngestRequest
		IngestRequestMap             map[string]*ingest.UploadIngestRequest
		IngestRequestMapMux          sync.RWMutex
		ConcurrentFileIngestionQueue chan bool
		Database                     *mongo.Database
		Uploads                      *mongodb.UploadRepo
		Notifier                     *notification.NotificationService
		Config                       *models.Config
	}

	// IngestionRunResult is what one completed run reports back to the
	// orchestration layer.
	IngestionRunResult struct {
		CollectionName string
		RecordCount    int
		SkippedLines   int
	}
)

func NewIngestionService(db *mongo.Database, uploadRepo *mongodb.UploadRepo,
	notifier *notification.NotificationService, cfg *models.Config) *IngestionService {

	iz := &IngestionService{
		Initialized:                  false,
		IngestRequestChan:            make(chan *ingest.UploadIngestRequest),
		IngestRequestMap:             map[string]*ingest.UploadIngestRequest{},
		IngestRequestMapMux:          sync.RWMutex{},
		ConcurrentFileIngestionQueue: make(chan bool, cfg.Api.FileProcessingConcurrencyLevel),
		Database:                     db,
		Uploads:                      uploadRepo,
		Notifier:                     notifier,
		Config:                       cfg,
	}

	iz.Init()

	return iz
}

func (i *IngestionService) Init() {
	// safeguard to prevent multiple initilizations
	if !i.Initialized {
		// spin up a go routine acting as a listener for
		// upload ingest request updates
		go func() {
			for ingestRequest := range i.IngestRequestChan {
				if ingestRequest.State == ingest.Queued {
					fmt.Printf("Queueing a new upload ingestion request for %s\n", ingestRequest.Filename)
				}

				ingestRequest.UpdatedAt = time.Now().String()
				i.IngestRequestMapMux.Lock()
				i.IngestRequestMap[ingestRequest.Id.String()] = ingestRequest
				i.IngestRequestMapMux.Unlock()
			}
		}()

		i.Initialized = true
	}
}

// PublishRequestState hands a snapshot of a run's state to the request
// listener. The listener owns each published copy exclusively, so workers
// keep mutating their local state without racing readers of the map.
func (i *IngestionService) PublishRequestState(ingestRequest ingest.UploadIngestRequest) {
	i.IngestRequestChan <- &ingestRequest
}

// SaveUploadedFile persists an uploaded stream to a scoped temporary
// location under the configured upload path, with a unique name so
// repeated filenames never clash on disk.
func (i *IngestionService) SaveUploadedFile(src io.Reader, originalFilename string) (string, int64, error) {
	if mkdirErr := os.MkdirAll(i.Config.Api.UploadPath, 0o755); mkdirErr != nil {
		return "", 0, fmt.Errorf("failed to create upload directory : %w", mkdirErr)
	}

	tempName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), path.Base(originalFilename))
	tempPath := path.Join(i.Config.Api.UploadPath, tempName)

	dst, createErr := os.Create(tempPath)
	if createErr != nil {
		return "", 0, fmt.Errorf("failed to create temporary upload file : %w", createErr)
	}
	defer dst.Close()

	written, copyErr := io.Copy(dst, src)
	if copyErr != nil {
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to persist uploaded file : %w", copyErr)
	}

	return tempPath, written, nil
}

// ProcessVcf drives one upload's ingestion run : consume parser batches
// strictly in order, bulk insert each batch into a freshly allocated
// collection, build search indexes asynchronously, register the upload,
// then remove the temporary file. A parser I/O failure or an
// unrecoverable write failure fails the run; the collection is not
// registered and the caller must re-submit.
func (i *IngestionService) ProcessVcf(filePath string, originalFilename string,
	ownerEmail string, fileSize int64) (*IngestionRunResult, error) {

	// collection names are never derived from the filename : repeated
	// uploads of the same file must land in distinct collections
	collectionName := fmt.Sprintf("%s%s", VariantCollectionPrefix,
		strings.ReplaceAll(uuid.New().String(), "-", ""))

	scanner, openErr := vcf.Open(filePath, i.Config.Api.IngestionBatchSize)
	if openErr != nil {
		return nil, openErr
	}
	defer scanner.Close()

	startTime := time.Now()
	fmt.Printf("[%s] - Ingesting %s into %s\n", startTime, originalFilename, collectionName)

	// batches are strictly sequential within a run : batch n+1 is not
	// read until batch n's writes have completed
	totalRecords := 0
	for scanner.Scan() {
		inserted, insertErr := mongodb.InsertVariants(
			context.Background(), i.Database, collectionName, scanner.Batch())
		if insertErr != nil {
			return nil, fmt.Errorf("ingestion run for %s failed : %w", originalFilename, insertErr)
		}
		totalRecords += inserted
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("ingestion run for %s failed : %w", originalFilename, scanErr)
	}

	// index build failure is non-fatal : search stays correct, just slower
	go func(name string) {
		indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if indexErr := mongodb.CreateSearchIndexes(indexCtx, i.Database, name); indexErr != nil {
			fmt.Printf("[%s] - Error creating search indexes on %s : %v\n", time.Now(), name, indexErr)
		}
	}(collectionName)

	uploadRecord := &uploads.UploadRecord{
		CollectionName: collectionName,
		OwnerEmail:     ownerEmail,
		Filename:       originalFilename,
		FileSize:       fileSize,
		TotalRecords:   totalRecords,
		CreatedAt:      time.Now(),
	}
	if registerErr := i.Uploads.Insert(context.Background(), uploadRecord); registerErr != nil {
		return nil, fmt.Errorf("ingestion run for %s failed : %w", originalFilename, registerErr)
	}

	if removeErr := os.Remove(filePath); removeErr != nil {
		fmt.Printf("[%s] - Error removing temporary file %s : %v\n", time.Now(), filePath, removeErr)
	}

	fmt.Printf("[%s] - Ingested %d record(s) from %s into %s (%d line(s) skipped) in %s\n",
		time.Now(), totalRecords, originalFilename, collectionName,
		scanner.SkippedLines(), time.Since(startTime))

	// completion notification is fire-and-forget
	if i.Notifier != nil {
		go i.Notifier.SendUploadComplete(ownerEmail, originalFilename, collectionName, totalRecords)
	}

	return &IngestionRunResult{
		CollectionName: collectionName,
		RecordCount:    totalRecords,
		SkippedLines:   scanner.SkippedLines(),
	}, nil
}

func (i *IngestionService) FilenameAlreadyRunning(filename string) bool {
	i.IngestRequestMapMux.Lock()
	defer i.IngestRequestMapMux.Unlock()

	for _, v := range i.IngestRequestMap {
		if v.Filename == filename && (v.State == ingest.Queued || v.State == ingest.Running) {
			return true
		}
	}
	return false
}
