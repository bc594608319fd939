package uploads

import "time"

// UploadRecord is one row of the upload registry : the persisted
// mapping between a per-upload variants collection and the identity
// that owns it. Written once at the end of a successful ingestion run.
type UploadRecord struct {
	CollectionName string    `json:"collection_name" bson:"collection_name"`
	OwnerEmail     string    `json:"owner_email" bson:"owner_email"`
	Filename       string    `json:"filename" bson:"filename"`
	FileSize       int64     `json:"file_size" bson:"file_size"`
	TotalRecords   int       `json:"total_records" bson:"total_records"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}
