package dtos

import (
	"time"

	"vitigen/api/models/ingest"
	"vitigen/api/models/uploads"
)

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}
type GeneralError struct {
	Message string `json:"message"`
}

type SearchResponseDTO struct {
	TotalResults int64                    `json:"total_results"`
	Page         int                      `json:"page"`
	PerPage      int                      `json:"per_page"`
	TotalPages   int                      `json:"total_pages"`
	Results      []map[string]interface{} `json:"results"`
}

type UploadResponseDTO struct {
	Message  string                   `json:"message"`
	Filename string                   `json:"filename"`
	FileSize int64                    `json:"file_size"`
	Request  ingest.IngestResponseDTO `json:"request"`
}

type UploadsListResponseDTO struct {
	Count   int                    `json:"count"`
	Uploads []uploads.UploadRecord `json:"uploads"`
}
