package dto

import "time"

// Export datasets and formats.
const (
	ExportBatchRequests  = "batch-requests"
	ExportCourseRequests = "course-requests"
	ExportResults        = "results"

	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// CreateExportRequest selects what to export.
type CreateExportRequest struct {
	Dataset string `json:"dataset" validate:"required,oneof=batch-requests course-requests results"`
	Format  string `json:"format" validate:"required,oneof=csv pdf"`
	BatchID string `json:"batchId"`
}

// ExportView points at a rendered export.
type ExportView struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	Format    string    `json:"format"`
	Rows      int       `json:"rows"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
