package dto

import "github.com/noah-isme/campus-portal/internal/models"

// AssignInstructorRequest adds an instructor to a batch.
type AssignInstructorRequest struct {
	InstructorID string `json:"instructorId" validate:"required"`
}

// PublishResultsRequest publishes every draft result of a batch.
type PublishResultsRequest struct {
	BatchID string `json:"batchId" validate:"required"`
}

// PublishResultsResponse summarises a publication run.
type PublishResultsResponse struct {
	BatchID   string   `json:"batchId"`
	Published []string `json:"published"`
	Skipped   int      `json:"skipped"`
}

// RoutineConflict explains why a routine slot cannot be booked.
type RoutineConflict struct {
	Existing models.Routine `json:"existing"`
	Reason   string         `json:"reason"`
}
