package dto

import (
	"time"

	"github.com/noah-isme/campus-portal/internal/models"
)

// Action outcomes reported back to the portal.
const (
	OutcomeApproved         = "approved"
	OutcomeRejected         = "rejected"
	OutcomeSwapped          = "swapped"
	OutcomeSubmitted        = "submitted"
	OutcomeAlreadyProcessed = "already_processed"
)

// EnrichedBatchRequest is a batch change request joined with names and seat data.
type EnrichedBatchRequest struct {
	ID                 string               `json:"id"`
	StudentID          string               `json:"studentId"`
	StudentName        string               `json:"studentName"`
	CurrentBatchID     string               `json:"currentBatchId"`
	CurrentBatchName   string               `json:"currentBatchName"`
	RequestedBatchID   string               `json:"requestedBatchId"`
	RequestedBatchName string               `json:"requestedBatchName"`
	SeatsAvailable     bool                 `json:"seatsAvailable"`
	SeatsRemaining     int                  `json:"seatsRemaining"`
	Status             models.RequestStatus `json:"status"`
	Reason             string               `json:"reason,omitempty"`
	Timestamp          time.Time            `json:"timestamp"`
	SwapCandidateIDs   []string             `json:"swapCandidateIds"`
}

// AvailableBatch is a batch of the requested course that can take the student.
type AvailableBatch struct {
	ID             string `json:"id"`
	BatchName      string `json:"batchName"`
	Status         string `json:"status"`
	SeatsRemaining int    `json:"seatsRemaining"`
}

// EnrichedCourseRequest is a course change request with its assignable batches.
type EnrichedCourseRequest struct {
	ID                  string               `json:"id"`
	StudentID           string               `json:"studentId"`
	StudentName         string               `json:"studentName"`
	CurrentBatchID      string               `json:"currentBatchId,omitempty"`
	CurrentCourseID     string               `json:"currentCourseId,omitempty"`
	CurrentCourseName   string               `json:"currentCourseName,omitempty"`
	RequestedCourseID   string               `json:"requestedCourseId"`
	RequestedCourseName string               `json:"requestedCourseName"`
	AvailableBatches    []AvailableBatch     `json:"availableBatches"`
	HasAvailableBatches bool                 `json:"hasAvailableBatches"`
	Status              models.RequestStatus `json:"status"`
	Reason              string               `json:"reason,omitempty"`
	Timestamp           time.Time            `json:"timestamp"`
}

// SwapRequest pairs two batch change requests for a mutual exchange.
type SwapRequest struct {
	RequestID1 string `json:"requestId1" validate:"required"`
	RequestID2 string `json:"requestId2" validate:"required,nefield=RequestID1"`
}

// RejectRequest carries the optional rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ApproveCourseRequest names the batch the student is placed in.
type ApproveCourseRequest struct {
	BatchID string `json:"batchId" validate:"required"`
}

// SubmitBatchRequest is a student's request to change batch.
type SubmitBatchRequest struct {
	StudentID        string `json:"studentId"`
	RequestedBatchID string `json:"requestedBatchId" validate:"required"`
	Reason           string `json:"reason" validate:"max=500"`
}

// SubmitCourseRequest is a student's request to change course.
type SubmitCourseRequest struct {
	StudentID         string `json:"studentId"`
	RequestedCourseID string `json:"requestedCourseId" validate:"required"`
	Reason            string `json:"reason" validate:"max=500"`
}

// ActionOutcome reports the result of an admin action together with the
// refreshed list, so the portal never has to guess whether to refetch.
type ActionOutcome struct {
	Outcome        string                  `json:"outcome"`
	Notice         string                  `json:"notice,omitempty"`
	RequestIDs     []string                `json:"requestIds"`
	BatchRequests  []EnrichedBatchRequest  `json:"batchRequests,omitempty"`
	CourseRequests []EnrichedCourseRequest `json:"courseRequests,omitempty"`
}
