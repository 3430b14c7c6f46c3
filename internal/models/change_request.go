package models

import "time"

// BatchChangeRequest asks to move a student into another batch of the same course.
type BatchChangeRequest struct {
	ID               string        `json:"id"`
	StudentID        string        `json:"studentId"`
	RequestedBatchID string        `json:"requestedBatchId"`
	Status           RequestStatus `json:"status"`
	Reason           string        `json:"reason,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
}

// CourseChangeRequest asks to move a student into another course; the admin
// picks the concrete batch on approval.
type CourseChangeRequest struct {
	ID                string        `json:"id"`
	StudentID         string        `json:"studentId"`
	RequestedCourseID string        `json:"requestedCourseId"`
	Status            RequestStatus `json:"status"`
	Reason            string        `json:"reason,omitempty"`
	Timestamp         time.Time     `json:"timestamp"`
}
