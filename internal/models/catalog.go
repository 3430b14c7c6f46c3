package models

import "time"

// BatchStatus values as stored by the backend.
const (
	BatchStatusUpcoming  = "Upcoming"
	BatchStatusOngoing   = "Ongoing"
	BatchStatusCompleted = "Completed"
	BatchStatusClosed    = "Closed"
)

// Course is a catalog entry.
type Course struct {
	ID          string  `json:"id"`
	CourseName  string  `json:"courseName" validate:"required"`
	CourseCode  string  `json:"courseCode,omitempty"`
	Description string  `json:"description,omitempty"`
	Credit      int     `json:"credit,omitempty"`
	Fee         float64 `json:"fee,omitempty"`
	Image       string  `json:"image,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// Batch is a cohort running one course.
type Batch struct {
	ID           string     `json:"id"`
	BatchName    string     `json:"batchName" validate:"required"`
	CourseID     string     `json:"course_id" validate:"required"`
	Seat         int        `json:"seat" validate:"gte=0"`
	OccupiedSeat int        `json:"occupiedSeat" validate:"gte=0"`
	Status       string     `json:"status,omitempty"`
	Instructors  []string   `json:"instructors,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// SeatsRemaining never goes below zero even when the backend over-books.
func (b Batch) SeatsRemaining() int {
	if b.OccupiedSeat >= b.Seat {
		return 0
	}
	return b.Seat - b.OccupiedSeat
}

// HasSeats is true iff seat - occupiedSeat > 0.
func (b Batch) HasSeats() bool {
	return b.Seat > b.OccupiedSeat
}

// AcceptsTransfers is true for batches that are Upcoming or Ongoing with a free seat.
func (b Batch) AcceptsTransfers() bool {
	return (b.Status == BatchStatusUpcoming || b.Status == BatchStatusOngoing) && b.HasSeats()
}

// Student links a user account to an enrolled batch and preferences.
type Student struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	EnrolledBatch string `json:"enrolled_batch,omitempty"`
	PrefCourse    string `json:"prefCourse,omitempty"`
	PrefBatch     string `json:"prefBatch,omitempty"`
}

// User is the backend account record.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// Instructor is a teaching staff profile.
type Instructor struct {
	ID             string   `json:"id"`
	UserID         string   `json:"userId,omitempty"`
	Name           string   `json:"name" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone,omitempty"`
	Specialization string   `json:"specialization,omitempty"`
	Courses        []string `json:"courses,omitempty"`
}

// Result publication states.
const (
	ResultStatusDraft     = "Draft"
	ResultStatusPublished = "Published"
)

// Result is one student's outcome for a course batch.
type Result struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId" validate:"required"`
	CourseID    string     `json:"courseId" validate:"required"`
	BatchID     string     `json:"batchId" validate:"required"`
	Marks       float64    `json:"marks" validate:"gte=0"`
	Grade       string     `json:"grade,omitempty"`
	Status      string     `json:"status,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Notice is an announcement shown on dashboards.
type Notice struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Audience    string    `json:"audience,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Routine is one weekly class slot.
type Routine struct {
	ID           string `json:"id"`
	BatchID      string `json:"batchId" validate:"required"`
	CourseID     string `json:"courseId,omitempty"`
	InstructorID string `json:"instructorId,omitempty"`
	Day          string `json:"day" validate:"required"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	Room         string `json:"room,omitempty"`
}
