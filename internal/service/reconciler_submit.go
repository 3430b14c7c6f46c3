package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

// SubmitBatchRequest files a batch change for a student. Students may only
// file for themselves and may hold one Pending batch request at a time.
func (s *ReconcilerService) SubmitBatchRequest(ctx context.Context, req dto.SubmitBatchRequest) (*models.BatchChangeRequest, error) {
	requestedBatchID := strings.TrimSpace(req.RequestedBatchID)
	if requestedBatchID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requestedBatchId is required")
	}
	snap, err := s.loadBatchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	student, err := resolveStudent(ctx, snap.students, req.StudentID)
	if err != nil {
		return nil, err
	}
	target, ok := snap.batches[requestedBatchID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "requested batch not found")
	}
	if student.EnrolledBatch == requestedBatchID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is already enrolled in the requested batch")
	}
	if current, ok := snap.batches[student.EnrolledBatch]; ok && current.CourseID != target.CourseID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requested batch belongs to another course; file a course change instead")
	}
	for _, r := range snap.requests {
		if r.StudentID == student.ID && r.Status.IsPending() {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a pending batch change request already exists")
		}
	}

	created, err := s.requests.CreateBatchRequest(ctx, &models.BatchChangeRequest{
		StudentID:        student.ID,
		RequestedBatchID: requestedBatchID,
		Status:           models.StatusPending,
		Reason:           strings.TrimSpace(req.Reason),
		Timestamp:        s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.directory.Invalidate(ctx, models.EntityBatchChangeRequests); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
	s.recordSubmit(ctx, models.EntityBatchChangeRequests, created.ID)
	return created, nil
}

// SubmitCourseRequest files a course change for a student. Students may hold
// one Pending course request at a time.
func (s *ReconcilerService) SubmitCourseRequest(ctx context.Context, req dto.SubmitCourseRequest) (*models.CourseChangeRequest, error) {
	requestedCourseID := strings.TrimSpace(req.RequestedCourseID)
	if requestedCourseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requestedCourseId is required")
	}
	snap, err := s.loadCourseSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	student, err := resolveStudent(ctx, snap.students, req.StudentID)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.courses[requestedCourseID]; !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "requested course not found")
	}
	if current, ok := snap.batches[student.EnrolledBatch]; ok && current.CourseID == requestedCourseID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is already enrolled in the requested course")
	}
	for _, r := range snap.requests {
		if r.StudentID == student.ID && r.Status.IsPending() {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a pending course change request already exists")
		}
	}

	created, err := s.requests.CreateCourseRequest(ctx, &models.CourseChangeRequest{
		StudentID:         student.ID,
		RequestedCourseID: requestedCourseID,
		Status:            models.StatusPending,
		Reason:            strings.TrimSpace(req.Reason),
		Timestamp:         s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.directory.Invalidate(ctx, models.EntityCourseChangeRequests); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
	s.recordSubmit(ctx, models.EntityCourseChangeRequests, created.ID)
	return created, nil
}

func (s *ReconcilerService) recordSubmit(ctx context.Context, kind models.EntityKind, id string) {
	resourceID := id
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     actorID(ctx),
		Action:     models.AuditActionRequestSubmit,
		Resource:   string(kind),
		ResourceID: &resourceID,
		Outcome:    dto.OutcomeSubmitted,
	})
}

// resolveStudent picks the student record a submission is for. Students are
// pinned to their own record; admins name the student explicitly.
func resolveStudent(ctx context.Context, students map[string]models.Student, requested string) (models.Student, error) {
	session := SessionFromContext(ctx)
	if session != nil && session.Role == models.RoleStudent {
		for _, st := range students {
			if st.UserID == session.UserID {
				if requested != "" && requested != st.ID {
					return models.Student{}, appErrors.Clone(appErrors.ErrForbidden, "students can only file requests for themselves")
				}
				return st, nil
			}
		}
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, "no student record for the signed-in user")
	}
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return models.Student{}, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	st, ok := students[requested]
	if !ok {
		return models.Student{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return st, nil
}
