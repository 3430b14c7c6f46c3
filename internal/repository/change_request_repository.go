package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/campus-portal/internal/models"
)

// ChangeRequestRepository drives the backend's change-request endpoints.
type ChangeRequestRepository struct {
	client BackendClient
}

// NewChangeRequestRepository constructs the repository.
func NewChangeRequestRepository(client BackendClient) *ChangeRequestRepository {
	return &ChangeRequestRepository{client: client}
}

// ListBatchRequests returns every batch change request regardless of status.
func (r *ChangeRequestRepository) ListBatchRequests(ctx context.Context) ([]models.BatchChangeRequest, error) {
	var requests []models.BatchChangeRequest
	if err := r.client.Get(ctx, models.EntityBatchChangeRequests.BackendPath(), nil, &requests); err != nil {
		return nil, fmt.Errorf("list batch change requests: %w", err)
	}
	return requests, nil
}

// CreateBatchRequest submits a new batch change request.
func (r *ChangeRequestRepository) CreateBatchRequest(ctx context.Context, req *models.BatchChangeRequest) (*models.BatchChangeRequest, error) {
	var created models.BatchChangeRequest
	if err := r.client.Post(ctx, models.EntityBatchChangeRequests.BackendPath(), req, &created); err != nil {
		return nil, fmt.Errorf("create batch change request: %w", err)
	}
	if created.ID == "" {
		created = *req
	}
	return &created, nil
}

// ApproveBatchRequest approves a single batch change request.
func (r *ChangeRequestRepository) ApproveBatchRequest(ctx context.Context, id string) error {
	if err := r.client.Patch(ctx, itemPath(models.EntityBatchChangeRequests, id)+"/approve", struct{}{}, nil); err != nil {
		return fmt.Errorf("approve batch change request %s: %w", id, err)
	}
	return nil
}

// RejectBatchRequest rejects a batch change request with an optional reason.
func (r *ChangeRequestRepository) RejectBatchRequest(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	if err := r.client.Patch(ctx, itemPath(models.EntityBatchChangeRequests, id)+"/reject", body, nil); err != nil {
		return fmt.Errorf("reject batch change request %s: %w", id, err)
	}
	return nil
}

// SwapBatchRequests asks the backend to approve both requests atomically.
func (r *ChangeRequestRepository) SwapBatchRequests(ctx context.Context, id1, id2 string) error {
	body := map[string]string{"requestId1": id1, "requestId2": id2}
	if err := r.client.Patch(ctx, models.EntityBatchChangeRequests.BackendPath()+"/swap", body, nil); err != nil {
		return fmt.Errorf("swap batch change requests %s/%s: %w", id1, id2, err)
	}
	return nil
}

// ListCourseRequests returns every course change request regardless of status.
func (r *ChangeRequestRepository) ListCourseRequests(ctx context.Context) ([]models.CourseChangeRequest, error) {
	var requests []models.CourseChangeRequest
	if err := r.client.Get(ctx, models.EntityCourseChangeRequests.BackendPath(), nil, &requests); err != nil {
		return nil, fmt.Errorf("list course change requests: %w", err)
	}
	return requests, nil
}

// CreateCourseRequest submits a new course change request.
func (r *ChangeRequestRepository) CreateCourseRequest(ctx context.Context, req *models.CourseChangeRequest) (*models.CourseChangeRequest, error) {
	var created models.CourseChangeRequest
	if err := r.client.Post(ctx, models.EntityCourseChangeRequests.BackendPath(), req, &created); err != nil {
		return nil, fmt.Errorf("create course change request: %w", err)
	}
	if created.ID == "" {
		created = *req
	}
	return &created, nil
}

// ApproveCourseRequest approves a course change into the chosen batch.
func (r *ChangeRequestRepository) ApproveCourseRequest(ctx context.Context, id, batchID string) error {
	body := map[string]string{"batchId": batchID}
	if err := r.client.Patch(ctx, itemPath(models.EntityCourseChangeRequests, id)+"/approve", body, nil); err != nil {
		return fmt.Errorf("approve course change request %s: %w", id, err)
	}
	return nil
}

// RejectCourseRequest rejects a course change request.
func (r *ChangeRequestRepository) RejectCourseRequest(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	if err := r.client.Patch(ctx, itemPath(models.EntityCourseChangeRequests, id)+"/reject", body, nil); err != nil {
		return fmt.Errorf("reject course change request %s: %w", id, err)
	}
	return nil
}
