package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

type catalogDirectory interface {
	List(ctx context.Context, kind models.EntityKind, dest interface{}) error
	Get(ctx context.Context, kind models.EntityKind, id string, dest interface{}) error
	Create(ctx context.Context, kind models.EntityKind, body, out interface{}) error
	Update(ctx context.Context, kind models.EntityKind, id string, body, out interface{}) error
	Delete(ctx context.Context, kind models.EntityKind, id string) error
	Instructors(ctx context.Context) ([]models.Instructor, error)
	Results(ctx context.Context) ([]models.Result, error)
}

// CatalogService covers the thin CRUD surface plus the two admin actions
// that touch several records: instructor assignment and result publication.
type CatalogService struct {
	directory catalogDirectory
	validator *validator.Validate
	audit     AuditLogger
	logger    *zap.Logger
	now       func() time.Time
}

// NewCatalogService constructs the service.
func NewCatalogService(directory catalogDirectory, validate *validator.Validate, audit AuditLogger, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{directory: directory, validator: validate, audit: audit, logger: logger, now: time.Now}
}

// List decodes a collection.
func (s *CatalogService) List(ctx context.Context, kind models.EntityKind, dest interface{}) error {
	return s.directory.List(ctx, kind, dest)
}

// Get decodes a single record.
func (s *CatalogService) Get(ctx context.Context, kind models.EntityKind, id string, dest interface{}) error {
	return s.directory.Get(ctx, kind, id, dest)
}

// Create validates payload against its struct tags and stores it.
func (s *CatalogService) Create(ctx context.Context, kind models.EntityKind, payload, out interface{}) error {
	if err := s.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+string(kind)+" payload")
	}
	if err := s.directory.Create(ctx, kind, payload, out); err != nil {
		return err
	}
	s.emitAudit(ctx, kind, "", "created")
	return nil
}

// Update applies a partial patch.
func (s *CatalogService) Update(ctx context.Context, kind models.EntityKind, id string, patch map[string]interface{}, out interface{}) error {
	if len(patch) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "empty update")
	}
	delete(patch, "id")
	if err := s.directory.Update(ctx, kind, id, patch, out); err != nil {
		return err
	}
	s.emitAudit(ctx, kind, id, "updated")
	return nil
}

// Delete removes a record.
func (s *CatalogService) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	if err := s.directory.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.emitAudit(ctx, kind, id, "deleted")
	return nil
}

// AssignInstructor adds an instructor to a batch. Assigning twice is a no-op.
func (s *CatalogService) AssignInstructor(ctx context.Context, batchID string, req dto.AssignInstructorRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	var batch models.Batch
	if err := s.directory.Get(ctx, models.EntityBatches, batchID, &batch); err != nil {
		return nil, err
	}
	instructors, err := s.directory.Instructors(ctx)
	if err != nil {
		return nil, err
	}
	known := false
	for _, in := range instructors {
		if in.ID == req.InstructorID {
			known = true
			break
		}
	}
	if !known {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}
	for _, id := range batch.Instructors {
		if id == req.InstructorID {
			return &batch, nil
		}
	}

	assigned := append(append([]string{}, batch.Instructors...), req.InstructorID)
	var updated models.Batch
	if err := s.directory.Update(ctx, models.EntityBatches, batchID, map[string]interface{}{"instructors": assigned}, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" {
		updated = batch
		updated.Instructors = assigned
	}
	s.emitAuditAction(ctx, models.AuditActionInstructorAssign, models.EntityBatches, batchID, req.InstructorID)
	return &updated, nil
}

// PublishResults marks every unpublished result of a batch as Published.
func (s *CatalogService) PublishResults(ctx context.Context, req dto.PublishResultsRequest) (*dto.PublishResultsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid publish payload")
	}
	results, err := s.directory.Results(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.PublishResultsResponse{BatchID: req.BatchID, Published: []string{}}
	publishedAt := s.now().UTC()
	for _, r := range results {
		if r.BatchID != req.BatchID {
			continue
		}
		if strings.EqualFold(r.Status, models.ResultStatusPublished) {
			resp.Skipped++
			continue
		}
		patch := map[string]interface{}{"status": models.ResultStatusPublished, "publishedAt": publishedAt}
		if err := s.directory.Update(ctx, models.EntityResults, r.ID, patch, nil); err != nil {
			s.logger.Warn("result publication stopped", zap.String("batch_id", req.BatchID), zap.Int("published", len(resp.Published)), zap.Error(err))
			return nil, err
		}
		resp.Published = append(resp.Published, r.ID)
	}
	if len(resp.Published) > 0 {
		s.emitAuditAction(ctx, models.AuditActionResultPublish, models.EntityResults, req.BatchID, strings.Join(resp.Published, ","))
	}
	return resp, nil
}

func (s *CatalogService) emitAudit(ctx context.Context, kind models.EntityKind, id, outcome string) {
	if s.audit == nil {
		return
	}
	var resourceID *string
	if id != "" {
		resourceID = &id
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actorID(ctx),
		Action:     models.AuditActionEntityWrite,
		Resource:   string(kind),
		ResourceID: resourceID,
		Outcome:    outcome,
		CreatedAt:  s.now().UTC(),
	}); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func (s *CatalogService) emitAuditAction(ctx context.Context, action string, kind models.EntityKind, id, detail string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actorID(ctx),
		Action:     action,
		Resource:   string(kind),
		ResourceID: &id,
		Outcome:    detail,
		CreatedAt:  s.now().UTC(),
	}); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
