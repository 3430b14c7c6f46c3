package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

type catalogDirectoryStub struct {
	batch       models.Batch
	instructors []models.Instructor
	results     []models.Result
	routines    []models.Routine
	updates     map[string]map[string]interface{}
	created     []interface{}
	updateErrOn string
}

func newCatalogDirectoryStub() *catalogDirectoryStub {
	return &catalogDirectoryStub{updates: map[string]map[string]interface{}{}}
}

func (c *catalogDirectoryStub) List(ctx context.Context, kind models.EntityKind, dest interface{}) error {
	return nil
}

func (c *catalogDirectoryStub) Get(ctx context.Context, kind models.EntityKind, id string, dest interface{}) error {
	if kind == models.EntityBatches && id == c.batch.ID {
		*(dest.(*models.Batch)) = c.batch
		return nil
	}
	return appErrors.Clone(appErrors.ErrNotFound, "not found")
}

func (c *catalogDirectoryStub) Create(ctx context.Context, kind models.EntityKind, body, out interface{}) error {
	c.created = append(c.created, body)
	return nil
}

func (c *catalogDirectoryStub) Update(ctx context.Context, kind models.EntityKind, id string, body, out interface{}) error {
	if id == c.updateErrOn {
		return appErrors.ErrBackendUnavailable
	}
	if patch, ok := body.(map[string]interface{}); ok {
		c.updates[string(kind)+"/"+id] = patch
	}
	return nil
}

func (c *catalogDirectoryStub) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	return nil
}

func (c *catalogDirectoryStub) Instructors(ctx context.Context) ([]models.Instructor, error) {
	return c.instructors, nil
}

func (c *catalogDirectoryStub) Results(ctx context.Context) ([]models.Result, error) {
	return c.results, nil
}

func (c *catalogDirectoryStub) Routines(ctx context.Context) ([]models.Routine, error) {
	return c.routines, nil
}

func TestAssignInstructorAppendsOnce(t *testing.T) {
	dir := newCatalogDirectoryStub()
	dir.batch = models.Batch{ID: "b1", BatchName: "Batch1", Instructors: []string{"i1"}}
	dir.instructors = []models.Instructor{{ID: "i1"}, {ID: "i2"}}
	audit := &auditStub{}
	svc := NewCatalogService(dir, nil, audit, nil)

	batch, err := svc.AssignInstructor(adminCtx(), "b1", dto.AssignInstructorRequest{InstructorID: "i2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"i1", "i2"}, batch.Instructors)
	assert.Equal(t, []string{"i1", "i2"}, dir.updates["batches/b1"]["instructors"])
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionInstructorAssign, audit.logs[0].Action)

	batch, err = svc.AssignInstructor(adminCtx(), "b1", dto.AssignInstructorRequest{InstructorID: "i1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"i1"}, batch.Instructors)
	assert.Len(t, audit.logs, 1)
}

func TestAssignInstructorValidates(t *testing.T) {
	dir := newCatalogDirectoryStub()
	dir.batch = models.Batch{ID: "b1"}
	svc := NewCatalogService(dir, nil, nil, nil)

	_, err := svc.AssignInstructor(adminCtx(), "b1", dto.AssignInstructorRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.AssignInstructor(adminCtx(), "b1", dto.AssignInstructorRequest{InstructorID: "ghost"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.AssignInstructor(adminCtx(), "missing", dto.AssignInstructorRequest{InstructorID: "i1"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPublishResultsSkipsPublished(t *testing.T) {
	dir := newCatalogDirectoryStub()
	dir.results = []models.Result{
		{ID: "r1", BatchID: "b1", Status: models.ResultStatusDraft},
		{ID: "r2", BatchID: "b1", Status: models.ResultStatusPublished},
		{ID: "r3", BatchID: "b2", Status: models.ResultStatusDraft},
		{ID: "r4", BatchID: "b1"},
	}
	svc := NewCatalogService(dir, nil, &auditStub{}, nil)
	svc.now = func() time.Time { return baseTime }

	resp, err := svc.PublishResults(adminCtx(), dto.PublishResultsRequest{BatchID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r4"}, resp.Published)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, models.ResultStatusPublished, dir.updates["results/r1"]["status"])
	assert.NotContains(t, dir.updates, "results/r3")
}

func TestPublishResultsStopsOnBackendError(t *testing.T) {
	dir := newCatalogDirectoryStub()
	dir.results = []models.Result{{ID: "r1", BatchID: "b1"}}
	dir.updateErrOn = "r1"
	svc := NewCatalogService(dir, nil, nil, nil)

	_, err := svc.PublishResults(adminCtx(), dto.PublishResultsRequest{BatchID: "b1"})
	assert.ErrorIs(t, err, appErrors.ErrBackendUnavailable)
}

func TestCatalogCreateValidatesPayload(t *testing.T) {
	dir := newCatalogDirectoryStub()
	svc := NewCatalogService(dir, nil, nil, nil)

	err := svc.Create(adminCtx(), models.EntityCourses, &models.Course{}, nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, dir.created)

	require.NoError(t, svc.Create(adminCtx(), models.EntityCourses, &models.Course{CourseName: "Go"}, nil))
	assert.Len(t, dir.created, 1)

	assert.ErrorIs(t, svc.Update(adminCtx(), models.EntityCourses, "c1", map[string]interface{}{}, nil), appErrors.ErrValidation)
}
