package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/storage"
)

type catalogServiceMock struct {
	patch   map[string]interface{}
	created interface{}
	deleted string
}

func (m *catalogServiceMock) List(ctx context.Context, kind models.EntityKind, dest interface{}) error {
	if courses, ok := dest.(*[]models.Course); ok {
		*courses = []models.Course{{ID: "c1", CourseName: "Web"}}
	}
	return nil
}

func (m *catalogServiceMock) Get(ctx context.Context, kind models.EntityKind, id string, dest interface{}) error {
	return appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func (m *catalogServiceMock) Create(ctx context.Context, kind models.EntityKind, payload, out interface{}) error {
	m.created = payload
	return nil
}

func (m *catalogServiceMock) Update(ctx context.Context, kind models.EntityKind, id string, patch map[string]interface{}, out interface{}) error {
	m.patch = patch
	return nil
}

func (m *catalogServiceMock) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	m.deleted = id
	return nil
}

func TestResourceHandlerCRUD(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &catalogServiceMock{}
	handler := NewResourceHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/courses", nil)
	handler.List(models.EntityCourses)(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeEnvelope(t, w)["data"].([]interface{}), 1)

	c, w = newGinContext(http.MethodGet, "/courses/zz", nil)
	c.Params = gin.Params{{Key: "id", Value: "zz"}}
	handler.Get(models.EntityCourses)(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodPost, "/courses", []byte(`{"courseName":"Data"}`))
	handler.Create(models.EntityCourses)(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, &models.Course{CourseName: "Data"}, mockSvc.created)

	c, w = newGinContext(http.MethodPatch, "/courses/c1", []byte(`{"status":"Closed"}`))
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.Update(models.EntityCourses)(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Closed", mockSvc.patch["status"])

	c, w = newGinContext(http.MethodDelete, "/courses/c1", nil)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.Delete(models.EntityCourses)(c)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "c1", mockSvc.deleted)
}

func TestResourceHandlerUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewResourceHandler(&catalogServiceMock{})

	c, w := newGinContext(http.MethodGet, "/users", nil)
	handler.List(models.EntityUsers)(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

type routineServiceMock struct {
	conflicts []dto.RoutineConflict
}

func (m *routineServiceMock) Check(ctx context.Context, candidate models.Routine) ([]dto.RoutineConflict, error) {
	return m.conflicts, nil
}

func (m *routineServiceMock) Create(ctx context.Context, candidate models.Routine) (*models.Routine, error) {
	if len(m.conflicts) > 0 {
		return nil, appErrors.Clone(appErrors.ErrRoutineConflict, m.conflicts[0].Reason)
	}
	candidate.ID = "rt9"
	return &candidate, nil
}

func (m *routineServiceMock) Update(ctx context.Context, id string, candidate models.Routine) (*models.Routine, error) {
	candidate.ID = id
	return &candidate, nil
}

func TestCatalogHandlerRoutineConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clash := dto.RoutineConflict{Existing: models.Routine{ID: "rt1"}, Reason: "room is already booked at this time"}
	handler := NewCatalogHandler(nil, &routineServiceMock{conflicts: []dto.RoutineConflict{clash}})
	body := []byte(`{"batchId":"b1","day":"Monday","startTime":"09:00","endTime":"10:00","room":"Lab A"}`)

	c, w := newGinContext(http.MethodPost, "/routines/check", body)
	handler.CheckRoutine(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeEnvelope(t, w)["data"].([]interface{}), 1)

	c, w = newGinContext(http.MethodPost, "/routines", body)
	handler.CreateRoutine(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

type catalogActionsMock struct {
	batchID string
}

func (m *catalogActionsMock) AssignInstructor(ctx context.Context, batchID string, req dto.AssignInstructorRequest) (*models.Batch, error) {
	m.batchID = batchID
	return &models.Batch{ID: batchID, Instructors: []string{req.InstructorID}}, nil
}

func (m *catalogActionsMock) PublishResults(ctx context.Context, req dto.PublishResultsRequest) (*dto.PublishResultsResponse, error) {
	return &dto.PublishResultsResponse{BatchID: req.BatchID, Published: []string{"r1"}}, nil
}

func TestCatalogHandlerActions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actions := &catalogActionsMock{}
	handler := NewCatalogHandler(actions, nil)

	c, w := newGinContext(http.MethodPatch, "/batches/b1/instructors", []byte(`{"instructorId":"i1"}`))
	c.Params = gin.Params{{Key: "id", Value: "b1"}}
	handler.AssignInstructor(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b1", actions.batchID)

	c, w = newGinContext(http.MethodPost, "/results/publish", []byte(`{"batchId":"b1"}`))
	handler.PublishResults(c)
	require.Equal(t, http.StatusOK, w.Code)
}

type exportServiceMock struct {
	path string
}

func (m *exportServiceMock) Generate(ctx context.Context, req dto.CreateExportRequest) (*dto.ExportView, error) {
	return &dto.ExportView{ID: "exp-1", Dataset: req.Dataset, Format: req.Format, URL: "/api/v1/exports/download?token=t"}, nil
}

func (m *exportServiceMock) Resolve(token string) (*storage.DownloadGrant, *os.File, error) {
	if token != "good" {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	f, err := os.Open(m.path)
	if err != nil {
		return nil, nil, err
	}
	return &storage.DownloadGrant{ExportID: "exp-1", Path: filepath.Base(m.path), ExpiresAt: time.Now().Add(time.Hour)}, f, nil
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "batch-requests_all_20240301_090000.csv")
	require.NoError(t, os.WriteFile(path, []byte("Request\nA\n"), 0o644))
	handler := NewExportHandler(&exportServiceMock{path: path})

	c, w := newGinContext(http.MethodGet, "/exports/download?token=good", nil)
	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "batch-requests_all_20240301_090000.csv")
	assert.Equal(t, "Request\nA\n", w.Body.String())

	c, w = newGinContext(http.MethodGet, "/exports/download?token=bad", nil)
	handler.Download(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = newGinContext(http.MethodGet, "/exports/download", nil)
	handler.Download(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&exportServiceMock{})

	c, w := newGinContext(http.MethodPost, "/exports", []byte(`{"dataset":"results","format":"pdf","batchId":"b1"}`))
	handler.CreateExport(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "exp-1", decodeEnvelope(t, w)["data"].(map[string]interface{})["id"])
}
