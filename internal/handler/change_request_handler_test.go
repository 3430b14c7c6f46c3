package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/response"
)

type changeRequestServiceMock struct {
	list        []dto.EnrichedBatchRequest
	outcome     *dto.ActionOutcome
	err         error
	swapReq     dto.SwapRequest
	rejectedFor string
	reason      string
	approvedIn  string
}

func (m *changeRequestServiceMock) FetchAllBatchRequests(ctx context.Context) ([]dto.EnrichedBatchRequest, error) {
	return m.list, m.err
}

func (m *changeRequestServiceMock) SwapCandidates(ctx context.Context, id string) ([]dto.EnrichedBatchRequest, error) {
	return m.list, m.err
}

func (m *changeRequestServiceMock) Swap(ctx context.Context, req dto.SwapRequest) (*dto.ActionOutcome, error) {
	m.swapReq = req
	return m.outcome, m.err
}

func (m *changeRequestServiceMock) Approve(ctx context.Context, id string) (*dto.ActionOutcome, error) {
	return m.outcome, m.err
}

func (m *changeRequestServiceMock) Reject(ctx context.Context, id, reason string) (*dto.ActionOutcome, error) {
	m.rejectedFor, m.reason = id, reason
	return m.outcome, m.err
}

func (m *changeRequestServiceMock) SubmitBatchRequest(ctx context.Context, req dto.SubmitBatchRequest) (*models.BatchChangeRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.BatchChangeRequest{ID: "new", RequestedBatchID: req.RequestedBatchID, Status: models.StatusPending}, nil
}

func (m *changeRequestServiceMock) FetchAllCourseRequests(ctx context.Context) ([]dto.EnrichedCourseRequest, error) {
	return nil, m.err
}

func (m *changeRequestServiceMock) ApproveCourseRequest(ctx context.Context, id, batchID string) (*dto.ActionOutcome, error) {
	m.approvedIn = batchID
	return m.outcome, m.err
}

func (m *changeRequestServiceMock) RejectCourseRequest(ctx context.Context, id, reason string) (*dto.ActionOutcome, error) {
	return m.outcome, m.err
}

func (m *changeRequestServiceMock) SubmitCourseRequest(ctx context.Context, req dto.SubmitCourseRequest) (*models.CourseChangeRequest, error) {
	return &models.CourseChangeRequest{ID: "new"}, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestChangeRequestHandlerListBatchRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &changeRequestServiceMock{list: []dto.EnrichedBatchRequest{{ID: "A", SwapCandidateIDs: []string{"B"}}}}
	handler := NewChangeRequestHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/batch-change-requests", nil)
	handler.ListBatchRequests(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "A", data[0].(map[string]interface{})["id"])
}

func TestChangeRequestHandlerSwap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &changeRequestServiceMock{outcome: &dto.ActionOutcome{Outcome: dto.OutcomeSwapped, RequestIDs: []string{"A", "B"}}}
	handler := NewChangeRequestHandler(mockSvc)

	payload, _ := json.Marshal(dto.SwapRequest{RequestID1: "A", RequestID2: "B"})
	c, w := newGinContext(http.MethodPatch, "/batch-change-requests/swap", payload)
	handler.SwapBatchRequests(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SwapRequest{RequestID1: "A", RequestID2: "B"}, mockSvc.swapReq)
	assert.Equal(t, dto.OutcomeSwapped, decodeEnvelope(t, w)["data"].(map[string]interface{})["outcome"])
}

func TestChangeRequestHandlerAlreadyProcessedCarriesNotice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &changeRequestServiceMock{outcome: &dto.ActionOutcome{Outcome: dto.OutcomeAlreadyProcessed, Notice: "request was already processed"}}
	handler := NewChangeRequestHandler(mockSvc)

	c, w := newGinContext(http.MethodPatch, "/batch-change-requests/A/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}
	middleware.WithResponseMeta()(c)
	handler.ApproveBatchRequest(c)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "request was already processed", env["meta"].(map[string]interface{})["notice"])
}

func TestChangeRequestHandlerRejectAllowsEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &changeRequestServiceMock{outcome: &dto.ActionOutcome{Outcome: dto.OutcomeRejected}}
	handler := NewChangeRequestHandler(mockSvc)

	c, w := newGinContext(http.MethodPatch, "/batch-change-requests/A/reject", nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}
	handler.RejectBatchRequest(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", mockSvc.rejectedFor)
	assert.Empty(t, mockSvc.reason)

	c, w = newGinContext(http.MethodPatch, "/batch-change-requests/A/reject", []byte(`{"reason":"no seats"}`))
	c.Params = gin.Params{{Key: "id", Value: "A"}}
	handler.RejectBatchRequest(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no seats", mockSvc.reason)

	c, w = newGinContext(http.MethodPatch, "/batch-change-requests/A/reject", []byte(`{"reason":`))
	c.Params = gin.Params{{Key: "id", Value: "A"}}
	handler.RejectBatchRequest(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangeRequestHandlerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid transition", appErrors.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"full batch", appErrors.ErrPreconditionFailed, http.StatusPreconditionFailed, "PRECONDITION_FAILED"},
		{"backend down", appErrors.ErrBackendUnavailable, http.StatusBadGateway, "BACKEND_UNAVAILABLE"},
		{"session expired", appErrors.ErrSessionExpired, http.StatusUnauthorized, "SESSION_EXPIRED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewChangeRequestHandler(&changeRequestServiceMock{err: tc.err})
			c, w := newGinContext(http.MethodPatch, "/batch-change-requests/A/approve", nil)
			c.Params = gin.Params{{Key: "id", Value: "A"}}
			handler.ApproveBatchRequest(c)

			require.Equal(t, tc.status, w.Code)
			var env response.Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestChangeRequestHandlerApproveCourseRequiresBatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &changeRequestServiceMock{outcome: &dto.ActionOutcome{Outcome: dto.OutcomeApproved}}
	handler := NewChangeRequestHandler(mockSvc)

	c, w := newGinContext(http.MethodPatch, "/course-change-requests/CR1/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "CR1"}}
	handler.ApproveCourseRequest(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodPatch, "/course-change-requests/CR1/approve", []byte(`{"batchId":"b5"}`))
	c.Params = gin.Params{{Key: "id", Value: "CR1"}}
	handler.ApproveCourseRequest(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b5", mockSvc.approvedIn)
}

func TestChangeRequestHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewChangeRequestHandler(&changeRequestServiceMock{})

	c, w := newGinContext(http.MethodPost, "/batch-change-requests", []byte(`{"requestedBatchId":"b2"}`))
	handler.SubmitBatchRequest(c)
	require.Equal(t, http.StatusCreated, w.Code)

	handler = NewChangeRequestHandler(&changeRequestServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "a pending batch change request already exists")})
	c, w = newGinContext(http.MethodPost, "/batch-change-requests", []byte(`{"requestedBatchId":"b2"}`))
	handler.SubmitBatchRequest(c)
	require.Equal(t, http.StatusConflict, w.Code)
}
