package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/response"
)

type changeRequestService interface {
	FetchAllBatchRequests(ctx context.Context) ([]dto.EnrichedBatchRequest, error)
	SwapCandidates(ctx context.Context, id string) ([]dto.EnrichedBatchRequest, error)
	Swap(ctx context.Context, req dto.SwapRequest) (*dto.ActionOutcome, error)
	Approve(ctx context.Context, id string) (*dto.ActionOutcome, error)
	Reject(ctx context.Context, id, reason string) (*dto.ActionOutcome, error)
	SubmitBatchRequest(ctx context.Context, req dto.SubmitBatchRequest) (*models.BatchChangeRequest, error)
	FetchAllCourseRequests(ctx context.Context) ([]dto.EnrichedCourseRequest, error)
	ApproveCourseRequest(ctx context.Context, id, batchID string) (*dto.ActionOutcome, error)
	RejectCourseRequest(ctx context.Context, id, reason string) (*dto.ActionOutcome, error)
	SubmitCourseRequest(ctx context.Context, req dto.SubmitCourseRequest) (*models.CourseChangeRequest, error)
}

// ChangeRequestHandler exposes the batch and course change request workflow.
type ChangeRequestHandler struct {
	service changeRequestService
}

// NewChangeRequestHandler constructs the handler.
func NewChangeRequestHandler(svc changeRequestService) *ChangeRequestHandler {
	return &ChangeRequestHandler{service: svc}
}

// ListBatchRequests godoc
// @Summary Pending batch change requests
// @Description Enriched with names, seat availability and mutual swap candidates
// @Tags Change Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /batch-change-requests [get]
func (h *ChangeRequestHandler) ListBatchRequests(c *gin.Context) {
	list, err := h.service.FetchAllBatchRequests(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// SwapCandidates godoc
// @Summary Mutual swap partners of a request
// @Tags Change Requests
// @Produce json
// @Param id path string true "Batch change request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batch-change-requests/{id}/swap-candidates [get]
func (h *ChangeRequestHandler) SwapCandidates(c *gin.Context) {
	list, err := h.service.SwapCandidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// SubmitBatchRequest godoc
// @Summary File a batch change request
// @Tags Change Requests
// @Accept json
// @Produce json
// @Param payload body dto.SubmitBatchRequest true "Batch change"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /batch-change-requests [post]
func (h *ChangeRequestHandler) SubmitBatchRequest(c *gin.Context) {
	var req dto.SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid batch change payload"))
		return
	}
	created, err := h.service.SubmitBatchRequest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// SwapBatchRequests godoc
// @Summary Swap two mutually matching requests
// @Description Both students trade batches in one backend call. A request already processed elsewhere yields outcome already_processed.
// @Tags Change Requests
// @Accept json
// @Produce json
// @Param payload body dto.SwapRequest true "Request pair"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /batch-change-requests/swap [patch]
func (h *ChangeRequestHandler) SwapBatchRequests(c *gin.Context) {
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid swap payload"))
		return
	}
	h.writeOutcome(c)(h.service.Swap(c.Request.Context(), req))
}

// ApproveBatchRequest godoc
// @Summary Approve a batch change request
// @Tags Change Requests
// @Produce json
// @Param id path string true "Batch change request ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /batch-change-requests/{id}/approve [patch]
func (h *ChangeRequestHandler) ApproveBatchRequest(c *gin.Context) {
	h.writeOutcome(c)(h.service.Approve(c.Request.Context(), c.Param("id")))
}

// RejectBatchRequest godoc
// @Summary Reject a batch change request
// @Tags Change Requests
// @Accept json
// @Produce json
// @Param id path string true "Batch change request ID"
// @Param payload body dto.RejectRequest false "Reason"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /batch-change-requests/{id}/reject [patch]
func (h *ChangeRequestHandler) RejectBatchRequest(c *gin.Context) {
	req, ok := bindReject(c)
	if !ok {
		return
	}
	h.writeOutcome(c)(h.service.Reject(c.Request.Context(), c.Param("id"), req.Reason))
}

// ListCourseRequests godoc
// @Summary Pending course change requests
// @Description Enriched with the open batches of the requested course
// @Tags Change Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /course-change-requests [get]
func (h *ChangeRequestHandler) ListCourseRequests(c *gin.Context) {
	list, err := h.service.FetchAllCourseRequests(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, list)
}

// SubmitCourseRequest godoc
// @Summary File a course change request
// @Tags Change Requests
// @Accept json
// @Produce json
// @Param payload body dto.SubmitCourseRequest true "Course change"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /course-change-requests [post]
func (h *ChangeRequestHandler) SubmitCourseRequest(c *gin.Context) {
	var req dto.SubmitCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course change payload"))
		return
	}
	created, err := h.service.SubmitCourseRequest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// ApproveCourseRequest godoc
// @Summary Approve a course change into a chosen batch
// @Tags Change Requests
// @Accept json
// @Produce json
// @Param id path string true "Course change request ID"
// @Param payload body dto.ApproveCourseRequest true "Target batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /course-change-requests/{id}/approve [patch]
func (h *ChangeRequestHandler) ApproveCourseRequest(c *gin.Context) {
	var req dto.ApproveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "batchId required"))
		return
	}
	h.writeOutcome(c)(h.service.ApproveCourseRequest(c.Request.Context(), c.Param("id"), req.BatchID))
}

// RejectCourseRequest godoc
// @Summary Reject a course change request
// @Tags Change Requests
// @Accept json
// @Produce json
// @Param id path string true "Course change request ID"
// @Param payload body dto.RejectRequest false "Reason"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /course-change-requests/{id}/reject [patch]
func (h *ChangeRequestHandler) RejectCourseRequest(c *gin.Context) {
	req, ok := bindReject(c)
	if !ok {
		return
	}
	h.writeOutcome(c)(h.service.RejectCourseRequest(c.Request.Context(), c.Param("id"), req.Reason))
}

func (h *ChangeRequestHandler) writeOutcome(c *gin.Context) func(*dto.ActionOutcome, error) {
	return func(outcome *dto.ActionOutcome, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		middleware.SetNotice(c, outcome.Notice)
		respond(c, http.StatusOK, outcome)
	}
}

// bindReject accepts an empty body; the reason is optional.
func bindReject(c *gin.Context) (dto.RejectRequest, bool) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reject payload"))
		return req, false
	}
	return req, true
}
