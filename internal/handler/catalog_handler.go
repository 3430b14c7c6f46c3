package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/response"
)

type catalogActions interface {
	AssignInstructor(ctx context.Context, batchID string, req dto.AssignInstructorRequest) (*models.Batch, error)
	PublishResults(ctx context.Context, req dto.PublishResultsRequest) (*dto.PublishResultsResponse, error)
}

type routineService interface {
	Check(ctx context.Context, candidate models.Routine) ([]dto.RoutineConflict, error)
	Create(ctx context.Context, candidate models.Routine) (*models.Routine, error)
	Update(ctx context.Context, id string, candidate models.Routine) (*models.Routine, error)
}

// CatalogHandler serves admin actions spanning several catalog records.
type CatalogHandler struct {
	actions  catalogActions
	routines routineService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(actions catalogActions, routines routineService) *CatalogHandler {
	return &CatalogHandler{actions: actions, routines: routines}
}

// AssignInstructor godoc
// @Summary Assign an instructor to a batch
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.AssignInstructorRequest true "Instructor"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/instructors [patch]
func (h *CatalogHandler) AssignInstructor(c *gin.Context) {
	var req dto.AssignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "instructorId required"))
		return
	}
	batch, err := h.actions.AssignInstructor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}

// PublishResults godoc
// @Summary Publish the draft results of a batch
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.PublishResultsRequest true "Batch"
// @Success 200 {object} response.Envelope
// @Router /results/publish [post]
func (h *CatalogHandler) PublishResults(c *gin.Context) {
	var req dto.PublishResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "batchId required"))
		return
	}
	res, err := h.actions.PublishResults(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// CheckRoutine godoc
// @Summary Dry-run a routine slot against the weekly schedule
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body models.Routine true "Slot"
// @Success 200 {object} response.Envelope
// @Router /routines/check [post]
func (h *CatalogHandler) CheckRoutine(c *gin.Context) {
	var req models.Routine
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine payload"))
		return
	}
	conflicts, err := h.routines.Check(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// CreateRoutine godoc
// @Summary Book a routine slot
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body models.Routine true "Slot"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /routines [post]
func (h *CatalogHandler) CreateRoutine(c *gin.Context) {
	var req models.Routine
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine payload"))
		return
	}
	created, err := h.routines.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// UpdateRoutine godoc
// @Summary Move a routine slot
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Routine ID"
// @Param payload body models.Routine true "Slot"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /routines/{id} [patch]
func (h *CatalogHandler) UpdateRoutine(c *gin.Context) {
	var req models.Routine
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine payload"))
		return
	}
	updated, err := h.routines.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}
