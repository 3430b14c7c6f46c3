package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/response"
)

type catalogService interface {
	List(ctx context.Context, kind models.EntityKind, dest interface{}) error
	Get(ctx context.Context, kind models.EntityKind, id string, dest interface{}) error
	Create(ctx context.Context, kind models.EntityKind, payload, out interface{}) error
	Update(ctx context.Context, kind models.EntityKind, id string, patch map[string]interface{}, out interface{}) error
	Delete(ctx context.Context, kind models.EntityKind, id string) error
}

// entityFactories builds typed values so payloads are validated against the
// model's struct tags.
var entityFactories = map[models.EntityKind]struct {
	item func() interface{}
	list func() interface{}
}{
	models.EntityCourses:     {func() interface{} { return &models.Course{} }, func() interface{} { return &[]models.Course{} }},
	models.EntityBatches:     {func() interface{} { return &models.Batch{} }, func() interface{} { return &[]models.Batch{} }},
	models.EntityStudents:    {func() interface{} { return &models.Student{} }, func() interface{} { return &[]models.Student{} }},
	models.EntityInstructors: {func() interface{} { return &models.Instructor{} }, func() interface{} { return &[]models.Instructor{} }},
	models.EntityResults:     {func() interface{} { return &models.Result{} }, func() interface{} { return &[]models.Result{} }},
	models.EntityNotices:     {func() interface{} { return &models.Notice{} }, func() interface{} { return &[]models.Notice{} }},
	models.EntityRoutines:    {func() interface{} { return &models.Routine{} }, func() interface{} { return &[]models.Routine{} }},
}

// ResourceHandler is the CRUD passthrough for catalog entities.
type ResourceHandler struct {
	service catalogService
}

// NewResourceHandler constructs the handler.
func NewResourceHandler(svc catalogService) *ResourceHandler {
	return &ResourceHandler{service: svc}
}

// List godoc
// @Summary List a catalog collection
// @Tags Catalog
// @Produce json
// @Param kind path string true "courses, batches, students, instructors, results, notices or routines"
// @Success 200 {object} response.Envelope
// @Router /{kind} [get]
func (h *ResourceHandler) List(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		factory, ok := entityFactories[kind]
		if !ok {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		out := factory.list()
		if err := h.service.List(c.Request.Context(), kind, out); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, out, nil)
	}
}

// Get godoc
// @Summary Fetch one catalog record
// @Tags Catalog
// @Produce json
// @Param kind path string true "Collection"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /{kind}/{id} [get]
func (h *ResourceHandler) Get(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		factory, ok := entityFactories[kind]
		if !ok {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		out := factory.item()
		if err := h.service.Get(c.Request.Context(), kind, c.Param("id"), out); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, out, nil)
	}
}

// Create godoc
// @Summary Create a catalog record
// @Tags Catalog
// @Accept json
// @Produce json
// @Param kind path string true "Collection"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /{kind} [post]
func (h *ResourceHandler) Create(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		factory, ok := entityFactories[kind]
		if !ok {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		payload := factory.item()
		if err := c.ShouldBindJSON(payload); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
		out := factory.item()
		if err := h.service.Create(c.Request.Context(), kind, payload, out); err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, out)
	}
}

// Update godoc
// @Summary Patch a catalog record
// @Tags Catalog
// @Accept json
// @Produce json
// @Param kind path string true "Collection"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /{kind}/{id} [patch]
func (h *ResourceHandler) Update(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		factory, ok := entityFactories[kind]
		if !ok {
			response.Error(c, appErrors.ErrNotFound)
			return
		}
		var patch map[string]interface{}
		if err := c.ShouldBindJSON(&patch); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
		out := factory.item()
		if err := h.service.Update(c.Request.Context(), kind, c.Param("id"), patch, out); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, out, nil)
	}
}

// Delete godoc
// @Summary Delete a catalog record
// @Tags Catalog
// @Param kind path string true "Collection"
// @Param id path string true "Record ID"
// @Success 204 {object} response.Envelope
// @Router /{kind}/{id} [delete]
func (h *ResourceHandler) Delete(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.NoContent(c)
	}
}
