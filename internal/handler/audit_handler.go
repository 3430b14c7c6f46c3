package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/response"
)

type auditReader interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditHandler lists the admin action trail.
type AuditHandler struct {
	repo auditReader
}

// NewAuditHandler constructs the handler. repo may be nil when no audit
// database is configured.
func NewAuditHandler(repo auditReader) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List godoc
// @Summary Audit trail
// @Tags Observability
// @Produce json
// @Param action query string false "Action"
// @Param resource query string false "Resource"
// @Param userId query string false "User ID"
// @Param limit query int false "Max rows"
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	if h.repo == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "audit trail disabled"))
		return
	}
	filter := models.AuditFilter{
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
		UserID:   c.Query("userId"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		filter.Limit = limit
	}
	logs, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
