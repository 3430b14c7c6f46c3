package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/internal/service"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, idToken string, meta service.ClientMeta) (*models.Session, error)
	Logout(ctx context.Context, session *models.Session, meta service.ClientMeta) error
	View(session *models.Session) dto.SessionView
}

// CookieConfig shapes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler exchanges identity tokens for portal sessions.
type AuthHandler struct {
	service sessionService
	cookie  CookieConfig
	now     func() time.Time
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc sessionService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "portal_session"
	}
	return &AuthHandler{service: svc, cookie: cookie, now: time.Now}
}

// CreateSession godoc
// @Summary Sign in
// @Description Exchange an identity token for a portal session and role redirect
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Identity token"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/session [post]
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.IDToken, clientMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	maxAge := int(session.ExpiresAt.Sub(h.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.ID, maxAge, "/", "", h.cookie.Secure, true)
	response.Created(c, h.service.View(session))
}

// DeleteSession godoc
// @Summary Sign out
// @Tags Authentication
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/session [delete]
func (h *AuthHandler) DeleteSession(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Logout(c.Request.Context(), session, clientMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.NoContent(c)
}

// Me godoc
// @Summary Current session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, h.service.View(session), nil)
}
