package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/internal/service"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/response"
)

// ContextSessionKey is the gin context key storing the signed-in session.
const ContextSessionKey = "currentSession"

// SessionAuthenticator resolves sessions from cookies or bearer tokens.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*models.Session, error)
	AuthenticateBearer(ctx context.Context, idToken string) (*models.Session, error)
}

// Session protects routes by requiring a live portal session. The session
// cookie wins over an Authorization header.
func Session(auth SessionAuthenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := resolveSession(c, auth, cookieName)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		attachSession(c, session)
		c.Next()
	}
}

// OptionalSession attaches the session when present but does not block.
// Invalid or expired credentials leave the request anonymous.
func OptionalSession(auth SessionAuthenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, err := resolveSession(c, auth, cookieName); err == nil {
			attachSession(c, session)
		}
		c.Next()
	}
}

// CurrentSession returns the session attached by Session, if any.
func CurrentSession(c *gin.Context) *models.Session {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	session, _ := value.(*models.Session)
	return session
}

func resolveSession(c *gin.Context, auth SessionAuthenticator, cookieName string) (*models.Session, error) {
	if auth == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if cookieName != "" {
		if id, err := c.Cookie(cookieName); err == nil && id != "" {
			return auth.Authenticate(c.Request.Context(), id)
		}
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return auth.AuthenticateBearer(c.Request.Context(), strings.TrimSpace(parts[1]))
}

func attachSession(c *gin.Context, session *models.Session) {
	c.Set(ContextSessionKey, session)
	c.Request = c.Request.WithContext(service.ContextWithSession(c.Request.Context(), session))
}
