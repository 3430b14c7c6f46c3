package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/pkg/backend"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

type sessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, token string) error
}

type roleResolver interface {
	Resolve(ctx context.Context, email string) (*models.User, models.UserRole, error)
}

// SessionConfig governs identity token validation and session lifetime.
type SessionConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// ClientMeta describes the caller for audit purposes.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// SessionService exchanges identity tokens for portal sessions.
type SessionService struct {
	store   sessionStore
	roles   roleResolver
	audit   AuditLogger
	metrics *MetricsService
	logger  *zap.Logger
	config  SessionConfig
	now     func() time.Time
}

// NewSessionService constructs the session service.
func NewSessionService(store sessionStore, roles roleResolver, audit AuditLogger, metrics *MetricsService, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TTL <= 0 {
		config.TTL = 12 * time.Hour
	}
	return &SessionService{store: store, roles: roles, audit: audit, metrics: metrics, logger: logger, config: config, now: time.Now}
}

// ValidateIdentityToken parses an identity token returning the claims.
func (s *SessionService) ValidateIdentityToken(tokenString string) (*models.IdentityClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now)}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	if s.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.config.Audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid identity token")
	}

	claims, ok := token.Claims.(*models.IdentityClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid identity token claims")
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "identity token carries no email")
	}
	return claims, nil
}

// Login validates the identity token, resolves the role and stores a session.
func (s *SessionService) Login(ctx context.Context, idToken string, meta ClientMeta) (*models.Session, error) {
	session, err := s.buildSession(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "session store is not configured")
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.metrics.RecordSessionEvent("login")
	s.logger.Info("session created", zap.String("session_id", session.ID), zap.String("user_id", session.UserID), zap.String("role", string(session.Role)))
	s.emitAudit(ctx, session, models.AuditActionLogin, meta)
	return session, nil
}

// Authenticate loads a stored session.
func (s *SessionService) Authenticate(ctx context.Context, sessionID string) (*models.Session, error) {
	if strings.TrimSpace(sessionID) == "" || s.store == nil {
		return nil, appErrors.ErrUnauthorized
	}
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.After(s.now()) {
		_ = s.store.Delete(ctx, sessionID)
		return nil, appErrors.ErrSessionExpired
	}
	return session, nil
}

// AuthenticateBearer builds a request-scoped session straight from an
// identity token without storing it.
func (s *SessionService) AuthenticateBearer(ctx context.Context, idToken string) (*models.Session, error) {
	return s.buildSession(ctx, idToken)
}

// Logout removes the session.
func (s *SessionService) Logout(ctx context.Context, session *models.Session, meta ClientMeta) error {
	if session == nil || s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, session.ID); err != nil {
		return err
	}
	s.metrics.RecordSessionEvent("logout")
	s.emitAudit(ctx, session, models.AuditActionLogout, meta)
	return nil
}

// RevokeToken drops the session carrying token. It backs the backend
// client's auth failure hook.
func (s *SessionService) RevokeToken(ctx context.Context, token string) {
	if token == "" || s.store == nil {
		return
	}
	if err := s.store.DeleteByToken(ctx, token); err != nil {
		s.logger.Warn("failed to revoke session", zap.Error(err))
		return
	}
	s.metrics.RecordSessionEvent("revoked")
	s.logger.Info("session revoked after backend rejected token")
}

// AuthFailureHook adapts RevokeToken to the backend client hook.
func (s *SessionService) AuthFailureHook() backend.AuthFailureHook {
	return func(ctx context.Context, status int) {
		s.RevokeToken(context.WithoutCancel(ctx), backend.TokenFromContext(ctx))
	}
}

// View is the client-facing projection of a session.
func (s *SessionService) View(session *models.Session) dto.SessionView {
	return dto.SessionView{
		UserID:    session.UserID,
		Name:      session.Name,
		Email:     session.Email,
		Role:      session.Role,
		Redirect:  session.Role.LandingPath(),
		ExpiresAt: session.ExpiresAt,
	}
}

func (s *SessionService) buildSession(ctx context.Context, idToken string) (*models.Session, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "idToken is required")
	}
	claims, err := s.ValidateIdentityToken(idToken)
	if err != nil {
		return nil, err
	}
	user, role, err := s.roles.Resolve(backend.WithToken(ctx, idToken), claims.Email)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account has no portal role")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.config.TTL)
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(expiresAt) {
		expiresAt = claims.ExpiresAt.Time.UTC()
	}
	name := user.Name
	if name == "" {
		name = claims.Name
	}
	return &models.Session{
		ID:        uuid.NewString(),
		Token:     idToken,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *SessionService) emitAudit(ctx context.Context, session *models.Session, action string, meta ClientMeta) {
	if s.audit == nil {
		return
	}
	userID := session.UserID
	sessionID := session.ID
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "session",
		ResourceID: &sessionID,
		Outcome:    "ok",
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		CreatedAt:  s.now().UTC(),
	}); err != nil {
		s.logger.Warn("failed to record session audit log", zap.Error(err))
	}
}
