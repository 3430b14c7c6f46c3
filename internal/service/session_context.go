package service

import (
	"context"

	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/pkg/backend"
)

type sessionCtxKey struct{}

// ContextWithSession binds session to ctx and forwards its identity token to
// every backend call made with the returned context.
func ContextWithSession(ctx context.Context, session *models.Session) context.Context {
	if session == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionCtxKey{}, session)
	return backend.WithToken(ctx, session.Token)
}

// SessionFromContext returns the session bound by ContextWithSession.
func SessionFromContext(ctx context.Context) *models.Session {
	if ctx == nil {
		return nil
	}
	session, _ := ctx.Value(sessionCtxKey{}).(*models.Session)
	return session
}

func actorID(ctx context.Context) *string {
	if session := SessionFromContext(ctx); session != nil && session.UserID != "" {
		id := session.UserID
		return &id
	}
	return nil
}

// cacheScope names whose view a cached list holds. Admins read whole
// collections and share one view per role. Everyone else only sees what the
// backend returns for their own token, so their views are keyed by user.
// An empty scope means the list must not be cached.
func cacheScope(ctx context.Context) string {
	session := SessionFromContext(ctx)
	switch {
	case session == nil || session.Role == "":
		return "anonymous"
	case session.Role == models.RoleAdmin:
		return string(session.Role)
	case session.UserID != "":
		return string(session.Role) + ":" + session.UserID
	default:
		return ""
	}
}
