package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/internal/service"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

type authStub struct {
	sessions map[string]*models.Session
	bearer   map[string]*models.Session
}

func (a authStub) Authenticate(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := a.sessions[id]; ok {
		return s, nil
	}
	return nil, appErrors.ErrSessionExpired
}

func (a authStub) AuthenticateBearer(ctx context.Context, token string) (*models.Session, error) {
	if s, ok := a.bearer[token]; ok {
		return s, nil
	}
	return nil, appErrors.ErrUnauthorized
}

type auditRecorder struct {
	logs []models.AuditLog
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, *log)
	return nil
}

func newAuthStub() authStub {
	admin := &models.Session{ID: "sess-1", UserID: "u-admin", Role: models.RoleAdmin, Token: "tok-admin"}
	student := &models.Session{ID: "sess-2", UserID: "u-student", Role: models.RoleStudent, Token: "tok-student"}
	return authStub{
		sessions: map[string]*models.Session{"sess-1": admin, "sess-2": student},
		bearer:   map[string]*models.Session{"tok-student": student},
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session(newAuthStub(), "portal_session"))
	route := append(handlers, func(c *gin.Context) {
		session := service.SessionFromContext(c.Request.Context())
		c.String(http.StatusOK, session.UserID)
	})
	router.GET("/users/:id", route...)
	return router
}

func TestSessionMiddlewareReadsCookieAndBearer(t *testing.T) {
	router := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/users/x", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "sess-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-admin", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/users/x", nil)
	req.Header.Set("Authorization", "Bearer tok-student")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-student", rec.Body.String())
}

func TestSessionMiddlewareRejects(t *testing.T) {
	router := newRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/users/x", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/x", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "gone"})
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_EXPIRED")
}

func TestRBAC(t *testing.T) {
	router := newRouter(RBAC(string(models.RoleAdmin), "SELF"))

	cases := []struct {
		name   string
		cookie string
		path   string
		status int
	}{
		{"admin passes", "sess-1", "/users/anyone", http.StatusOK},
		{"student blocked", "sess-2", "/users/anyone", http.StatusForbidden},
		{"student reads self", "sess-2", "/users/u-student", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.AddCookie(&http.Cookie{Name: "portal_session", Value: tc.cookie})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRBACWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RequireRoles(models.RoleAdmin)(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuditRecordsSuccessfulRequests(t *testing.T) {
	recorder := &auditRecorder{}
	router := newRouter(Audit(recorder, models.AuditActionEntityWrite, "users"))

	req := httptest.NewRequest(http.MethodGet, "/users/u-9", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "sess-1"})
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, recorder.logs, 1)
	entry := recorder.logs[0]
	assert.Equal(t, "users", entry.Resource)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-admin", *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "u-9", *entry.ResourceID)
	assert.Equal(t, "OK", entry.Outcome)
}

func TestResponseMetaNotice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))

	SetNotice(c, "")
	assert.Nil(t, ExtractMeta(c))

	SetNotice(c, "already processed")
	assert.Equal(t, "already processed", ExtractMeta(c)["notice"])
}

func TestMetricsCountsMatchedAndUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/ping", "/does-not-exist"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)
}

func TestOptionalSessionAttributesWithoutBlocking(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &auditRecorder{}
	router := gin.New()
	router.GET("/download",
		OptionalSession(newAuthStub(), "portal_session"),
		Audit(recorder, models.AuditActionExportDownload, "exports"),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		cookie string
		bearer string
		userID string
	}{
		{name: "anonymous"},
		{name: "cookie", cookie: "sess-1", userID: "u-admin"},
		{name: "bearer", bearer: "tok-student", userID: "u-student"},
		{name: "expired cookie", cookie: "gone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder.logs = nil
			req := httptest.NewRequest(http.MethodGet, "/download", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "portal_session", Value: tc.cookie})
			}
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, recorder.logs, 1)
			if tc.userID == "" {
				assert.Nil(t, recorder.logs[0].UserID)
				return
			}
			require.NotNil(t, recorder.logs[0].UserID)
			assert.Equal(t, tc.userID, *recorder.logs[0].UserID)
		})
	}
}
