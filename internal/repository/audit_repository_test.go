package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestAuditRepositoryCreateAssignsIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO portal_audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AuditLog{Action: models.AuditActionRequestSwap, Resource: "batch-change-requests", Outcome: "swapped"}
	require.NoError(t, repo.CreateAuditLog(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.False(t, log.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "resource_id", "outcome", "details", "ip_address", "user_agent", "created_at"}).
		AddRow("a1", "u1", models.AuditActionRequestApprove, "batch-change-requests", "r1", "approved", []byte(`{}`), "127.0.0.1", "curl", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM portal_audit_logs WHERE action = $1 AND user_id = $2 ORDER BY created_at DESC LIMIT $3")).
		WithArgs(models.AuditActionRequestApprove, "u1", 100).
		WillReturnRows(rows)

	logs, err := repo.List(context.Background(), models.AuditFilter{Action: models.AuditActionRequestApprove, UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "approved", logs[0].Outcome)
	require.NotNil(t, logs[0].ResourceID)
	assert.Equal(t, "r1", *logs[0].ResourceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryMigrate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS portal_audit_logs").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewAuditRepository(db).Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
