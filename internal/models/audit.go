package models

import "time"

// Admin actions recorded in the audit trail.
const (
	AuditActionLogin            = "LOGIN"
	AuditActionLogout           = "LOGOUT"
	AuditActionRequestApprove   = "CHANGE_REQUEST_APPROVE"
	AuditActionRequestReject    = "CHANGE_REQUEST_REJECT"
	AuditActionRequestSwap      = "CHANGE_REQUEST_SWAP"
	AuditActionRequestSubmit    = "CHANGE_REQUEST_SUBMIT"
	AuditActionInstructorAssign = "INSTRUCTOR_ASSIGN"
	AuditActionResultPublish    = "RESULT_PUBLISH"
	AuditActionEntityWrite      = "ENTITY_WRITE"
	AuditActionRoutineWrite     = "ROUTINE_WRITE"
	AuditActionExportCreate     = "EXPORT_CREATE"
	AuditActionExportDownload   = "EXPORT_DOWNLOAD"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Outcome    string    `db:"outcome" json:"outcome"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditFilter narrows audit listing.
type AuditFilter struct {
	Action   string
	Resource string
	UserID   string
	Limit    int
}
