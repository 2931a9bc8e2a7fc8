package domain

import "time"

type AuditAction string

const (
	AuditCreated      AuditAction = "created"
	AuditUpdated      AuditAction = "updated"
	AuditDeleted      AuditAction = "deleted"
	AuditMarkedArrive AuditAction = "marked_arrived"
	AuditQRGenerated  AuditAction = "qr_generated"
	AuditFormSubmit   AuditAction = "form_submitted"
	AuditBulkDeleted  AuditAction = "bulk_deleted"
)

// AuditEntry is append-only; the application never updates or deletes rows.
// The persisted shape must stay stable for downstream consumers.
type AuditEntry struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"user_id"`
	Action    AuditAction    `json:"action"`
	TableName string         `json:"table_name"`
	RecordID  string         `json:"record_id"`
	Changes   map[string]any `json:"changes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
