package models

import "time"

// AuditLog is the persistence model for the audit_logs table. Append-only.
type AuditLog struct {
	AuditLogID int64     `json:"auditLogID" db:"audit_log_id"`
	ExamID     *int64    `json:"examID" db:"exam_id"`
	ActorID    string    `json:"actorID" db:"actor_id"`
	Action     string    `json:"action" db:"action"`
	Details    string    `json:"details" db:"details"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
