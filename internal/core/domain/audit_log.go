package domain

import "time"

// Audit actions recorded by the reconciliation engine.
const (
	AuditExamCreated     = "EXAM_CREATED"
	AuditExamMarkedPaid  = "EXAM_MARKED_PAID"
	AuditExamPaymentUndo = "EXAM_PAYMENT_REVERTED"
)

// AuditLog is a write-only record of a reconciliation event. It exists for
// traceability, not for reconstructing state.
type AuditLog struct {
	AuditLogID int64     `json:"auditLogID"`
	ExamID     *int64    `json:"examID,omitempty"`
	ActorID    string    `json:"actorID"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}
