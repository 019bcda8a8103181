package mapping

import (
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	"github.com/cliniclabs/clinic_billing_app/internal/models"
)

// ToModelAuditLog converts a domain AuditLog to its persistence model.
func ToModelAuditLog(d domain.AuditLog) models.AuditLog {
	return models.AuditLog{
		AuditLogID: d.AuditLogID,
		ExamID:     d.ExamID,
		ActorID:    d.ActorID,
		Action:     d.Action,
		Details:    d.Details,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainAuditLog converts a persistence model AuditLog to its domain form.
func ToDomainAuditLog(m models.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		AuditLogID: m.AuditLogID,
		ExamID:     m.ExamID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		Details:    m.Details,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainAuditLogSlice converts a slice of model audit logs.
func ToDomainAuditLogSlice(ms []models.AuditLog) []domain.AuditLog {
	logs := make([]domain.AuditLog, len(ms))
	for i, m := range ms {
		logs[i] = ToDomainAuditLog(m)
	}
	return logs
}
