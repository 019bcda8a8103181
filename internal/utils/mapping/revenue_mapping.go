package mapping

import (
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	"github.com/cliniclabs/clinic_billing_app/internal/models"
)

// ToModelRevenue converts a domain Revenue to its persistence model.
func ToModelRevenue(d domain.Revenue) models.Revenue {
	return models.Revenue{
		RevenueID:     d.RevenueID,
		ExamID:        d.ExamID,
		Description:   d.Description,
		Amount:        d.Amount,
		PaymentMethod: d.PaymentMethod,
		Status:        models.RevenueStatus(d.Status),
		DueDate:       d.DueDate,
		ReceivedDate:  d.ReceivedDate,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRevenue converts a persistence model Revenue to its domain form.
func ToDomainRevenue(m models.Revenue) domain.Revenue {
	return domain.Revenue{
		RevenueID:     m.RevenueID,
		ExamID:        m.ExamID,
		Description:   m.Description,
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
		Status:        domain.RevenueStatus(m.Status),
		DueDate:       m.DueDate,
		ReceivedDate:  m.ReceivedDate,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRevenueSlice converts a slice of model revenues to domain revenues.
func ToDomainRevenueSlice(ms []models.Revenue) []domain.Revenue {
	revenues := make([]domain.Revenue, len(ms))
	for i, m := range ms {
		revenues[i] = ToDomainRevenue(m)
	}
	return revenues
}
