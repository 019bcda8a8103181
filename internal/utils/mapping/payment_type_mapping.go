package mapping

import (
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	"github.com/cliniclabs/clinic_billing_app/internal/models"
)

// ToModelPaymentType converts a domain PaymentType to its persistence model.
func ToModelPaymentType(d domain.PaymentType) models.PaymentType {
	return models.PaymentType{
		PaymentTypeID: d.PaymentTypeID,
		Name:          d.Name,
		Active:        d.Active,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentType converts a persistence model PaymentType to its domain form.
func ToDomainPaymentType(m models.PaymentType) domain.PaymentType {
	return domain.PaymentType{
		PaymentTypeID: m.PaymentTypeID,
		Name:          m.Name,
		Active:        m.Active,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentTypeSlice converts a slice of model payment types.
func ToDomainPaymentTypeSlice(ms []models.PaymentType) []domain.PaymentType {
	paymentTypes := make([]domain.PaymentType, len(ms))
	for i, m := range ms {
		paymentTypes[i] = ToDomainPaymentType(m)
	}
	return paymentTypes
}
