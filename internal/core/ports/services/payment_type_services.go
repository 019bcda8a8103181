package services

import (
	"context"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
)

// PaymentTypeReaderSvc defines read operations for the payment-type catalog.
type PaymentTypeReaderSvc interface {
	// GetPaymentTypeByID retrieves a specific catalog entry.
	GetPaymentTypeByID(ctx context.Context, paymentTypeID int64) (*domain.PaymentType, error)

	// ListPaymentTypes retrieves catalog entries, optionally only active ones.
	ListPaymentTypes(ctx context.Context, onlyActive bool) ([]domain.PaymentType, error)
}

// PaymentTypeWriterSvc defines write operations for the payment-type catalog.
type PaymentTypeWriterSvc interface {
	// CreatePaymentType persists a new catalog entry.
	CreatePaymentType(ctx context.Context, req dto.CreatePaymentTypeRequest, creatorUserID string) (*domain.PaymentType, error)

	// UpdatePaymentType updates the name and/or active flag of an entry.
	// Deactivation never mutates exams that already reference the entry.
	UpdatePaymentType(ctx context.Context, paymentTypeID int64, req dto.UpdatePaymentTypeRequest, updaterUserID string) (*domain.PaymentType, error)
}

// PaymentTypeSvcFacade combines the payment-type service interfaces.
type PaymentTypeSvcFacade interface {
	PaymentTypeReaderSvc
	PaymentTypeWriterSvc
}
