package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
)

// PaymentTypeReader defines read operations for the payment-type catalog.
type PaymentTypeReader interface {
	// FindPaymentTypeByID retrieves a catalog entry by id.
	FindPaymentTypeByID(ctx context.Context, paymentTypeID int64) (*domain.PaymentType, error)

	// FindPaymentTypeByIDInTx retrieves a catalog entry inside tx, so the
	// active flag seen during validation is the one the transaction commits
	// against.
	FindPaymentTypeByIDInTx(ctx context.Context, tx pgx.Tx, paymentTypeID int64) (*domain.PaymentType, error)

	// ListPaymentTypes retrieves catalog entries, optionally only active ones.
	ListPaymentTypes(ctx context.Context, onlyActive bool) ([]domain.PaymentType, error)
}

// PaymentTypeWriter defines write operations for the payment-type catalog.
type PaymentTypeWriter interface {
	// SavePaymentType inserts a new catalog entry and returns it with the
	// generated id.
	SavePaymentType(ctx context.Context, paymentType domain.PaymentType) (*domain.PaymentType, error)

	// UpdatePaymentType updates the name and active flag of an entry.
	UpdatePaymentType(ctx context.Context, paymentType domain.PaymentType) error
}

// PaymentTypeRepositoryFacade combines all payment-type repository interfaces.
type PaymentTypeRepositoryFacade interface {
	PaymentTypeReader
	PaymentTypeWriter
}
