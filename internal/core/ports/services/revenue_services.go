package services

import (
	"context"

	"github.com/cliniclabs/clinic_billing_app/internal/dto"
)

// RevenueReaderSvc defines read operations over the revenue ledger. The
// ledger has no service-level write surface: entries are only created by the
// reconciliation engine inside its own transactions.
type RevenueReaderSvc interface {
	// ListRevenues retrieves a paginated revenue listing ordered by received date.
	ListRevenues(ctx context.Context, params dto.ListRevenuesParams) (*dto.ListRevenuesResponse, error)

	// ListRevenuesByExam retrieves the revenue entries linked to an exam.
	ListRevenuesByExam(ctx context.Context, examID int64) ([]dto.RevenueResponse, error)
}

// RevenueSvcFacade is the revenue service surface.
type RevenueSvcFacade interface {
	RevenueReaderSvc
}
