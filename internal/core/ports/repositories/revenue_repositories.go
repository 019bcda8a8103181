package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
)

// RevenueReader defines read operations for revenue data.
type RevenueReader interface {
	// FindRevenuesByExamID retrieves all revenue entries linked to an exam.
	FindRevenuesByExamID(ctx context.Context, examID int64) ([]domain.Revenue, error)

	// ListRevenues retrieves a paginated list of revenue entries ordered by
	// received date using token-based pagination.
	ListRevenues(ctx context.Context, limit int, nextToken *string) ([]domain.Revenue, *string, error)
}

// RevenueWriter defines write operations for revenue data. The reconciliation
// engine creates revenue entries exclusively inside the transaction that flips
// the exam's paid flag.
type RevenueWriter interface {
	// SaveRevenueInTx inserts a new revenue entry inside tx and returns it
	// with the generated id.
	SaveRevenueInTx(ctx context.Context, tx pgx.Tx, revenue domain.Revenue) (*domain.Revenue, error)
}

// RevenueRepositoryFacade combines all revenue-related repository interfaces.
type RevenueRepositoryFacade interface {
	RevenueReader
	RevenueWriter
}
