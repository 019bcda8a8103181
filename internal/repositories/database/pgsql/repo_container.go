package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	examRepo := newPgxExamRepository(dbPool)
	paymentTypeRepo := newPgxPaymentTypeRepository(dbPool)
	revenueRepo := newPgxRevenueRepository(dbPool)
	auditLogRepo := newPgxAuditLogRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ExamRepo:        examRepo,
		PaymentTypeRepo: paymentTypeRepo,
		RevenueRepo:     revenueRepo,
		AuditLogRepo:    auditLogRepo,
		UserRepo:        userRepo,
	}
}
