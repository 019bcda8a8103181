package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
)

// AuditLogReader defines read operations for the audit trail.
type AuditLogReader interface {
	// FindAuditLogsByExamID retrieves the audit entries for an exam, oldest first.
	FindAuditLogsByExamID(ctx context.Context, examID int64) ([]domain.AuditLog, error)
}

// AuditLogWriter defines write operations for the audit trail. The trail is
// append-only; there is no update or delete.
type AuditLogWriter interface {
	// SaveAuditLogInTx appends one audit entry inside tx.
	SaveAuditLogInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditLog) error
}

// AuditLogRepositoryFacade combines the audit trail repository interfaces.
type AuditLogRepositoryFacade interface {
	AuditLogReader
	AuditLogWriter
}
