package pgsql

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	"github.com/cliniclabs/clinic_billing_app/internal/models"
	"github.com/cliniclabs/clinic_billing_app/internal/utils/mapping"
)

type PgxAuditLogRepository struct {
	BaseRepository
}

// newPgxAuditLogRepository creates a new repository for the audit trail.
func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditLogRepository implements portsrepo.AuditLogRepositoryFacade
var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

// SaveAuditLogInTx appends an audit entry inside the given transaction. The
// trail is append-only; there is deliberately no update or delete here.
func (r *PgxAuditLogRepository) SaveAuditLogInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditLog) error {
	m := mapping.ToModelAuditLog(entry)
	query := `
		INSERT INTO audit_logs (exam_id, actor_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, query, m.ExamID, m.ActorID, m.Action, m.Details, m.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit log entry", err)
	}
	return nil
}

// FindAuditLogsByExamID retrieves the audit entries for an exam, oldest first.
func (r *PgxAuditLogRepository) FindAuditLogsByExamID(ctx context.Context, examID int64) ([]domain.AuditLog, error) {
	query := `
		SELECT audit_log_id, exam_id, actor_id, action, details, created_at
		FROM audit_logs
		WHERE exam_id = $1
		ORDER BY created_at, audit_log_id;
	`
	rows, err := r.Pool.Query(ctx, query, examID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit logs for exam "+strconv.FormatInt(examID, 10), err)
	}
	defer rows.Close()

	entries := []models.AuditLog{}
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(
			&m.AuditLogID,
			&m.ExamID,
			&m.ActorID,
			&m.Action,
			&m.Details,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit log row for exam "+strconv.FormatInt(examID, 10), err)
		}
		entries = append(entries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit log rows for exam "+strconv.FormatInt(examID, 10), err)
	}

	return mapping.ToDomainAuditLogSlice(entries), nil
}
