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
	"github.com/cliniclabs/clinic_billing_app/internal/utils/pagination"
)

const revenueColumns = `revenue_id, exam_id, description, amount, payment_method, status, due_date, received_date, notes,
       created_at, created_by, last_updated_at, last_updated_by`

type PgxRevenueRepository struct {
	BaseRepository
}

// newPgxRevenueRepository creates a new repository for the revenue ledger.
func newPgxRevenueRepository(pool *pgxpool.Pool) portsrepo.RevenueRepositoryFacade {
	return &PgxRevenueRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxRevenueRepository implements portsrepo.RevenueRepositoryFacade
var _ portsrepo.RevenueRepositoryFacade = (*PgxRevenueRepository)(nil)

// SaveRevenueInTx inserts a new revenue entry inside the given transaction
// and returns it with the generated id.
func (r *PgxRevenueRepository) SaveRevenueInTx(ctx context.Context, tx pgx.Tx, revenue domain.Revenue) (*domain.Revenue, error) {
	m := mapping.ToModelRevenue(revenue)
	query := `
		INSERT INTO revenues (
			exam_id, description, amount, payment_method, status, due_date, received_date, notes,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING revenue_id;
	`
	err := tx.QueryRow(ctx, query,
		m.ExamID,
		m.Description,
		m.Amount,
		m.PaymentMethod,
		m.Status,
		m.DueDate,
		m.ReceivedDate,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&m.RevenueID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert revenue entry", err)
	}

	d := mapping.ToDomainRevenue(m)
	return &d, nil
}

func scanRevenueRows(rows pgx.Rows) ([]models.Revenue, error) {
	revenues := []models.Revenue{}
	for rows.Next() {
		var m models.Revenue
		if err := rows.Scan(
			&m.RevenueID,
			&m.ExamID,
			&m.Description,
			&m.Amount,
			&m.PaymentMethod,
			&m.Status,
			&m.DueDate,
			&m.ReceivedDate,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, err
		}
		revenues = append(revenues, m)
	}
	return revenues, rows.Err()
}

// FindRevenuesByExamID retrieves all revenue entries linked to an exam,
// oldest first.
func (r *PgxRevenueRepository) FindRevenuesByExamID(ctx context.Context, examID int64) ([]domain.Revenue, error) {
	query := `SELECT ` + revenueColumns + ` FROM revenues WHERE exam_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, examID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query revenues for exam "+strconv.FormatInt(examID, 10), err)
	}
	defer rows.Close()

	revenues, err := scanRevenueRows(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan revenue rows for exam "+strconv.FormatInt(examID, 10), err)
	}

	return mapping.ToDomainRevenueSlice(revenues), nil
}

// ListRevenues retrieves a paginated list of revenue entries ordered by
// received date using token-based pagination.
func (r *PgxRevenueRepository) ListRevenues(ctx context.Context, limit int, nextToken *string) ([]domain.Revenue, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + revenueColumns + ` FROM revenues`
	orderByClause := `ORDER BY received_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastReceivedDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query := baseQuery + ` WHERE (received_date, created_at) < ($1, $2) ` + orderByClause + ` LIMIT $3;`
		rows, err = r.Pool.Query(ctx, query, lastReceivedDate, lastCreatedAt, fetchLimit)
	} else {
		query := baseQuery + ` ` + orderByClause + ` LIMIT $1;`
		rows, err = r.Pool.Query(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query revenues", err)
	}
	defer rows.Close()

	revenues, err := scanRevenueRows(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan revenue rows", err)
	}

	var nextTokenVal *string
	results := revenues
	if len(revenues) > limit {
		lastRevenue := revenues[limit-1]
		newToken := pagination.EncodeToken(lastRevenue.ReceivedDate, lastRevenue.CreatedAt)
		nextTokenVal = &newToken
		results = revenues[:limit]
	}

	return mapping.ToDomainRevenueSlice(results), nextTokenVal, nil
}
