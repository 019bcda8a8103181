package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	"github.com/cliniclabs/clinic_billing_app/internal/models"
	"github.com/cliniclabs/clinic_billing_app/internal/utils/mapping"
)

const paymentTypeColumns = `payment_type_id, name, active, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentTypeRepository struct {
	BaseRepository
}

// newPgxPaymentTypeRepository creates a new repository for the payment-type catalog.
func newPgxPaymentTypeRepository(pool *pgxpool.Pool) portsrepo.PaymentTypeRepositoryFacade {
	return &PgxPaymentTypeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPaymentTypeRepository implements portsrepo.PaymentTypeRepositoryFacade
var _ portsrepo.PaymentTypeRepositoryFacade = (*PgxPaymentTypeRepository)(nil)

func scanPaymentType(row pgx.Row) (*models.PaymentType, error) {
	var m models.PaymentType
	err := row.Scan(
		&m.PaymentTypeID,
		&m.Name,
		&m.Active,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePaymentType inserts a new catalog entry and returns it with the generated id.
func (r *PgxPaymentTypeRepository) SavePaymentType(ctx context.Context, paymentType domain.PaymentType) (*domain.PaymentType, error) {
	m := mapping.ToModelPaymentType(paymentType)
	query := `
		INSERT INTO payment_types (name, active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment_type_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.Name,
		m.Active,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&m.PaymentTypeID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, apperrors.NewAppError(500, "failed to insert payment type "+m.Name, err)
	}

	d := mapping.ToDomainPaymentType(m)
	return &d, nil
}

// FindPaymentTypeByID retrieves a catalog entry by id.
func (r *PgxPaymentTypeRepository) FindPaymentTypeByID(ctx context.Context, paymentTypeID int64) (*domain.PaymentType, error) {
	query := `SELECT ` + paymentTypeColumns + ` FROM payment_types WHERE payment_type_id = $1;`

	m, err := scanPaymentType(r.Pool.QueryRow(ctx, query, paymentTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment type by ID "+strconv.FormatInt(paymentTypeID, 10), err)
	}

	d := mapping.ToDomainPaymentType(*m)
	return &d, nil
}

// FindPaymentTypeByIDInTx retrieves a catalog entry inside tx so the active
// flag used for validation is consistent with the rest of the transaction.
func (r *PgxPaymentTypeRepository) FindPaymentTypeByIDInTx(ctx context.Context, tx pgx.Tx, paymentTypeID int64) (*domain.PaymentType, error) {
	query := `SELECT ` + paymentTypeColumns + ` FROM payment_types WHERE payment_type_id = $1;`

	m, err := scanPaymentType(tx.QueryRow(ctx, query, paymentTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment type by ID "+strconv.FormatInt(paymentTypeID, 10), err)
	}

	d := mapping.ToDomainPaymentType(*m)
	return &d, nil
}

// ListPaymentTypes retrieves catalog entries ordered by name, optionally only
// active ones.
func (r *PgxPaymentTypeRepository) ListPaymentTypes(ctx context.Context, onlyActive bool) ([]domain.PaymentType, error) {
	query := `SELECT ` + paymentTypeColumns + ` FROM payment_types`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment types", err)
	}
	defer rows.Close()

	paymentTypes := []models.PaymentType{}
	for rows.Next() {
		var m models.PaymentType
		if err := rows.Scan(
			&m.PaymentTypeID,
			&m.Name,
			&m.Active,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment type row", err)
		}
		paymentTypes = append(paymentTypes, m)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment type rows", err)
	}

	return mapping.ToDomainPaymentTypeSlice(paymentTypes), nil
}

// UpdatePaymentType updates the name and active flag of a catalog entry.
func (r *PgxPaymentTypeRepository) UpdatePaymentType(ctx context.Context, paymentType domain.PaymentType) error {
	m := mapping.ToModelPaymentType(paymentType)
	query := `
		UPDATE payment_types
		SET name = $2,
		    active = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE payment_type_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.PaymentTypeID,
		m.Name,
		m.Active,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to update payment type "+strconv.FormatInt(m.PaymentTypeID, 10), err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment type " + strconv.FormatInt(m.PaymentTypeID, 10) + " not found for update")
	}

	return nil
}
