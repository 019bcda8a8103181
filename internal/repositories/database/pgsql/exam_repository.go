package pgsql

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	"github.com/cliniclabs/clinic_billing_app/internal/models"
	"github.com/cliniclabs/clinic_billing_app/internal/utils/mapping"
	"github.com/cliniclabs/clinic_billing_app/internal/utils/pagination"
)

const examColumns = `exam_id, patient_name, exam_type, exam_date, value, paid, payment_type_id, payment_note,
       created_at, created_by, last_updated_at, last_updated_by`

type PgxExamRepository struct {
	BaseRepository
}

// newPgxExamRepository creates a new repository for exam billing data.
func newPgxExamRepository(pool *pgxpool.Pool) portsrepo.ExamRepositoryWithTx {
	return &PgxExamRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxExamRepository implements portsrepo.ExamRepositoryWithTx
var _ portsrepo.ExamRepositoryWithTx = (*PgxExamRepository)(nil)

func scanExam(row pgx.Row) (*models.Exam, error) {
	var m models.Exam
	err := row.Scan(
		&m.ExamID,
		&m.PatientName,
		&m.ExamType,
		&m.ExamDate,
		&m.Value,
		&m.Paid,
		&m.PaymentTypeID,
		&m.PaymentNote,
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

// SaveExamInTx inserts a new exam inside the given transaction and returns
// the exam with its generated id.
func (r *PgxExamRepository) SaveExamInTx(ctx context.Context, tx pgx.Tx, exam domain.Exam) (*domain.Exam, error) {
	modelExam := mapping.ToModelExam(exam)
	query := `
		INSERT INTO exams (
			patient_name, exam_type, exam_date, value, paid, payment_type_id, payment_note,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING exam_id;
	`
	err := tx.QueryRow(ctx, query,
		modelExam.PatientName,
		modelExam.ExamType,
		modelExam.ExamDate,
		modelExam.Value,
		modelExam.Paid,
		modelExam.PaymentTypeID,
		modelExam.PaymentNote,
		modelExam.CreatedAt,
		modelExam.CreatedBy,
		modelExam.LastUpdatedAt,
		modelExam.LastUpdatedBy,
	).Scan(&modelExam.ExamID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert exam", err)
	}

	domainExam := mapping.ToDomainExam(modelExam)
	return &domainExam, nil
}

// FindExamByID retrieves an exam by its ID without locking.
func (r *PgxExamRepository) FindExamByID(ctx context.Context, examID int64) (*domain.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE exam_id = $1;`

	m, err := scanExam(r.Pool.QueryRow(ctx, query, examID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find exam by ID "+strconv.FormatInt(examID, 10), err)
	}

	domainExam := mapping.ToDomainExam(*m)
	return &domainExam, nil
}

// FindExamByIDForUpdate loads an exam inside tx with FOR UPDATE so concurrent
// payment transitions on the same exam serialize on the row lock.
func (r *PgxExamRepository) FindExamByIDForUpdate(ctx context.Context, tx pgx.Tx, examID int64) (*domain.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE exam_id = $1 FOR UPDATE;`

	m, err := scanExam(tx.QueryRow(ctx, query, examID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock exam "+strconv.FormatInt(examID, 10), err)
	}

	domainExam := mapping.ToDomainExam(*m)
	return &domainExam, nil
}

// FindExamsByIDsForUpdate loads and locks a set of exams inside tx. IDs are
// locked in ascending order so concurrent batches cannot deadlock each other.
// The result map only contains ids that exist; missing ids are the caller's
// decision to handle.
func (r *PgxExamRepository) FindExamsByIDsForUpdate(ctx context.Context, tx pgx.Tx, examIDs []int64) (map[int64]domain.Exam, error) {
	if len(examIDs) == 0 {
		return map[int64]domain.Exam{}, nil
	}

	sorted := make([]int64, len(examIDs))
	copy(sorted, examIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	query := `SELECT ` + examColumns + ` FROM exams WHERE exam_id = ANY($1) ORDER BY exam_id FOR UPDATE;`

	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock exams for batch update", err)
	}
	defer rows.Close()

	exams := make(map[int64]domain.Exam, len(sorted))
	for rows.Next() {
		var m models.Exam
		if err := rows.Scan(
			&m.ExamID,
			&m.PatientName,
			&m.ExamType,
			&m.ExamDate,
			&m.Value,
			&m.Paid,
			&m.PaymentTypeID,
			&m.PaymentNote,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exam row during batch lock", err)
		}
		exams[m.ExamID] = mapping.ToDomainExam(m)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exam rows during batch lock", err)
	}

	return exams, nil
}

// UpdateExamPaymentInTx sets the payment state of an exam inside tx.
func (r *PgxExamRepository) UpdateExamPaymentInTx(ctx context.Context, tx pgx.Tx, examID int64, paid bool, paymentTypeID *int64, paymentNote *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE exams
		SET paid = $2,
		    payment_type_id = $3,
		    payment_note = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE exam_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, examID, paid, paymentTypeID, paymentNote, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment state of exam "+strconv.FormatInt(examID, 10), err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("exam " + strconv.FormatInt(examID, 10) + " not found for update")
	}

	return nil
}

// ListExams retrieves a paginated list of exams using token-based pagination,
// optionally filtered by paid state. It returns the exams, a token for the
// next page, and an error.
func (r *PgxExamRepository) ListExams(ctx context.Context, paid *bool, limit int, nextToken *string) ([]domain.Exam, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + examColumns + ` FROM exams`

	filterClause := ``
	args := []interface{}{}
	if paid != nil {
		args = append(args, *paid)
		filterClause = `WHERE paid = $1`
	}

	// Ordering must be stable for the cursor to work.
	orderByClause := `ORDER BY exam_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastExamDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `(exam_date, created_at) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		if filterClause == "" {
			filterClause = `WHERE ` + cursorClause
		} else {
			filterClause += ` AND ` + cursorClause
		}
		args = append(args, lastExamDate, lastCreatedAt)
	}

	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query exams", err)
	}
	defer rows.Close()

	modelExams := make([]models.Exam, 0, fetchLimit)
	for rows.Next() {
		var m models.Exam
		if scanErr := rows.Scan(
			&m.ExamID,
			&m.PatientName,
			&m.ExamType,
			&m.ExamDate,
			&m.Value,
			&m.Paid,
			&m.PaymentTypeID,
			&m.PaymentNote,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan exam row", scanErr)
		}
		modelExams = append(modelExams, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating exam rows", err)
	}

	var nextTokenVal *string
	results := modelExams
	if len(modelExams) > limit {
		lastExam := modelExams[limit-1]
		newToken := pagination.EncodeToken(lastExam.ExamDate, lastExam.CreatedAt)
		nextTokenVal = &newToken
		results = modelExams[:limit]
	}

	return mapping.ToDomainExamSlice(results), nextTokenVal, nil
}
