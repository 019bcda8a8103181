package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
)

// ExamReader defines read operations for exam data.
type ExamReader interface {
	// FindExamByID retrieves a specific exam by its identifier.
	FindExamByID(ctx context.Context, examID int64) (*domain.Exam, error)

	// ListExams retrieves a paginated list of exams using token-based
	// pagination, optionally filtered by paid state. It returns the exams,
	// a token for the next page, and an error.
	ListExams(ctx context.Context, paid *bool, limit int, nextToken *string) ([]domain.Exam, *string, error)
}

// ExamWriter defines write operations for exam data. Mutations that
// participate in a reconciliation run inside the caller-supplied transaction.
type ExamWriter interface {
	// SaveExamInTx inserts a new exam and returns it with the generated id.
	SaveExamInTx(ctx context.Context, tx pgx.Tx, exam domain.Exam) (*domain.Exam, error)

	// FindExamByIDForUpdate loads an exam inside tx with a row lock, so a
	// concurrent payment transition on the same exam serializes behind it.
	FindExamByIDForUpdate(ctx context.Context, tx pgx.Tx, examID int64) (*domain.Exam, error)

	// FindExamsByIDsForUpdate loads and locks a set of exams inside tx.
	// The result map only contains the ids that exist.
	FindExamsByIDsForUpdate(ctx context.Context, tx pgx.Tx, examIDs []int64) (map[int64]domain.Exam, error)

	// UpdateExamPaymentInTx sets the paid flag, payment-type reference and
	// payment note of an exam inside tx.
	UpdateExamPaymentInTx(ctx context.Context, tx pgx.Tx, examID int64, paid bool, paymentTypeID *int64, paymentNote *string, updatedBy string, updatedAt time.Time) error
}

// ExamRepositoryFacade combines all exam-related repository interfaces.
type ExamRepositoryFacade interface {
	ExamReader
	ExamWriter
}

// ExamRepositoryWithTx extends ExamRepositoryFacade with transaction capabilities.
type ExamRepositoryWithTx interface {
	ExamRepositoryFacade
	TransactionManager
}
