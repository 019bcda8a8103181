package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
)

// ReconciliationReaderSvc defines read operations over exams and their
// payment history.
type ReconciliationReaderSvc interface {
	// GetExamByID retrieves an exam view, including the resolved
	// payment-type display name when the exam is paid.
	GetExamByID(ctx context.Context, examID int64) (*dto.ExamResponse, error)

	// ListExams retrieves a paginated exam listing, optionally filtered by
	// paid state.
	ListExams(ctx context.Context, params dto.ListExamsParams) (*dto.ListExamsResponse, error)

	// ListAuditLogsByExam retrieves the reconciliation audit trail of an exam.
	ListAuditLogsByExam(ctx context.Context, examID int64) ([]domain.AuditLog, error)
}

// ReconciliationWriterSvc defines the payment state transitions. Each
// operation runs inside one database transaction spanning the exam, the
// revenue ledger and the audit trail; no effect is visible unless it commits.
type ReconciliationWriterSvc interface {
	// CreateExamWithPayment creates an exam with an initial payment state.
	// If the exam is created already paid, one revenue entry is materialized
	// in the same transaction.
	CreateExamWithPayment(ctx context.Context, req dto.CreateExamRequest, actorID string) (*dto.ExamResponse, error)

	// MarkExamPaid transitions a single exam from unpaid to paid.
	MarkExamPaid(ctx context.Context, examID int64, req dto.MarkExamPaidRequest, actorID string) (*dto.ExamResponse, error)

	// UnmarkExamPaid reverts an exam's paid flag, clearing the payment-type
	// reference and note. The revenue entry created when the exam was marked
	// paid is left untouched.
	UnmarkExamPaid(ctx context.Context, examID int64, actorID string) (*dto.ExamResponse, error)

	// MarkExamsPaidBulk settles a batch of exams with all-or-nothing
	// semantics: any missing exam, already-paid exam or invalid payment type
	// rejects the whole batch before a single write.
	MarkExamsPaidBulk(ctx context.Context, req dto.BulkMarkPaidRequest, actorID string) ([]dto.ExamResponse, error)

	// ApplyPaidTransition runs the revenue-creation and audit steps of a
	// paid transition inside the caller's transaction. It only acts on an
	// unpaid-to-paid transition and is a no-op for every other combination
	// of wasPaid/isPaid. Generic exam updates that flip the paid flag as a
	// side effect call this hook instead of duplicating the engine's steps.
	ApplyPaidTransition(ctx context.Context, tx pgx.Tx, exam domain.Exam, wasPaid, isPaid bool, paymentType *domain.PaymentType, paymentNote *string, actorID string) (*domain.Revenue, error)
}

// ReconciliationSvcFacade combines the reconciliation service interfaces.
type ReconciliationSvcFacade interface {
	ReconciliationReaderSvc
	ReconciliationWriterSvc
}
