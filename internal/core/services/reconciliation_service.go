package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
	"github.com/cliniclabs/clinic_billing_app/internal/middleware"
	"github.com/cliniclabs/clinic_billing_app/internal/utils"
)

var (
	ErrAlreadyPaid        = errors.New("exam is already marked as paid")
	ErrNotPaid            = errors.New("exam is not marked as paid")
	ErrInvalidPaymentType = errors.New("payment type does not exist or is inactive")
)

const maxPaymentNoteLen = 255

// reconciliationService ties an exam's paid flag to the revenue ledger and
// the audit trail. Every write operation runs in a single transaction; the
// exam row is locked before any decision-relevant read.
type reconciliationService struct {
	examRepo        portsrepo.ExamRepositoryWithTx
	paymentTypeRepo portsrepo.PaymentTypeRepositoryFacade
	revenueRepo     portsrepo.RevenueRepositoryFacade
	auditRepo       portsrepo.AuditLogRepositoryFacade
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(
	examRepo portsrepo.ExamRepositoryWithTx,
	paymentTypeRepo portsrepo.PaymentTypeRepositoryFacade,
	revenueRepo portsrepo.RevenueRepositoryFacade,
	auditRepo portsrepo.AuditLogRepositoryFacade,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		examRepo:        examRepo,
		paymentTypeRepo: paymentTypeRepo,
		revenueRepo:     revenueRepo,
		auditRepo:       auditRepo,
	}
}

// Ensure reconciliationService implements the facade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func validatePaymentNote(note *string) error {
	if note != nil && len(*note) > maxPaymentNoteLen {
		return fmt.Errorf("%w: payment note exceeds %d characters", apperrors.ErrValidation, maxPaymentNoteLen)
	}
	return nil
}

// resolvePaymentType validates an optional payment-type reference inside the
// current transaction. A nil id resolves to nil without error; a missing or
// inactive entry fails with ErrInvalidPaymentType.
func (s *reconciliationService) resolvePaymentType(ctx context.Context, tx pgx.Tx, paymentTypeID *int64) (*domain.PaymentType, error) {
	if paymentTypeID == nil {
		return nil, nil
	}
	paymentType, err := s.paymentTypeRepo.FindPaymentTypeByIDInTx(ctx, tx, *paymentTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrInvalidPaymentType, *paymentTypeID)
		}
		return nil, fmt.Errorf("failed to resolve payment type %d: %w", *paymentTypeID, err)
	}
	if !paymentType.Active {
		return nil, fmt.Errorf("%w: id %d is inactive", ErrInvalidPaymentType, *paymentTypeID)
	}
	return paymentType, nil
}

// paymentMethodFor derives the revenue ledger method slug from an optional
// payment-type entry.
func paymentMethodFor(paymentType *domain.PaymentType) string {
	if paymentType == nil {
		return utils.DefaultPaymentMethod
	}
	return utils.NormalizePaymentMethod(paymentType.Name)
}

// createRevenueForExam materializes the revenue entry of a paid transition.
// Exams with a non-positive value produce no revenue and return nil.
func (s *reconciliationService) createRevenueForExam(ctx context.Context, tx pgx.Tx, exam domain.Exam, paymentType *domain.PaymentType, paymentNote *string, actorID string, now time.Time) (*domain.Revenue, error) {
	if !exam.Value.GreaterThan(decimal.Zero) {
		return nil, nil
	}

	notes := ""
	if paymentNote != nil {
		notes = *paymentNote
	}

	examID := exam.ExamID
	revenue := domain.Revenue{
		ExamID:        &examID,
		Description:   fmt.Sprintf("Exam %s - %s", exam.ExamType, exam.PatientName),
		Amount:        exam.Value,
		PaymentMethod: paymentMethodFor(paymentType),
		Status:        domain.RevenueReceived,
		DueDate:       now,
		ReceivedDate:  now,
		Notes:         notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	saved, err := s.revenueRepo.SaveRevenueInTx(ctx, tx, revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to save revenue for exam %d: %w", exam.ExamID, err)
	}
	return saved, nil
}

// ApplyPaidTransition runs the revenue and audit steps of an unpaid-to-paid
// transition inside the caller's transaction. Any other wasPaid/isPaid
// combination is a no-op, so generic exam updates can call it unconditionally.
func (s *reconciliationService) ApplyPaidTransition(ctx context.Context, tx pgx.Tx, exam domain.Exam, wasPaid, isPaid bool, paymentType *domain.PaymentType, paymentNote *string, actorID string) (*domain.Revenue, error) {
	if wasPaid || !isPaid {
		return nil, nil
	}

	now := time.Now().UTC()

	revenue, err := s.createRevenueForExam(ctx, tx, exam, paymentType, paymentNote, actorID, now)
	if err != nil {
		return nil, err
	}

	methodName := utils.DefaultPaymentMethod
	if paymentType != nil {
		methodName = paymentType.Name
	}
	details := fmt.Sprintf("exam %d marked paid via %s, amount %s", exam.ExamID, methodName, exam.Value.String())
	if paymentNote != nil {
		details = fmt.Sprintf("%s (note: %s)", details, *paymentNote)
	}

	examID := exam.ExamID
	entry := domain.AuditLog{
		ExamID:    &examID,
		ActorID:   actorID,
		Action:    domain.AuditExamMarkedPaid,
		Details:   details,
		CreatedAt: now,
	}
	if err := s.auditRepo.SaveAuditLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to save audit log for exam %d: %w", exam.ExamID, err)
	}

	return revenue, nil
}

// CreateExamWithPayment creates an exam and, when created already paid,
// materializes its revenue entry in the same transaction.
func (s *reconciliationService) CreateExamWithPayment(ctx context.Context, req dto.CreateExamRequest, actorID string) (*dto.ExamResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Value.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: exam value must be positive", apperrors.ErrValidation)
	}
	if err := validatePaymentNote(req.PaymentNote); err != nil {
		return nil, err
	}

	tx, err := s.examRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.examRepo.Rollback(ctx, tx) }()

	paymentType, err := s.resolvePaymentType(ctx, tx, req.PaymentTypeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	exam := domain.Exam{
		PatientName:   req.PatientName,
		ExamType:      req.ExamType,
		ExamDate:      req.ExamDate,
		Value:         req.Value,
		Paid:          req.Paid,
		PaymentTypeID: req.PaymentTypeID,
		PaymentNote:   req.PaymentNote,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	saved, err := s.examRepo.SaveExamInTx(ctx, tx, exam)
	if err != nil {
		logger.Error("Failed to save exam", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save exam: %w", err)
	}

	var revenue *domain.Revenue
	if req.Paid {
		revenue, err = s.createRevenueForExam(ctx, tx, *saved, paymentType, req.PaymentNote, actorID, now)
		if err != nil {
			return nil, err
		}
	}

	details := fmt.Sprintf("exam created for %s (%s), value %s", saved.PatientName, saved.ExamType, saved.Value.String())
	if req.Paid {
		methodName := utils.DefaultPaymentMethod
		if paymentType != nil {
			methodName = paymentType.Name
		}
		details = fmt.Sprintf("%s, paid via %s", details, methodName)
		if req.PaymentNote != nil {
			details = fmt.Sprintf("%s (note: %s)", details, *req.PaymentNote)
		}
	}
	examID := saved.ExamID
	entry := domain.AuditLog{
		ExamID:    &examID,
		ActorID:   actorID,
		Action:    domain.AuditExamCreated,
		Details:   details,
		CreatedAt: now,
	}
	if err := s.auditRepo.SaveAuditLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to save audit log for exam %d: %w", saved.ExamID, err)
	}

	if err := s.examRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit exam creation", slog.Int64("exam_id", saved.ExamID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Exam created", slog.Int64("exam_id", saved.ExamID), slog.Bool("paid", saved.Paid))

	resp := dto.ToExamResponse(saved)
	if paymentType != nil {
		resp.PaymentTypeName = &paymentType.Name
	}
	if revenue != nil {
		resp.RevenueID = &revenue.RevenueID
	}
	return &resp, nil
}

// MarkExamPaid transitions a single exam from unpaid to paid, creating its
// revenue entry and audit record atomically.
func (s *reconciliationService) MarkExamPaid(ctx context.Context, examID int64, req dto.MarkExamPaidRequest, actorID string) (*dto.ExamResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validatePaymentNote(req.PaymentNote); err != nil {
		return nil, err
	}

	tx, err := s.examRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.examRepo.Rollback(ctx, tx) }()

	exam, err := s.examRepo.FindExamByIDForUpdate(ctx, tx, examID)
	if err != nil {
		return nil, err
	}
	if exam.Paid {
		return nil, fmt.Errorf("%w: exam %d", ErrAlreadyPaid, examID)
	}

	paymentType, err := s.resolvePaymentType(ctx, tx, req.PaymentTypeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.examRepo.UpdateExamPaymentInTx(ctx, tx, examID, true, req.PaymentTypeID, req.PaymentNote, actorID, now); err != nil {
		logger.Error("Failed to update exam payment", slog.Int64("exam_id", examID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update exam %d: %w", examID, err)
	}

	revenue, err := s.ApplyPaidTransition(ctx, tx, *exam, false, true, paymentType, req.PaymentNote, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.examRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit payment", slog.Int64("exam_id", examID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Exam marked paid", slog.Int64("exam_id", examID))

	exam.Paid = true
	exam.PaymentTypeID = req.PaymentTypeID
	exam.PaymentNote = req.PaymentNote
	exam.LastUpdatedAt = now
	exam.LastUpdatedBy = actorID

	resp := dto.ToExamResponse(exam)
	if paymentType != nil {
		resp.PaymentTypeName = &paymentType.Name
	}
	if revenue != nil {
		resp.RevenueID = &revenue.RevenueID
	}
	return &resp, nil
}

// UnmarkExamPaid reverts the paid flag and clears the payment reference and
// note. The revenue entry created when the exam was marked paid stays as is.
func (s *reconciliationService) UnmarkExamPaid(ctx context.Context, examID int64, actorID string) (*dto.ExamResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.examRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.examRepo.Rollback(ctx, tx) }()

	exam, err := s.examRepo.FindExamByIDForUpdate(ctx, tx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.Paid {
		return nil, fmt.Errorf("%w: exam %d", ErrNotPaid, examID)
	}

	now := time.Now().UTC()
	if err := s.examRepo.UpdateExamPaymentInTx(ctx, tx, examID, false, nil, nil, actorID, now); err != nil {
		logger.Error("Failed to revert exam payment", slog.Int64("exam_id", examID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update exam %d: %w", examID, err)
	}

	details := fmt.Sprintf("exam %d payment reverted", examID)
	if exam.PaymentTypeID != nil {
		details = fmt.Sprintf("%s, previous payment type id %d", details, *exam.PaymentTypeID)
	}
	entry := domain.AuditLog{
		ExamID:    &examID,
		ActorID:   actorID,
		Action:    domain.AuditExamPaymentUndo,
		Details:   details,
		CreatedAt: now,
	}
	if err := s.auditRepo.SaveAuditLogInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to save audit log for exam %d: %w", examID, err)
	}

	if err := s.examRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit payment revert", slog.Int64("exam_id", examID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Exam payment reverted", slog.Int64("exam_id", examID))

	exam.Paid = false
	exam.PaymentTypeID = nil
	exam.PaymentNote = nil
	exam.LastUpdatedAt = now
	exam.LastUpdatedBy = actorID

	resp := dto.ToExamResponse(exam)
	return &resp, nil
}

// MarkExamsPaidBulk settles a batch of exams with all-or-nothing semantics.
// All target rows are locked in ascending id order before any check, so the
// decision is made against the state the transaction will commit over.
func (s *reconciliationService) MarkExamsPaidBulk(ctx context.Context, req dto.BulkMarkPaidRequest, actorID string) ([]dto.ExamResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Exams) == 0 {
		return nil, fmt.Errorf("%w: bulk request must contain at least one exam", apperrors.ErrValidation)
	}

	seen := make(map[int64]bool, len(req.Exams))
	examIDs := make([]int64, 0, len(req.Exams))
	for _, entry := range req.Exams {
		if !entry.Paid {
			return nil, fmt.Errorf("%w: exam %d must have paid set to true", apperrors.ErrValidation, entry.ExamID)
		}
		if err := validatePaymentNote(entry.PaymentNote); err != nil {
			return nil, err
		}
		if seen[entry.ExamID] {
			return nil, fmt.Errorf("%w: exam %d appears more than once", apperrors.ErrValidation, entry.ExamID)
		}
		seen[entry.ExamID] = true
		examIDs = append(examIDs, entry.ExamID)
	}

	tx, err := s.examRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.examRepo.Rollback(ctx, tx) }()

	exams, err := s.examRepo.FindExamsByIDsForUpdate(ctx, tx, examIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load exams for bulk payment: %w", err)
	}

	var missing []int64
	var alreadyPaid []int64
	for _, id := range examIDs {
		exam, found := exams[id]
		if !found {
			missing = append(missing, id)
			continue
		}
		if exam.Paid {
			alreadyPaid = append(alreadyPaid, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, fmt.Errorf("%w: exam ids %v", apperrors.ErrNotFound, missing)
	}
	if len(alreadyPaid) > 0 {
		sort.Slice(alreadyPaid, func(i, j int) bool { return alreadyPaid[i] < alreadyPaid[j] })
		return nil, fmt.Errorf("%w: exam ids %v", ErrAlreadyPaid, alreadyPaid)
	}

	// Validate every referenced payment type before the first write.
	paymentTypes := make(map[int64]*domain.PaymentType)
	for _, entry := range req.Exams {
		if entry.PaymentTypeID == nil {
			continue
		}
		if _, cached := paymentTypes[*entry.PaymentTypeID]; cached {
			continue
		}
		paymentType, err := s.resolvePaymentType(ctx, tx, entry.PaymentTypeID)
		if err != nil {
			return nil, err
		}
		paymentTypes[*entry.PaymentTypeID] = paymentType
	}

	now := time.Now().UTC()
	responses := make([]dto.ExamResponse, 0, len(req.Exams))
	for _, entry := range req.Exams {
		exam := exams[entry.ExamID]

		if err := s.examRepo.UpdateExamPaymentInTx(ctx, tx, entry.ExamID, true, entry.PaymentTypeID, entry.PaymentNote, actorID, now); err != nil {
			logger.Error("Failed to update exam payment in bulk", slog.Int64("exam_id", entry.ExamID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to update exam %d: %w", entry.ExamID, err)
		}

		var paymentType *domain.PaymentType
		if entry.PaymentTypeID != nil {
			paymentType = paymentTypes[*entry.PaymentTypeID]
		}

		revenue, err := s.ApplyPaidTransition(ctx, tx, exam, false, true, paymentType, entry.PaymentNote, actorID)
		if err != nil {
			return nil, err
		}

		exam.Paid = true
		exam.PaymentTypeID = entry.PaymentTypeID
		exam.PaymentNote = entry.PaymentNote
		exam.LastUpdatedAt = now
		exam.LastUpdatedBy = actorID

		resp := dto.ToExamResponse(&exam)
		if paymentType != nil {
			resp.PaymentTypeName = &paymentType.Name
		}
		if revenue != nil {
			resp.RevenueID = &revenue.RevenueID
		}
		responses = append(responses, resp)
	}

	if err := s.examRepo.Commit(ctx, tx); err != nil {
		logger.Error("Failed to commit bulk payment", slog.Int("exam_count", len(examIDs)), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Bulk payment applied", slog.Int("exam_count", len(examIDs)))
	return responses, nil
}

// GetExamByID retrieves an exam view with the payment-type display name
// resolved when one is referenced.
func (s *reconciliationService) GetExamByID(ctx context.Context, examID int64) (*dto.ExamResponse, error) {
	exam, err := s.examRepo.FindExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToExamResponse(exam)
	if exam.PaymentTypeID != nil {
		paymentType, err := s.paymentTypeRepo.FindPaymentTypeByID(ctx, *exam.PaymentTypeID)
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to resolve payment type name", slog.Int64("payment_type_id", *exam.PaymentTypeID), slog.String("error", err.Error()))
		} else {
			resp.PaymentTypeName = &paymentType.Name
		}
	}
	return &resp, nil
}

// ListExams retrieves a paginated exam listing, optionally filtered by paid
// state, with payment-type names resolved in one catalog read.
func (s *reconciliationService) ListExams(ctx context.Context, params dto.ListExamsParams) (*dto.ListExamsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	exams, nextToken, err := s.examRepo.ListExams(ctx, params.Paid, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	responses := dto.ToExamResponses(exams)

	needsNames := false
	for i := range exams {
		if exams[i].PaymentTypeID != nil {
			needsNames = true
			break
		}
	}
	if needsNames {
		catalog, err := s.paymentTypeRepo.ListPaymentTypes(ctx, false)
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to load payment type catalog", slog.String("error", err.Error()))
		} else {
			names := make(map[int64]string, len(catalog))
			for _, pt := range catalog {
				names[pt.PaymentTypeID] = pt.Name
			}
			for i := range responses {
				if responses[i].PaymentTypeID != nil {
					if name, ok := names[*responses[i].PaymentTypeID]; ok {
						nameCopy := name
						responses[i].PaymentTypeName = &nameCopy
					}
				}
			}
		}
	}

	return &dto.ListExamsResponse{
		Exams:     responses,
		NextToken: nextToken,
	}, nil
}

// ListAuditLogsByExam retrieves the audit trail of an exam, oldest first.
func (s *reconciliationService) ListAuditLogsByExam(ctx context.Context, examID int64) ([]domain.AuditLog, error) {
	if _, err := s.examRepo.FindExamByID(ctx, examID); err != nil {
		return nil, err
	}
	return s.auditRepo.FindAuditLogsByExamID(ctx, examID)
}
