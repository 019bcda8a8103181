package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/core/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
	"github.com/cliniclabs/clinic_billing_app/internal/middleware"
)

// examHandler handles HTTP requests related to exams and their payments.
type examHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	revenueService        portssvc.RevenueSvcFacade
}

// newExamHandler creates a new examHandler.
func newExamHandler(reconciliationService portssvc.ReconciliationSvcFacade, revenueService portssvc.RevenueSvcFacade) *examHandler {
	return &examHandler{
		reconciliationService: reconciliationService,
		revenueService:        revenueService,
	}
}

// RegisterExamRoutes registers all exam-related routes.
func RegisterExamRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade, revenueService portssvc.RevenueSvcFacade) {
	h := newExamHandler(reconciliationService, revenueService)

	exams := rg.Group("/exams")
	{
		exams.POST("", h.createExam)
		exams.GET("", h.listExams)
		exams.GET("/:examID", h.getExam)
		exams.POST("/:examID/payment", h.markExamPaid)
		exams.DELETE("/:examID/payment", h.unmarkExamPaid)
		exams.POST("/payments/bulk", h.markExamsPaidBulk)
		exams.GET("/:examID/revenues", h.listExamRevenues)
		exams.GET("/:examID/audit-logs", h.listExamAuditLogs)
	}
}

func parseExamID(c *gin.Context) (int64, bool) {
	examID, err := strconv.ParseInt(c.Param("examID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam ID"})
		return 0, false
	}
	return examID, true
}

// respondPaymentError maps reconciliation errors to HTTP responses.
func respondPaymentError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Exam not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyPaid):
		logger.Warn("Exam already paid", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotPaid):
		logger.Warn("Exam not paid", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPaymentType):
		logger.Warn("Invalid payment type", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Operation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// createExam godoc
// @Summary Create an exam
// @Description Creates an exam with an optional initial paid state. Creating an exam already paid materializes a revenue entry in the same transaction.
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body dto.CreateExamRequest true "Exam details"
// @Success 201 {object} dto.ExamResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} map[string]string "Invalid payment type"
// @Router /exams [post]
func (h *examHandler) createExam(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createExam", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	exam, err := h.reconciliationService.CreateExamWithPayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondPaymentError(c, logger, err, "createExam")
		return
	}

	c.JSON(http.StatusCreated, exam)
}

// listExams godoc
// @Summary List exams
// @Description Retrieves a paginated exam listing, optionally filtered by paid state.
// @Tags exams
// @Produce json
// @Param paid query bool false "Filter by paid state"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListExamsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /exams [get]
func (h *examHandler) listExams(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExamsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.reconciliationService.ListExams(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list exams", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exams"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getExam godoc
// @Summary Get an exam
// @Description Retrieves an exam with its resolved payment-type name.
// @Tags exams
// @Produce json
// @Param examID path int true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} map[string]string "Exam not found"
// @Router /exams/{examID} [get]
func (h *examHandler) getExam(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	exam, err := h.reconciliationService.GetExamByID(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		logger.Error("Failed to get exam", slog.Int64("exam_id", examID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exam"})
		return
	}

	c.JSON(http.StatusOK, exam)
}

// markExamPaid godoc
// @Summary Mark an exam as paid
// @Description Transitions an exam from unpaid to paid, creating a revenue entry and an audit record in one transaction.
// @Tags exams
// @Accept json
// @Produce json
// @Param examID path int true "Exam ID"
// @Param payment body dto.MarkExamPaidRequest true "Payment details"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} map[string]string "Exam not found"
// @Failure 409 {object} map[string]string "Exam already paid"
// @Failure 422 {object} map[string]string "Invalid payment type"
// @Router /exams/{examID}/payment [post]
func (h *examHandler) markExamPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	var req dto.MarkExamPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for markExamPaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	exam, err := h.reconciliationService.MarkExamPaid(c.Request.Context(), examID, req, actorID)
	if err != nil {
		respondPaymentError(c, logger, err, "markExamPaid")
		return
	}

	c.JSON(http.StatusOK, exam)
}

// unmarkExamPaid godoc
// @Summary Revert an exam's payment
// @Description Sets the exam back to unpaid, clearing the payment-type reference and note. Revenue entries created by the original payment are left untouched.
// @Tags exams
// @Produce json
// @Param examID path int true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} map[string]string "Exam not found"
// @Failure 409 {object} map[string]string "Exam not paid"
// @Router /exams/{examID}/payment [delete]
func (h *examHandler) unmarkExamPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	exam, err := h.reconciliationService.UnmarkExamPaid(c.Request.Context(), examID, actorID)
	if err != nil {
		respondPaymentError(c, logger, err, "unmarkExamPaid")
		return
	}

	c.JSON(http.StatusOK, exam)
}

// markExamsPaidBulk godoc
// @Summary Mark a batch of exams as paid
// @Description Settles a batch of exams with all-or-nothing semantics; any missing exam, already-paid exam or invalid payment type rejects the whole batch.
// @Tags exams
// @Accept json
// @Produce json
// @Param batch body dto.BulkMarkPaidRequest true "Batch payment details"
// @Success 200 {object} []dto.ExamResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "One or more exams not found"
// @Failure 409 {object} map[string]string "One or more exams already paid"
// @Failure 422 {object} map[string]string "Invalid payment type"
// @Router /exams/payments/bulk [post]
func (h *examHandler) markExamsPaidBulk(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BulkMarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for markExamsPaidBulk", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	exams, err := h.reconciliationService.MarkExamsPaidBulk(c.Request.Context(), req, actorID)
	if err != nil {
		respondPaymentError(c, logger, err, "markExamsPaidBulk")
		return
	}

	c.JSON(http.StatusOK, exams)
}

// listExamRevenues godoc
// @Summary List revenue entries of an exam
// @Description Retrieves the revenue ledger entries linked to an exam.
// @Tags exams
// @Produce json
// @Param examID path int true "Exam ID"
// @Success 200 {object} []dto.RevenueResponse
// @Failure 404 {object} map[string]string "Exam not found"
// @Router /exams/{examID}/revenues [get]
func (h *examHandler) listExamRevenues(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	revenues, err := h.revenueService.ListRevenuesByExam(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		logger.Error("Failed to list exam revenues", slog.Int64("exam_id", examID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list revenues"})
		return
	}

	c.JSON(http.StatusOK, revenues)
}

// listExamAuditLogs godoc
// @Summary List audit entries of an exam
// @Description Retrieves the payment audit trail of an exam, oldest first.
// @Tags exams
// @Produce json
// @Param examID path int true "Exam ID"
// @Success 200 {object} []domain.AuditLog
// @Failure 404 {object} map[string]string "Exam not found"
// @Router /exams/{examID}/audit-logs [get]
func (h *examHandler) listExamAuditLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	logs, err := h.reconciliationService.ListAuditLogsByExam(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
			return
		}
		logger.Error("Failed to list exam audit logs", slog.Int64("exam_id", examID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
