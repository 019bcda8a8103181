package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
)

// CreateExamRequest defines the payload for creating an exam, optionally
// already paid.
type CreateExamRequest struct {
	PatientName   string          `json:"patientName" binding:"required,max=100"`
	ExamType      string          `json:"examType" binding:"required,max=100"`
	ExamDate      time.Time       `json:"examDate" binding:"required"`
	Value         decimal.Decimal `json:"value" binding:"required"`
	Paid          bool            `json:"paid"`
	PaymentTypeID *int64          `json:"paymentTypeID,omitempty"`
	PaymentNote   *string         `json:"paymentNote,omitempty" binding:"omitempty,max=255"`
}

// MarkExamPaidRequest defines the payload for marking a single exam as paid.
// The payment type is optional; without one the revenue method defaults to cash.
type MarkExamPaidRequest struct {
	PaymentTypeID *int64  `json:"paymentTypeID,omitempty"`
	PaymentNote   *string `json:"paymentNote,omitempty" binding:"omitempty,max=255"`
}

// BulkMarkPaidEntry is one element of a bulk mark-as-paid request.
type BulkMarkPaidEntry struct {
	ExamID        int64   `json:"examID" binding:"required"`
	Paid          bool    `json:"paid"`
	PaymentTypeID *int64  `json:"paymentTypeID,omitempty"`
	PaymentNote   *string `json:"paymentNote,omitempty" binding:"omitempty,max=255"`
}

// BulkMarkPaidRequest defines the payload for the all-or-nothing batch
// settlement of multiple exams.
type BulkMarkPaidRequest struct {
	Exams []BulkMarkPaidEntry `json:"exams" binding:"required,min=1,dive"`
}

// ExamResponse defines the exam view returned by the engine's operations.
// RevenueID is only set on responses of operations that created a revenue
// entry as part of the call.
type ExamResponse struct {
	ExamID          int64           `json:"examID"`
	PatientName     string          `json:"patientName"`
	ExamType        string          `json:"examType"`
	ExamDate        time.Time       `json:"examDate"`
	Value           decimal.Decimal `json:"value"`
	Paid            bool            `json:"paid"`
	PaymentTypeID   *int64          `json:"paymentTypeID,omitempty"`
	PaymentTypeName *string         `json:"paymentTypeName,omitempty"`
	PaymentNote     *string         `json:"paymentNote,omitempty"`
	RevenueID       *int64          `json:"revenueID,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// ListExamsParams holds the query parameters for listing exams.
type ListExamsParams struct {
	Paid      *bool   `form:"paid"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListExamsResponse is the paginated exam listing payload.
type ListExamsResponse struct {
	Exams     []ExamResponse `json:"exams"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToExamResponse converts a domain.Exam to its response DTO.
func ToExamResponse(e *domain.Exam) ExamResponse {
	return ExamResponse{
		ExamID:        e.ExamID,
		PatientName:   e.PatientName,
		ExamType:      e.ExamType,
		ExamDate:      e.ExamDate,
		Value:         e.Value,
		Paid:          e.Paid,
		PaymentTypeID: e.PaymentTypeID,
		PaymentNote:   e.PaymentNote,
		CreatedAt:     e.CreatedAt,
		LastUpdatedAt: e.LastUpdatedAt,
	}
}

// ToExamResponses converts a slice of domain exams to response DTOs.
func ToExamResponses(exams []domain.Exam) []ExamResponse {
	responses := make([]ExamResponse, len(exams))
	for i := range exams {
		responses[i] = ToExamResponse(&exams[i])
	}
	return responses
}
