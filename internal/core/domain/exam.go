package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exam represents a clinical exam together with its billing state.
// The value is fixed at creation; the payment fields are only mutated by the
// reconciliation engine's mark/unmark operations.
type Exam struct {
	ExamID        int64           `json:"examID"`
	PatientName   string          `json:"patientName"`
	ExamType      string          `json:"examType"`
	ExamDate      time.Time       `json:"examDate"`
	Value         decimal.Decimal `json:"value"`
	Paid          bool            `json:"paid"`
	PaymentTypeID *int64          `json:"paymentTypeID,omitempty"`
	PaymentNote   *string         `json:"paymentNote,omitempty"`
	AuditFields
}
