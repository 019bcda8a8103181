package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exam is the persistence model for the exams table.
type Exam struct {
	ExamID        int64           `json:"examID" db:"exam_id"`
	PatientName   string          `json:"patientName" db:"patient_name"`
	ExamType      string          `json:"examType" db:"exam_type"`
	ExamDate      time.Time       `json:"examDate" db:"exam_date"`
	Value         decimal.Decimal `json:"value" db:"value"`
	Paid          bool            `json:"paid" db:"paid"`
	PaymentTypeID *int64          `json:"paymentTypeID" db:"payment_type_id"`
	PaymentNote   *string         `json:"paymentNote" db:"payment_note"`
	AuditFields
}
