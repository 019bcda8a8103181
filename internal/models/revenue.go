package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueStatus mirrors domain.RevenueStatus at the persistence layer.
type RevenueStatus string

const (
	RevenueReceived    RevenueStatus = "RECEIVED"
	RevenuePending     RevenueStatus = "PENDING"
	RevenueInstallment RevenueStatus = "INSTALLMENT"
)

// Revenue is the persistence model for the revenues table.
type Revenue struct {
	RevenueID     int64           `json:"revenueID" db:"revenue_id"`
	ExamID        *int64          `json:"examID" db:"exam_id"`
	Description   string          `json:"description" db:"description"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod string          `json:"paymentMethod" db:"payment_method"`
	Status        RevenueStatus   `json:"status" db:"status"`
	DueDate       time.Time       `json:"dueDate" db:"due_date"`
	ReceivedDate  time.Time       `json:"receivedDate" db:"received_date"`
	Notes         string          `json:"notes" db:"notes"`
	AuditFields
}
