package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueStatus indicates the settlement state of a revenue entry.
type RevenueStatus string

const (
	RevenueReceived    RevenueStatus = "RECEIVED"
	RevenuePending     RevenueStatus = "PENDING"
	RevenueInstallment RevenueStatus = "INSTALLMENT"
)

// Revenue is a ledger record representing money received, optionally traceable
// to the exam that generated it. The exam reference is nullable so a revenue
// can outlive a deleted exam. Entries produced by the reconciliation engine
// always carry status RECEIVED and are never updated afterwards.
type Revenue struct {
	RevenueID     int64           `json:"revenueID"`
	ExamID        *int64          `json:"examID,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        RevenueStatus   `json:"status"`
	DueDate       time.Time       `json:"dueDate"`
	ReceivedDate  time.Time       `json:"receivedDate"`
	Notes         string          `json:"notes,omitempty"`
	AuditFields
}
