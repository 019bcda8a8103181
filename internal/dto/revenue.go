package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
)

// RevenueResponse defines the data returned for a revenue ledger entry.
type RevenueResponse struct {
	RevenueID     int64           `json:"revenueID"`
	ExamID        *int64          `json:"examID,omitempty"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	DueDate       time.Time       `json:"dueDate"`
	ReceivedDate  time.Time       `json:"receivedDate"`
	Notes         string          `json:"notes,omitempty"`
}

// ListRevenuesParams holds the query parameters for listing revenues.
type ListRevenuesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListRevenuesResponse is the paginated revenue listing payload.
type ListRevenuesResponse struct {
	Revenues  []RevenueResponse `json:"revenues"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToRevenueResponse converts a domain.Revenue to its response DTO.
func ToRevenueResponse(r *domain.Revenue) RevenueResponse {
	return RevenueResponse{
		RevenueID:     r.RevenueID,
		ExamID:        r.ExamID,
		Description:   r.Description,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		Status:        string(r.Status),
		DueDate:       r.DueDate,
		ReceivedDate:  r.ReceivedDate,
		Notes:         r.Notes,
	}
}

// ToRevenueResponses converts a slice of domain revenues to DTOs.
func ToRevenueResponses(revenues []domain.Revenue) []RevenueResponse {
	responses := make([]RevenueResponse, len(revenues))
	for i := range revenues {
		responses[i] = ToRevenueResponse(&revenues[i])
	}
	return responses
}
