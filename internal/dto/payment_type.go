package dto

import "github.com/cliniclabs/clinic_billing_app/internal/core/domain"

// CreatePaymentTypeRequest defines the payload for creating a catalog entry.
type CreatePaymentTypeRequest struct {
	Name   string `json:"name" binding:"required,max=50"`
	Active *bool  `json:"active,omitempty"`
}

// UpdatePaymentTypeRequest defines the payload for updating a catalog entry.
// Nil fields are left unchanged.
type UpdatePaymentTypeRequest struct {
	Name   *string `json:"name,omitempty" binding:"omitempty,max=50"`
	Active *bool   `json:"active,omitempty"`
}

// PaymentTypeResponse defines the data returned for a catalog entry.
type PaymentTypeResponse struct {
	PaymentTypeID int64  `json:"paymentTypeID"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
}

// ToPaymentTypeResponse converts a domain.PaymentType to its response DTO.
func ToPaymentTypeResponse(pt *domain.PaymentType) PaymentTypeResponse {
	return PaymentTypeResponse{
		PaymentTypeID: pt.PaymentTypeID,
		Name:          pt.Name,
		Active:        pt.Active,
	}
}

// ToPaymentTypeResponses converts a slice of domain payment types to DTOs.
func ToPaymentTypeResponses(pts []domain.PaymentType) []PaymentTypeResponse {
	responses := make([]PaymentTypeResponse, len(pts))
	for i := range pts {
		responses[i] = ToPaymentTypeResponse(&pts[i])
	}
	return responses
}
