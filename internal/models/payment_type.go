package models

// PaymentType is the persistence model for the payment_types lookup table.
type PaymentType struct {
	PaymentTypeID int64  `json:"paymentTypeID" db:"payment_type_id"`
	Name          string `json:"name" db:"name"`
	Active        bool   `json:"active" db:"active"`
	AuditFields
}
