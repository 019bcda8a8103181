package domain

// PaymentType is a catalog entry for a named method of payment (cash, card,
// transfer, ...). Entries can be deactivated, which only blocks new selections;
// exams already referencing the entry keep their reference.
type PaymentType struct {
	PaymentTypeID int64  `json:"paymentTypeID"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	AuditFields
}
