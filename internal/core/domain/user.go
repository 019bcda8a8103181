package domain

// UserRole classifies what a user may do in the clinic back office.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleReception UserRole = "RECEPTION"
)

// User represents a back-office user of the application. Users act as the
// actors referenced by the audit trail.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
}
