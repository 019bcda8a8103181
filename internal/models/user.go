package models

// User is the persistence model for the users table.
type User struct {
	UserID       string `json:"userID" db:"user_id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	AuditFields
}
