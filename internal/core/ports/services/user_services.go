package services

import (
	"context"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// RegisterUser creates a new user with a bcrypt-hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
}

// UserAuthenticatorSvc verifies login credentials.
type UserAuthenticatorSvc interface {
	// Authenticate checks email/password and returns the user on success.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthenticatorSvc
}
