package services

// TokenSvcFacade issues access tokens for authenticated users.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT for the given user id.
	GenerateAccessToken(userID string) (string, error)
}
