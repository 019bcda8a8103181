package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	ExamRepo        ExamRepositoryWithTx
	PaymentTypeRepo PaymentTypeRepositoryFacade
	RevenueRepo     RevenueRepositoryFacade
	AuditLogRepo    AuditLogRepositoryFacade
	UserRepo        UserRepositoryFacade
}
