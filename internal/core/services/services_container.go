package services

import (
	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.PaymentType = NewPaymentTypeService(repos.PaymentTypeRepo)
	container.Revenue = NewRevenueService(repos.RevenueRepo, repos.ExamRepo)
	container.Reconciliation = NewReconciliationService(
		repos.ExamRepo,
		repos.PaymentTypeRepo,
		repos.RevenueRepo,
		repos.AuditLogRepo,
	)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}
