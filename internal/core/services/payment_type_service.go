package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
	"github.com/cliniclabs/clinic_billing_app/internal/middleware"
)

// paymentTypeService manages the payment-type catalog.
type paymentTypeService struct {
	paymentTypeRepo portsrepo.PaymentTypeRepositoryFacade
}

// NewPaymentTypeService creates a new payment-type service.
func NewPaymentTypeService(paymentTypeRepo portsrepo.PaymentTypeRepositoryFacade) portssvc.PaymentTypeSvcFacade {
	return &paymentTypeService{paymentTypeRepo: paymentTypeRepo}
}

var _ portssvc.PaymentTypeSvcFacade = (*paymentTypeService)(nil)

func (s *paymentTypeService) GetPaymentTypeByID(ctx context.Context, paymentTypeID int64) (*domain.PaymentType, error) {
	return s.paymentTypeRepo.FindPaymentTypeByID(ctx, paymentTypeID)
}

func (s *paymentTypeService) ListPaymentTypes(ctx context.Context, onlyActive bool) ([]domain.PaymentType, error) {
	return s.paymentTypeRepo.ListPaymentTypes(ctx, onlyActive)
}

// CreatePaymentType persists a new catalog entry. New entries are active
// unless the request says otherwise.
func (s *paymentTypeService) CreatePaymentType(ctx context.Context, req dto.CreatePaymentTypeRequest, creatorUserID string) (*domain.PaymentType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	paymentType := domain.PaymentType{
		Name:   req.Name,
		Active: active,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	saved, err := s.paymentTypeRepo.SavePaymentType(ctx, paymentType)
	if err != nil {
		logger.Error("Failed to save payment type", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Payment type created", slog.Int64("payment_type_id", saved.PaymentTypeID), slog.String("name", saved.Name))
	return saved, nil
}

// UpdatePaymentType updates the name and/or active flag of a catalog entry.
// Deactivating an entry only blocks new selections; exams that already
// reference it are left as is.
func (s *paymentTypeService) UpdatePaymentType(ctx context.Context, paymentTypeID int64, req dto.UpdatePaymentTypeRequest, updaterUserID string) (*domain.PaymentType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	paymentType, err := s.paymentTypeRepo.FindPaymentTypeByID(ctx, paymentTypeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		paymentType.Name = *req.Name
	}
	if req.Active != nil {
		paymentType.Active = *req.Active
	}
	paymentType.LastUpdatedAt = time.Now().UTC()
	paymentType.LastUpdatedBy = updaterUserID

	if err := s.paymentTypeRepo.UpdatePaymentType(ctx, *paymentType); err != nil {
		logger.Error("Failed to update payment type", slog.Int64("payment_type_id", paymentTypeID), slog.String("error", err.Error()))
		return nil, err
	}

	return paymentType, nil
}
