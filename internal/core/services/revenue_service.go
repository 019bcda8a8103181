package services

import (
	"context"

	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
)

// revenueService exposes the revenue ledger read surface. Entries are only
// written by the reconciliation engine.
type revenueService struct {
	revenueRepo portsrepo.RevenueRepositoryFacade
	examRepo    portsrepo.ExamRepositoryWithTx
}

// NewRevenueService creates a new revenue service.
func NewRevenueService(revenueRepo portsrepo.RevenueRepositoryFacade, examRepo portsrepo.ExamRepositoryWithTx) portssvc.RevenueSvcFacade {
	return &revenueService{revenueRepo: revenueRepo, examRepo: examRepo}
}

var _ portssvc.RevenueSvcFacade = (*revenueService)(nil)

func (s *revenueService) ListRevenues(ctx context.Context, params dto.ListRevenuesParams) (*dto.ListRevenuesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	revenues, nextToken, err := s.revenueRepo.ListRevenues(ctx, limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	return &dto.ListRevenuesResponse{
		Revenues:  dto.ToRevenueResponses(revenues),
		NextToken: nextToken,
	}, nil
}

func (s *revenueService) ListRevenuesByExam(ctx context.Context, examID int64) ([]dto.RevenueResponse, error) {
	if _, err := s.examRepo.FindExamByID(ctx, examID); err != nil {
		return nil, err
	}

	revenues, err := s.revenueRepo.FindRevenuesByExamID(ctx, examID)
	if err != nil {
		return nil, err
	}
	return dto.ToRevenueResponses(revenues), nil
}
