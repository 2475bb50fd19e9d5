package services

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
)

// DebtService is read-only. Debts are created by contract creation, moved by
// payment processing and removed by returns; this service only reports them.
type DebtService struct {
	repo repository.DebtRepository
}

func NewDebtService(repo repository.DebtRepository) *DebtService {
	return &DebtService{repo: repo}
}

// FindByID loads a debt with its payments and owning contract
func (s *DebtService) FindByID(ctx context.Context, id uint) (*models.Debt, error) {
	debt, err := s.repo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, notFound(err, "debt", id)
	}
	return debt, nil
}

func (s *DebtService) List(ctx context.Context, query *repository.ListQuery) ([]models.Debt, int64, error) {
	return s.repo.List(ctx, query)
}
