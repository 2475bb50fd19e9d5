package repository

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DebtRepository defines the interface for debt data access. Debts are
// created by contract creation, mutated by payment processing and contract
// edits, and deleted by return reversal only.
type DebtRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Debt, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Debt, error)
	FindByIDWithPayments(ctx context.Context, id uint) (*models.Debt, error)
	FindByContractForUpdate(ctx context.Context, contractID uint) (*models.Debt, error)
	Create(ctx context.Context, debt *models.Debt) error
	Update(ctx context.Context, debt *models.Debt) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Debt, int64, error)
}

type debtRepository struct {
	db *gorm.DB
}

// NewDebtRepository creates a new debt repository
func NewDebtRepository(db *gorm.DB) DebtRepository {
	return &debtRepository{db: db}
}

func (r *debtRepository) FindByID(ctx context.Context, id uint) (*models.Debt, error) {
	var debt models.Debt
	if err := conn(ctx, r.db).First(&debt, id).Error; err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Debt, error) {
	var debt models.Debt
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&debt, id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepository) FindByIDWithPayments(ctx context.Context, id uint) (*models.Debt, error) {
	var debt models.Debt
	err := conn(ctx, r.db).
		Preload("Payments").
		Preload("Contract").
		First(&debt, id).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepository) FindByContractForUpdate(ctx context.Context, contractID uint) (*models.Debt, error) {
	var debt models.Debt
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("contract_id = ?", contractID).
		First(&debt).Error
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

func (r *debtRepository) Create(ctx context.Context, debt *models.Debt) error {
	return conn(ctx, r.db).Create(debt).Error
}

func (r *debtRepository) Update(ctx context.Context, debt *models.Debt) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(debt).Error
}

func (r *debtRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Delete(&models.Debt{}, id).Error
}

func (r *debtRepository) List(ctx context.Context, query *ListQuery) ([]models.Debt, int64, error) {
	var debts []models.Debt
	var total int64

	q := conn(ctx, r.db).Model(&models.Debt{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "total": true, "remaining_months": true}
	err := q.Preload("Contract").
		Order(query.Order(allowed, "created_at")).
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&debts).Error
	return debts, total, err
}
