package repository

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"gorm.io/gorm"
)

// ReturnRepository defines the interface for product return data access
type ReturnRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ProductReturn, error)
	Create(ctx context.Context, productReturn *models.ProductReturn) error
	List(ctx context.Context, query *ListQuery) ([]models.ProductReturn, int64, error)
}

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new product return repository
func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) FindByID(ctx context.Context, id uint) (*models.ProductReturn, error) {
	var productReturn models.ProductReturn
	err := conn(ctx, r.db).
		Preload("Contract").
		Preload("Reason").
		First(&productReturn, id).Error
	if err != nil {
		return nil, err
	}
	return &productReturn, nil
}

func (r *returnRepository) Create(ctx context.Context, productReturn *models.ProductReturn) error {
	return conn(ctx, r.db).Create(productReturn).Error
}

func (r *returnRepository) List(ctx context.Context, query *ListQuery) ([]models.ProductReturn, int64, error) {
	var returns []models.ProductReturn
	var total int64

	q := conn(ctx, r.db).Model(&models.ProductReturn{})
	if contractID := query.Filters["contract_id"]; contractID != "" {
		q = q.Where("contract_id = ?", contractID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Reason").
		Order("created_at desc").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&returns).Error
	return returns, total, err
}

// ReasonRepository looks up return reasons. Reasons are reference data;
// there is no write path here.
type ReasonRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Reason, error)
	FindAll(ctx context.Context) ([]models.Reason, error)
}

type reasonRepository struct {
	db *gorm.DB
}

// NewReasonRepository creates a new reason repository
func NewReasonRepository(db *gorm.DB) ReasonRepository {
	return &reasonRepository{db: db}
}

func (r *reasonRepository) FindByID(ctx context.Context, id uint) (*models.Reason, error) {
	var reason models.Reason
	if err := conn(ctx, r.db).First(&reason, id).Error; err != nil {
		return nil, err
	}
	return &reason, nil
}

func (r *reasonRepository) FindAll(ctx context.Context) ([]models.Reason, error) {
	var reasons []models.Reason
	err := conn(ctx, r.db).Order("name asc").Find(&reasons).Error
	return reasons, err
}
