package repository

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PartnerRepository defines the interface for partner data access.
// AdjustBalance is the only way partner balances change; callers must hold
// the row lock (FindByIDForUpdate) inside the enclosing transaction.
type PartnerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Partner, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Partner, error)
	FindByPhone(ctx context.Context, phone string) (*models.Partner, error)
	Create(ctx context.Context, partner *models.Partner) error
	Update(ctx context.Context, partner *models.Partner) error
	AdjustBalance(ctx context.Context, id uint, delta int64) error
	List(ctx context.Context, query *ListQuery) ([]models.Partner, int64, error)
}

type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) FindByID(ctx context.Context, id uint) (*models.Partner, error) {
	var partner models.Partner
	if err := conn(ctx, r.db).First(&partner, id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Partner, error) {
	var partner models.Partner
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&partner, id).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) FindByPhone(ctx context.Context, phone string) (*models.Partner, error) {
	var partner models.Partner
	if err := conn(ctx, r.db).Where("phone = ?", phone).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	return conn(ctx, r.db).Create(partner).Error
}

func (r *partnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	return conn(ctx, r.db).Save(partner).Error
}

func (r *partnerRepository) AdjustBalance(ctx context.Context, id uint, delta int64) error {
	return conn(ctx, r.db).Model(&models.Partner{}).
		Where("id = ?", id).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta)).Error
}

func (r *partnerRepository) List(ctx context.Context, query *ListQuery) ([]models.Partner, int64, error) {
	var partners []models.Partner
	var total int64

	q := conn(ctx, r.db).Model(&models.Partner{})
	if query.Search != "" {
		q = q.Where("full_name ILIKE ?", "%"+query.Search+"%")
	}
	if role := query.Filters["role"]; role != "" {
		q = q.Where("role = ?", role)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "full_name": true, "balance": true}
	err := q.Order(query.Order(allowed, "created_at")).
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&partners).Error
	return partners, total, err
}
