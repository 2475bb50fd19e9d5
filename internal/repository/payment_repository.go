package repository

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository defines the interface for payment data access.
// SumAmountByDebt backs the conservation check: paid amount plus remaining
// debt must always equal the contract's start total.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Payment, error)
	FindByDebt(ctx context.Context, debtID uint) ([]models.Payment, error)
	SumAmountByDebt(ctx context.Context, debtID uint) (int64, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(ctx, r.db).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByDebt(ctx context.Context, debtID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := conn(ctx, r.db).
		Where("debt_id = ?", debtID).
		Order("created_at asc").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) SumAmountByDebt(ctx context.Context, debtID uint) (int64, error) {
	var sum int64
	err := conn(ctx, r.db).Model(&models.Payment{}).
		Where("debt_id = ?", debtID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return conn(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Delete(&models.Payment{}, id).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	q := conn(ctx, r.db).Model(&models.Payment{})
	if partnerID := query.Filters["partner_id"]; partnerID != "" {
		q = q.Where("partner_id = ?", partnerID)
	}
	if direction := query.Filters["direction"]; direction != "" {
		q = q.Where("direction = ?", direction)
	}
	if debtID := query.Filters["debt_id"]; debtID != "" {
		q = q.Where("debt_id = ?", debtID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "amount": true}
	err := q.Preload("Partner").
		Order(query.Order(allowed, "created_at")).
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&payments).Error
	return payments, total, err
}
