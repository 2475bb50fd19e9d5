package repository

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contract, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Contract, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error)
	FindItems(ctx context.Context, contractID uint) ([]models.ContractItem, error)
	Create(ctx context.Context, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	UpdateItem(ctx context.Context, item *models.ContractItem) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Contract, int64, error)
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	if err := conn(ctx, r.db).First(&contract, id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := conn(ctx, r.db).
		Preload("Partner").
		Preload("Items.Product").
		Preload("Debt").
		Preload("Returns.Reason").
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindItems(ctx context.Context, contractID uint) ([]models.ContractItem, error) {
	var items []models.ContractItem
	err := conn(ctx, r.db).
		Where("contract_id = ?", contractID).
		Order("id asc").
		Find(&items).Error
	return items, err
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return conn(ctx, r.db).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	// Omit associations so a status or total change cannot resurrect stale
	// item or debt rows loaded earlier in the transaction.
	return conn(ctx, r.db).Omit(clause.Associations).Save(contract).Error
}

func (r *contractRepository) UpdateItem(ctx context.Context, item *models.ContractItem) error {
	return conn(ctx, r.db).Save(item).Error
}

func (r *contractRepository) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, r.db)
	if err := db.Where("contract_id = ?", id).Delete(&models.ContractItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("contract_id = ?", id).Delete(&models.ProductReturn{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Contract{}, id).Error
}

func (r *contractRepository) List(ctx context.Context, query *ListQuery) ([]models.Contract, int64, error) {
	var contracts []models.Contract
	var total int64

	q := conn(ctx, r.db).Model(&models.Contract{})
	if query.Search != "" {
		q = q.Joins("JOIN partners ON partners.id = contracts.partner_id").
			Where("partners.full_name ILIKE ?", "%"+query.Search+"%")
	}
	if status := query.Filters["status"]; status != "" {
		q = q.Where("contracts.status = ?", status)
	}
	if partnerID := query.Filters["partner_id"]; partnerID != "" {
		q = q.Where("contracts.partner_id = ?", partnerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "start_total": true, "status": true}
	err := q.Preload("Partner").
		Preload("Debt").
		Order("contracts."+query.Order(allowed, "created_at")).
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&contracts).Error
	return contracts, total, err
}
