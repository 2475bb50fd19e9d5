package repository

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the interface for product stock access. Stock
// checks that feed a decrement must go through FindByIDForUpdate so two
// concurrent contracts cannot both pass the same availability check.
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, query *ListQuery) ([]models.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := conn(ctx, r.db).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

func (r *productRepository) List(ctx context.Context, query *ListQuery) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	q := conn(ctx, r.db).Model(&models.Product{})
	if query.Search != "" {
		q = q.Where("name ILIKE ?", "%"+query.Search+"%")
	}
	if active := query.Filters["is_active"]; active != "" {
		q = q.Where("is_active = ?", active == "true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	allowed := map[string]bool{"created_at": true, "name": true, "quantity": true, "sell_price": true}
	err := q.Order(query.Order(allowed, "created_at")).
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&products).Error
	return products, total, err
}

// PurchaseRepository records stock intakes from seller partners.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	FindByProduct(ctx context.Context, productID uint) ([]models.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return conn(ctx, r.db).Create(purchase).Error
}

func (r *purchaseRepository) FindByProduct(ctx context.Context, productID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := conn(ctx, r.db).
		Where("product_id = ?", productID).
		Preload("Partner").
		Order("created_at desc").
		Find(&purchases).Error
	return purchases, err
}
