package services

import (
	"context"
	"fmt"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
)

// CreateProductInput registers a stocked item. When SellerID is set the
// initial quantity is recorded as a purchase from that seller and the
// seller's balance is credited with quantity × buyPrice.
type CreateProductInput struct {
	Name        string
	Unit        string
	Description *string
	BuyPrice    int64
	SellPrice   *int64
	Quantity    int
	SellerID    *uint
	Comment     *string
	CreatedBy   uint
}

// RestockInput records a stock intake for an existing product
type RestockInput struct {
	Quantity  int
	BuyPrice  *int64
	SellerID  *uint
	Comment   *string
	CreatedBy uint
}

// UpdateProductInput carries the mutable catalog fields. Nil means unchanged.
// Quantity is not editable here; stock moves only through purchases,
// contracts and returns.
type UpdateProductInput struct {
	Name        *string
	Unit        *string
	Description *string
	SellPrice   *int64
	UpdatedBy   uint
}

// ProductService manages the product catalog and stock intakes.
type ProductService struct {
	repo         repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	partnerRepo  repository.PartnerRepository
	auditSvc     *AuditService
	txm          repository.TxManager
}

func NewProductService(
	repo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	partnerRepo repository.PartnerRepository,
	auditSvc *AuditService,
	txm repository.TxManager,
) *ProductService {
	return &ProductService{
		repo:         repo,
		purchaseRepo: purchaseRepo,
		partnerRepo:  partnerRepo,
		auditSvc:     auditSvc,
		txm:          txm,
	}
}

func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if input.BuyPrice <= 0 {
		return nil, fmt.Errorf("%w: buy price must be positive", ErrValidation)
	}
	if input.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	sellPrice := defaultSellPrice(input.BuyPrice)
	if input.SellPrice != nil {
		if *input.SellPrice <= 0 {
			return nil, fmt.Errorf("%w: sell price must be positive", ErrValidation)
		}
		sellPrice = *input.SellPrice
	}

	product := &models.Product{
		Name:        input.Name,
		Unit:        input.Unit,
		Description: input.Description,
		BuyPrice:    input.BuyPrice,
		SellPrice:   sellPrice,
		Quantity:    input.Quantity,
		IsActive:    input.Quantity > 0,
		CreatedByID: input.CreatedBy,
	}

	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, product); err != nil {
			return err
		}
		if input.Quantity > 0 {
			if err := s.recordIntake(ctx, product, input.Quantity, input.BuyPrice, input.SellerID, input.Comment, input.CreatedBy); err != nil {
				return err
			}
		}
		return s.auditSvc.Log(ctx, input.CreatedBy, product.TableName(), product.ID, models.ActionCreate, nil, product, "")
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Restock(ctx context.Context, id uint, input RestockInput) (*models.Product, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", ErrValidation)
	}

	var product *models.Product
	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "product", id)
		}
		before := *product

		buyPrice := product.BuyPrice
		if input.BuyPrice != nil {
			if *input.BuyPrice <= 0 {
				return fmt.Errorf("%w: buy price must be positive", ErrValidation)
			}
			buyPrice = *input.BuyPrice
			product.BuyPrice = buyPrice
		}

		product.AdjustQuantity(input.Quantity)
		if err := s.repo.Update(ctx, product); err != nil {
			return err
		}
		if err := s.recordIntake(ctx, product, input.Quantity, buyPrice, input.SellerID, input.Comment, input.CreatedBy); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.CreatedBy, product.TableName(), product.ID, models.ActionUpdate, &before, product, "restock")
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// recordIntake writes the purchase row and, when a seller is named, credits
// their balance with the amount now owed to them.
func (s *ProductService) recordIntake(ctx context.Context, product *models.Product, quantity int, buyPrice int64, sellerID *uint, comment *string, createdBy uint) error {
	purchase := &models.Purchase{
		ProductID:   product.ID,
		PartnerID:   sellerID,
		Quantity:    quantity,
		BuyPrice:    buyPrice,
		Comment:     comment,
		CreatedByID: createdBy,
	}

	if sellerID != nil {
		seller, err := s.partnerRepo.FindByIDForUpdate(ctx, *sellerID)
		if err != nil {
			return notFound(err, "partner", *sellerID)
		}
		if !seller.IsSeller() {
			return fmt.Errorf("%w: partner %d is not a seller", ErrValidation, seller.ID)
		}
		if err := s.partnerRepo.AdjustBalance(ctx, seller.ID, purchase.Total()); err != nil {
			return err
		}
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, createdBy, purchase.TableName(), purchase.ID, models.ActionCreate, nil, purchase, "")
}

func (s *ProductService) Update(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error) {
	var product *models.Product

	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "product", id)
		}
		before := *product

		if input.Name != nil {
			if *input.Name == "" {
				return fmt.Errorf("%w: product name cannot be empty", ErrValidation)
			}
			product.Name = *input.Name
		}
		if input.Unit != nil {
			product.Unit = *input.Unit
		}
		if input.Description != nil {
			product.Description = input.Description
		}
		if input.SellPrice != nil {
			if *input.SellPrice <= 0 {
				return fmt.Errorf("%w: sell price must be positive", ErrValidation)
			}
			product.SellPrice = *input.SellPrice
		}

		if err := s.repo.Update(ctx, product); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.UpdatedBy, product.TableName(), product.ID, models.ActionUpdate, &before, product, "")
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, query *repository.ListQuery) ([]models.Product, int64, error) {
	return s.repo.List(ctx, query)
}

// defaultSellPrice applies the standard 30 percent markup over cost.
func defaultSellPrice(buyPrice int64) int64 {
	return buyPrice + buyPrice*30/100
}
