package services

import (
	"context"
	"fmt"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"github.com/nasiya-uz/nasiya-api/internal/statemachine"
)

// ContractItemInput is one requested product line
type ContractItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateContractInput opens an installment contract for a customer partner
type CreateContractInput struct {
	PartnerID       uint
	RepaymentPeriod int
	Items           []ContractItemInput
	CreatedBy       uint
}

// UpdateContractInput edits an ongoing contract. Nil fields stay unchanged;
// Items, when present, must list every line of the contract with its new
// quantity (lines cannot be added or dropped after creation).
type UpdateContractInput struct {
	RepaymentPeriod *int
	Items           []ContractItemInput
	UpdatedBy       uint
}

// ContractService opens, edits and removes installment contracts. Every
// mutation runs in one serializable transaction covering the contract, its
// debt, the product stock and the partner balance, and verifies the
// conservation rule before committing.
type ContractService struct {
	repo        repository.ContractRepository
	debtRepo    repository.DebtRepository
	paymentRepo repository.PaymentRepository
	productRepo repository.ProductRepository
	partnerRepo repository.PartnerRepository
	auditSvc    *AuditService
	txm         repository.TxManager
}

func NewContractService(
	repo repository.ContractRepository,
	debtRepo repository.DebtRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	partnerRepo repository.PartnerRepository,
	auditSvc *AuditService,
	txm repository.TxManager,
) *ContractService {
	return &ContractService{
		repo:        repo,
		debtRepo:    debtRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		partnerRepo: partnerRepo,
		auditSvc:    auditSvc,
		txm:         txm,
	}
}

func (s *ContractService) Create(ctx context.Context, input CreateContractInput) (*models.Contract, error) {
	if input.RepaymentPeriod <= 0 {
		return nil, fmt.Errorf("%w: repayment period must be positive", ErrValidation)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: contract needs at least one item", ErrValidation)
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
	}

	var contract *models.Contract
	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		partner, err := s.partnerRepo.FindByIDForUpdate(ctx, input.PartnerID)
		if err != nil {
			return notFound(err, "partner", input.PartnerID)
		}
		if !partner.IsCustomer() {
			return fmt.Errorf("%w: contracts cannot be issued to partner %d in role %s", ErrConflict, partner.ID, partner.Role)
		}
		if !partner.IsActive {
			return fmt.Errorf("%w: partner %d is inactive", ErrValidation, partner.ID)
		}

		// Lock each product, reserve the stock and price the line at the
		// current sell price.
		items := make([]models.ContractItem, 0, len(input.Items))
		var startTotal int64
		for _, in := range input.Items {
			product, err := s.productRepo.FindByIDForUpdate(ctx, in.ProductID)
			if err != nil {
				return notFound(err, "product", in.ProductID)
			}
			if !product.HasStock(in.Quantity) {
				return fmt.Errorf("%w: product %d has %d in stock, %d requested", ErrValidation, product.ID, product.Quantity, in.Quantity)
			}
			product.AdjustQuantity(-in.Quantity)
			if err := s.productRepo.Update(ctx, product); err != nil {
				return err
			}

			items = append(items, models.ContractItem{
				ProductID: product.ID,
				Quantity:  in.Quantity,
				SellPrice: product.SellPrice,
			})
			startTotal += int64(in.Quantity) * product.SellPrice
		}

		contract = &models.Contract{
			PartnerID:       partner.ID,
			Status:          models.ContractStatusOngoing,
			RepaymentPeriod: input.RepaymentPeriod,
			StartTotal:      startTotal,
			MonthlyPayment:  startTotal / int64(input.RepaymentPeriod),
			CreatedByID:     input.CreatedBy,
			Items:           items,
		}
		if err := s.repo.Create(ctx, contract); err != nil {
			return err
		}

		debt := &models.Debt{
			ContractID:      contract.ID,
			Total:           startTotal,
			RemainingMonths: input.RepaymentPeriod,
		}
		if err := s.debtRepo.Create(ctx, debt); err != nil {
			return err
		}

		// The customer now owes the full contract value.
		if err := s.partnerRepo.AdjustBalance(ctx, partner.ID, -startTotal); err != nil {
			return err
		}

		if err := s.auditSvc.Log(ctx, input.CreatedBy, contract.TableName(), contract.ID, models.ActionCreate, nil, contract, ""); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.CreatedBy, debt.TableName(), debt.ID, models.ActionCreate, nil, debt, "")
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) Update(ctx context.Context, id uint, input UpdateContractInput) (*models.Contract, error) {
	var contract *models.Contract

	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		var err error
		contract, err = s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "contract", id)
		}
		if contract.IsTerminal() {
			return fmt.Errorf("%w: contract %d is %s", ErrConflict, contract.ID, contract.Status)
		}
		before := *contract

		debt, err := s.debtRepo.FindByContractForUpdate(ctx, contract.ID)
		if err != nil {
			return notFound(err, "debt for contract", contract.ID)
		}
		monthsPaid := contract.RepaymentPeriod - debt.RemainingMonths

		items, err := s.repo.FindItems(ctx, contract.ID)
		if err != nil {
			return err
		}

		if len(input.Items) > 0 {
			if err := s.applyItemEdits(ctx, items, input.Items); err != nil {
				return err
			}
		}

		var newStartTotal int64
		for i := range items {
			newStartTotal += items[i].LineTotal()
		}

		paid, err := s.paymentRepo.SumAmountByDebt(ctx, debt.ID)
		if err != nil {
			return err
		}
		newDebtTotal := newStartTotal - paid
		if newDebtTotal < 0 {
			return fmt.Errorf("%w: contract total %d cannot drop below the %d already paid", ErrValidation, newStartTotal, paid)
		}

		if input.RepaymentPeriod != nil {
			if *input.RepaymentPeriod <= monthsPaid {
				return fmt.Errorf("%w: repayment period %d must exceed the %d months already paid", ErrValidation, *input.RepaymentPeriod, monthsPaid)
			}
			contract.RepaymentPeriod = *input.RepaymentPeriod
			debt.RemainingMonths = *input.RepaymentPeriod - monthsPaid
		}

		deltaTotal := newStartTotal - contract.StartTotal
		contract.StartTotal = newStartTotal
		contract.MonthlyPayment = newStartTotal / int64(contract.RepaymentPeriod)
		debt.Total = newDebtTotal

		if debt.IsSettled() {
			sm := statemachine.NewContractStateMachine(contract)
			if err := sm.Complete(ctx); err != nil {
				return fmt.Errorf("%w: %v", ErrConflict, err)
			}
		}

		if err := s.debtRepo.Update(ctx, debt); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, contract); err != nil {
			return err
		}
		if deltaTotal != 0 {
			if err := s.partnerRepo.AdjustBalance(ctx, contract.PartnerID, -deltaTotal); err != nil {
				return err
			}
		}

		if err := verifyConservation(contract, debt, paid); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.UpdatedBy, contract.TableName(), contract.ID, models.ActionUpdate, &before, contract, "")
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// applyItemEdits adjusts line quantities in place and moves the stock deltas.
// Every edit must name a line already on the contract.
func (s *ContractService) applyItemEdits(ctx context.Context, items []models.ContractItem, edits []ContractItemInput) error {
	byProduct := make(map[uint]*models.ContractItem, len(items))
	for i := range items {
		byProduct[items[i].ProductID] = &items[i]
	}

	for _, edit := range edits {
		if edit.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		item, ok := byProduct[edit.ProductID]
		if !ok {
			return fmt.Errorf("%w: product %d is not on this contract", ErrValidation, edit.ProductID)
		}
		delta := edit.Quantity - item.Quantity
		if delta == 0 {
			continue
		}

		product, err := s.productRepo.FindByIDForUpdate(ctx, edit.ProductID)
		if err != nil {
			return notFound(err, "product", edit.ProductID)
		}
		if delta > 0 && !product.HasStock(delta) {
			return fmt.Errorf("%w: product %d has %d in stock, %d more requested", ErrValidation, product.ID, product.Quantity, delta)
		}
		product.AdjustQuantity(-delta)
		if err := s.productRepo.Update(ctx, product); err != nil {
			return err
		}

		item.Quantity = edit.Quantity
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Remove hard-deletes a contract and its ledger rows. This is a privileged
// correction tool: stock and partner balance are deliberately left untouched,
// payments survive detached from the deleted debt.
func (s *ContractService) Remove(ctx context.Context, id uint, actorID uint) error {
	return s.txm.Serializable(ctx, func(ctx context.Context) error {
		contract, err := s.repo.FindByIDWithDetails(ctx, id)
		if err != nil {
			return notFound(err, "contract", id)
		}

		if contract.Debt != nil {
			payments, err := s.paymentRepo.FindByDebt(ctx, contract.Debt.ID)
			if err != nil {
				return err
			}
			for i := range payments {
				payments[i].DebtID = nil
				if err := s.paymentRepo.Update(ctx, &payments[i]); err != nil {
					return err
				}
			}
			if err := s.debtRepo.Delete(ctx, contract.Debt.ID); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, contract.ID); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, actorID, contract.TableName(), contract.ID, models.ActionDelete, contract, nil, "")
	})
}

func (s *ContractService) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, notFound(err, "contract", id)
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, query *repository.ListQuery) ([]models.Contract, int64, error) {
	return s.repo.List(ctx, query)
}

// verifyConservation checks that amounts paid plus outstanding debt equal the
// contract's start total. A failure means the mutation corrupted the ledger
// and must abort the transaction.
func verifyConservation(contract *models.Contract, debt *models.Debt, paid int64) error {
	if paid+debt.Total != contract.StartTotal {
		return fmt.Errorf("%w: contract %d: paid %d + outstanding %d != start total %d",
			ErrInvariantViolation, contract.ID, paid, debt.Total, contract.StartTotal)
	}
	return nil
}
