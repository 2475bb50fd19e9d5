package services

import (
	"context"
	"fmt"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"github.com/nasiya-uz/nasiya-api/internal/statemachine"
)

// CreateReturnInput requests the reversal of an ongoing contract. IsNew
// asserts the products come back unopened; used products are rejected.
type CreateReturnInput struct {
	ContractID uint
	ReasonID   uint
	IsNew      bool
	Comment    *string
	CreatedBy  uint
}

// ReturnService reverses contracts. An accepted return restores the stock,
// forgives the unpaid remainder, credits it back to the partner's balance,
// removes the debt row and freezes the contract to CANCELLED, all in one
// transaction. Amounts already paid are never refunded.
type ReturnService struct {
	repo         repository.ReturnRepository
	reasonRepo   repository.ReasonRepository
	contractRepo repository.ContractRepository
	debtRepo     repository.DebtRepository
	paymentRepo  repository.PaymentRepository
	productRepo  repository.ProductRepository
	partnerRepo  repository.PartnerRepository
	auditSvc     *AuditService
	txm          repository.TxManager
}

func NewReturnService(
	repo repository.ReturnRepository,
	reasonRepo repository.ReasonRepository,
	contractRepo repository.ContractRepository,
	debtRepo repository.DebtRepository,
	paymentRepo repository.PaymentRepository,
	productRepo repository.ProductRepository,
	partnerRepo repository.PartnerRepository,
	auditSvc *AuditService,
	txm repository.TxManager,
) *ReturnService {
	return &ReturnService{
		repo:         repo,
		reasonRepo:   reasonRepo,
		contractRepo: contractRepo,
		debtRepo:     debtRepo,
		paymentRepo:  paymentRepo,
		productRepo:  productRepo,
		partnerRepo:  partnerRepo,
		auditSvc:     auditSvc,
		txm:          txm,
	}
}

func (s *ReturnService) Create(ctx context.Context, input CreateReturnInput) (*models.ProductReturn, error) {
	if _, err := s.reasonRepo.FindByID(ctx, input.ReasonID); err != nil {
		return nil, notFound(err, "reason", input.ReasonID)
	}
	contract, err := s.contractRepo.FindByID(ctx, input.ContractID)
	if err != nil {
		return nil, notFound(err, "contract", input.ContractID)
	}
	if contract.IsTerminal() {
		return nil, fmt.Errorf("%w: contract %d is %s", ErrConflict, contract.ID, contract.Status)
	}

	if !input.IsNew {
		// Rejection mutates nothing, so the audit entry is written outside
		// any transaction and survives the failed request.
		comment := "used products cannot be returned"
		if input.Comment != nil {
			comment = *input.Comment
		}
		if err := s.auditSvc.Log(ctx, input.CreatedBy, models.ProductReturn{}.TableName(), contract.ID, models.ActionReject, nil, nil, comment); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: used products cannot be returned", ErrValidation)
	}

	var productReturn *models.ProductReturn
	err = s.txm.Serializable(ctx, func(ctx context.Context) error {
		contract, err := s.contractRepo.FindByIDForUpdate(ctx, input.ContractID)
		if err != nil {
			return notFound(err, "contract", input.ContractID)
		}
		if contract.IsTerminal() {
			return fmt.Errorf("%w: contract %d is %s", ErrConflict, contract.ID, contract.Status)
		}
		contractBefore := *contract

		debt, err := s.debtRepo.FindByContractForUpdate(ctx, contract.ID)
		if err != nil {
			return notFound(err, "debt for contract", contract.ID)
		}
		restoreAmount := debt.Total

		items, err := s.contractRepo.FindItems(ctx, contract.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			product, err := s.productRepo.FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return notFound(err, "product", item.ProductID)
			}
			product.AdjustQuantity(item.Quantity)
			if err := s.productRepo.Update(ctx, product); err != nil {
				return err
			}
		}

		// Detach payments before removing the debt: the money was really
		// received and stays on the partner's history.
		payments, err := s.paymentRepo.FindByDebt(ctx, debt.ID)
		if err != nil {
			return err
		}
		for i := range payments {
			payments[i].DebtID = nil
			if err := s.paymentRepo.Update(ctx, &payments[i]); err != nil {
				return err
			}
		}
		if err := s.debtRepo.Delete(ctx, debt.ID); err != nil {
			return err
		}

		// Forgiving the remainder clears what the customer still owed.
		if err := s.partnerRepo.AdjustBalance(ctx, contract.PartnerID, restoreAmount); err != nil {
			return err
		}

		productReturn = &models.ProductReturn{
			ContractID:    contract.ID,
			ReasonID:      input.ReasonID,
			IsNew:         true,
			RestoreAmount: restoreAmount,
			Comment:       input.Comment,
			CreatedByID:   input.CreatedBy,
		}
		if err := s.repo.Create(ctx, productReturn); err != nil {
			return err
		}

		sm := statemachine.NewContractStateMachine(contract)
		if err := sm.Cancel(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		if err := s.contractRepo.Update(ctx, contract); err != nil {
			return err
		}

		if err := s.auditSvc.Log(ctx, input.CreatedBy, productReturn.TableName(), productReturn.ID, models.ActionCreate, nil, productReturn, ""); err != nil {
			return err
		}
		if err := s.auditSvc.Log(ctx, input.CreatedBy, contract.TableName(), contract.ID, models.ActionCancel, &contractBefore, contract, ""); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.CreatedBy, debt.TableName(), debt.ID, models.ActionDelete, debt, nil, "")
	})
	if err != nil {
		return nil, err
	}
	return productReturn, nil
}

func (s *ReturnService) FindByID(ctx context.Context, id uint) (*models.ProductReturn, error) {
	productReturn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product return", id)
	}
	return productReturn, nil
}

func (s *ReturnService) List(ctx context.Context, query *repository.ListQuery) ([]models.ProductReturn, int64, error) {
	return s.repo.List(ctx, query)
}

// ListReasons returns the return reason lookup table
func (s *ReturnService) ListReasons(ctx context.Context) ([]models.Reason, error) {
	return s.reasonRepo.FindAll(ctx)
}
