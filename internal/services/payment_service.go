package services

import (
	"context"
	"fmt"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"github.com/nasiya-uz/nasiya-api/internal/statemachine"
)

// CreatePaymentInput records money moving between the company and a partner.
// DebtID links the payment to an installment debt; without it the payment is
// a free-standing settlement against the partner's balance.
type CreatePaymentInput struct {
	DebtID      *uint
	PartnerID   uint
	Amount      int64
	Direction   string
	PaymentType string
	Comment     *string
	CreatedBy   uint
}

// UpdatePaymentInput corrects a recorded payment. Nil fields stay unchanged.
type UpdatePaymentInput struct {
	Amount    *int64
	Comment   *string
	UpdatedBy uint
}

// PaymentService records, corrects and removes payments, keeping the linked
// debt, the partner balance and the contract status consistent in one
// serializable transaction per operation.
type PaymentService struct {
	repo         repository.PaymentRepository
	debtRepo     repository.DebtRepository
	contractRepo repository.ContractRepository
	partnerRepo  repository.PartnerRepository
	auditSvc     *AuditService
	txm          repository.TxManager
}

func NewPaymentService(
	repo repository.PaymentRepository,
	debtRepo repository.DebtRepository,
	contractRepo repository.ContractRepository,
	partnerRepo repository.PartnerRepository,
	auditSvc *AuditService,
	txm repository.TxManager,
) *PaymentService {
	return &PaymentService{
		repo:         repo,
		debtRepo:     debtRepo,
		contractRepo: contractRepo,
		partnerRepo:  partnerRepo,
		auditSvc:     auditSvc,
		txm:          txm,
	}
}

func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}
	if input.Direction != models.PaymentDirectionIn && input.Direction != models.PaymentDirectionOut {
		return nil, fmt.Errorf("%w: unknown payment direction %q", ErrValidation, input.Direction)
	}

	payment := &models.Payment{
		DebtID:      input.DebtID,
		PartnerID:   input.PartnerID,
		Amount:      input.Amount,
		Direction:   input.Direction,
		PaymentType: input.PaymentType,
		Comment:     input.Comment,
		CreatedByID: input.CreatedBy,
	}
	if payment.PaymentType == "" {
		payment.PaymentType = "CASH"
	}

	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		partner, err := s.partnerRepo.FindByIDForUpdate(ctx, input.PartnerID)
		if err != nil {
			return notFound(err, "partner", input.PartnerID)
		}
		if err := checkDirection(partner, input.Direction); err != nil {
			return err
		}

		if payment.IsDebtLinked() {
			if err := s.applyToDebt(ctx, payment, partner); err != nil {
				return err
			}
		} else {
			if err := s.repo.Create(ctx, payment); err != nil {
				return err
			}
		}

		if err := s.partnerRepo.AdjustBalance(ctx, partner.ID, payment.BalanceDelta()); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.CreatedBy, payment.TableName(), payment.ID, models.ActionCreate, nil, payment, "")
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// applyToDebt amortizes the debt: the amount must be an exact multiple of the
// contract's monthly payment and may not exceed the outstanding total. A debt
// that settles here completes its contract.
func (s *PaymentService) applyToDebt(ctx context.Context, payment *models.Payment, partner *models.Partner) error {
	debt, err := s.debtRepo.FindByIDForUpdate(ctx, *payment.DebtID)
	if err != nil {
		return notFound(err, "debt", *payment.DebtID)
	}
	contract, err := s.contractRepo.FindByIDForUpdate(ctx, debt.ContractID)
	if err != nil {
		return notFound(err, "contract", debt.ContractID)
	}

	if contract.PartnerID != partner.ID {
		return fmt.Errorf("%w: debt %d belongs to partner %d, not %d", ErrValidation, debt.ID, contract.PartnerID, partner.ID)
	}
	if contract.IsTerminal() {
		return fmt.Errorf("%w: contract %d is %s", ErrConflict, contract.ID, contract.Status)
	}
	if debt.Total == 0 {
		return fmt.Errorf("%w: debt %d is already settled", ErrConflict, debt.ID)
	}
	if payment.Amount > debt.Total {
		return fmt.Errorf("%w: amount %d exceeds outstanding debt %d", ErrValidation, payment.Amount, debt.Total)
	}

	// Paying the entire outstanding total settles the debt even when
	// truncation left it short of a month boundary.
	var monthsPaid int
	if payment.Amount == debt.Total {
		monthsPaid = debt.RemainingMonths
	} else {
		monthsPaid, err = monthsCovered(payment.Amount, contract)
		if err != nil {
			return err
		}
	}
	payment.MonthsPaid = monthsPaid

	debt.ApplyPayment(payment.Amount, monthsPaid)
	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return err
	}

	if debt.IsSettled() {
		sm := statemachine.NewContractStateMachine(contract)
		if err := sm.Complete(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		if err := s.contractRepo.Update(ctx, contract); err != nil {
			return err
		}
	}

	return s.verifyDebt(ctx, contract, debt)
}

func (s *PaymentService) Update(ctx context.Context, id uint, input UpdatePaymentInput) (*models.Payment, error) {
	var payment *models.Payment

	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "payment", id)
		}
		before := *payment

		if input.Comment != nil {
			payment.Comment = input.Comment
		}

		if input.Amount != nil && *input.Amount != payment.Amount {
			if *input.Amount <= 0 {
				return fmt.Errorf("%w: payment amount must be positive", ErrValidation)
			}
			if payment.IsDebtLinked() {
				if err := s.reapplyToDebt(ctx, payment, *input.Amount); err != nil {
					return err
				}
			} else {
				oldDelta := payment.BalanceDelta()
				payment.Amount = *input.Amount
				if err := s.partnerRepo.AdjustBalance(ctx, payment.PartnerID, payment.BalanceDelta()-oldDelta); err != nil {
					return err
				}
			}
		}

		if err := s.repo.Update(ctx, payment); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.UpdatedBy, payment.TableName(), payment.ID, models.ActionUpdate, &before, payment, "")
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// reapplyToDebt moves the debt by the difference between the corrected and
// the recorded amount, under the same exact-multiple rule as a fresh payment.
func (s *PaymentService) reapplyToDebt(ctx context.Context, payment *models.Payment, newAmount int64) error {
	debt, err := s.debtRepo.FindByIDForUpdate(ctx, *payment.DebtID)
	if err != nil {
		return notFound(err, "debt", *payment.DebtID)
	}
	contract, err := s.contractRepo.FindByIDForUpdate(ctx, debt.ContractID)
	if err != nil {
		return notFound(err, "contract", debt.ContractID)
	}
	if contract.IsTerminal() {
		return fmt.Errorf("%w: contract %d is %s", ErrConflict, contract.ID, contract.Status)
	}

	// Outstanding as it stood before this payment was applied.
	outstanding := debt.Total + payment.Amount
	var newMonths int
	if newAmount == outstanding {
		newMonths = debt.RemainingMonths + payment.MonthsPaid
	} else {
		newMonths, err = monthsCovered(newAmount, contract)
		if err != nil {
			return err
		}
	}

	deltaAmount := newAmount - payment.Amount
	deltaMonths := newMonths - payment.MonthsPaid
	if deltaAmount > debt.Total {
		return fmt.Errorf("%w: corrected amount %d exceeds outstanding debt by %d", ErrValidation, newAmount, deltaAmount-debt.Total)
	}
	if remaining := debt.RemainingMonths - deltaMonths; remaining < 0 || remaining > contract.RepaymentPeriod {
		return fmt.Errorf("%w: corrected amount %d leaves %d remaining months", ErrValidation, newAmount, remaining)
	}

	debt.Total -= deltaAmount
	debt.RemainingMonths -= deltaMonths
	payment.Amount = newAmount
	payment.MonthsPaid = newMonths

	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return err
	}
	// Persist the corrected amount before the conservation check so the
	// re-read paid total reflects it.
	if err := s.repo.Update(ctx, payment); err != nil {
		return err
	}
	if err := s.partnerRepo.AdjustBalance(ctx, payment.PartnerID, deltaAmount); err != nil {
		return err
	}

	if debt.IsSettled() {
		sm := statemachine.NewContractStateMachine(contract)
		if err := sm.Complete(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
		if err := s.contractRepo.Update(ctx, contract); err != nil {
			return err
		}
	}

	return s.verifyDebt(ctx, contract, debt)
}

func (s *PaymentService) Remove(ctx context.Context, id uint, actorID uint) error {
	return s.txm.Serializable(ctx, func(ctx context.Context) error {
		payment, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "payment", id)
		}

		if payment.IsDebtLinked() {
			debt, err := s.debtRepo.FindByIDForUpdate(ctx, *payment.DebtID)
			if err != nil {
				return notFound(err, "debt", *payment.DebtID)
			}
			contract, err := s.contractRepo.FindByIDForUpdate(ctx, debt.ContractID)
			if err != nil {
				return notFound(err, "contract", debt.ContractID)
			}
			if contract.IsTerminal() {
				return fmt.Errorf("%w: contract %d is %s", ErrConflict, contract.ID, contract.Status)
			}

			debt.Total += payment.Amount
			debt.RemainingMonths += payment.MonthsPaid
			if debt.RemainingMonths > contract.RepaymentPeriod {
				return fmt.Errorf("%w: removing payment %d leaves %d remaining months on a %d month contract",
					ErrInvariantViolation, payment.ID, debt.RemainingMonths, contract.RepaymentPeriod)
			}
			if err := s.debtRepo.Update(ctx, debt); err != nil {
				return err
			}
			if err := s.repo.Delete(ctx, payment.ID); err != nil {
				return err
			}
			if err := s.partnerRepo.AdjustBalance(ctx, payment.PartnerID, -payment.BalanceDelta()); err != nil {
				return err
			}
			if err := s.verifyDebt(ctx, contract, debt); err != nil {
				return err
			}
		} else {
			if err := s.repo.Delete(ctx, payment.ID); err != nil {
				return err
			}
			if err := s.partnerRepo.AdjustBalance(ctx, payment.PartnerID, -payment.BalanceDelta()); err != nil {
				return err
			}
		}

		return s.auditSvc.Log(ctx, actorID, payment.TableName(), payment.ID, models.ActionDelete, payment, nil, "")
	})
}

func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

// verifyDebt re-reads the paid total and checks conservation against the
// contract's start total.
func (s *PaymentService) verifyDebt(ctx context.Context, contract *models.Contract, debt *models.Debt) error {
	paid, err := s.repo.SumAmountByDebt(ctx, debt.ID)
	if err != nil {
		return err
	}
	return verifyConservation(contract, debt, paid)
}

// monthsCovered derives the installment count from the amount. Amounts must
// land exactly on month boundaries so the remaining-months counter stays in
// step with the remaining total.
func monthsCovered(amount int64, contract *models.Contract) (int, error) {
	if contract.MonthlyPayment <= 0 {
		return 0, fmt.Errorf("%w: contract %d has no monthly payment", ErrValidation, contract.ID)
	}
	if amount%contract.MonthlyPayment != 0 {
		return 0, fmt.Errorf("%w: amount %d is not a multiple of the monthly payment %d", ErrValidation, amount, contract.MonthlyPayment)
	}
	return int(amount / contract.MonthlyPayment), nil
}

// checkDirection enforces the flow of money by partner role: customers pay
// the company (IN), sellers are paid by the company (OUT).
func checkDirection(partner *models.Partner, direction string) error {
	if partner.IsCustomer() && direction != models.PaymentDirectionIn {
		return fmt.Errorf("%w: customer payments must be direction IN", ErrValidation)
	}
	if partner.IsSeller() && direction != models.PaymentDirectionOut {
		return fmt.Errorf("%w: seller payments must be direction OUT", ErrValidation)
	}
	return nil
}
