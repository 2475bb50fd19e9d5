package services

import (
	"context"
	"testing"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openContract(t *testing.T, l *ledger, partnerID uint, period int, items ...ContractItemInput) *models.Contract {
	t.Helper()
	contract, err := l.contractSvc.Create(context.Background(), CreateContractInput{
		PartnerID:       partnerID,
		RepaymentPeriod: period,
		Items:           items,
		CreatedBy:       1,
	})
	require.NoError(t, err)
	return contract
}

func TestContractService_Create(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)
	product := l.stocked("TV", 10, 1200)

	contract := openContract(t, l, customer.ID, 12, ContractItemInput{ProductID: product.ID, Quantity: 2})

	assert.Equal(t, models.ContractStatusOngoing, contract.Status)
	assert.Equal(t, int64(2400), contract.StartTotal)
	assert.Equal(t, int64(200), contract.MonthlyPayment)

	debt, err := l.debts.FindByContractForUpdate(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2400), debt.Total)
	assert.Equal(t, 12, debt.RemainingMonths)

	stored, err := l.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Quantity)

	partner, err := l.partners.FindByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-2400), partner.Balance)

	assert.Len(t, l.audits.byAction("contracts", models.ActionCreate), 1)
	assert.Len(t, l.audits.byAction("debts", models.ActionCreate), 1)
}

func TestContractService_Create_Validation(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)
	product := l.stocked("TV", 1, 1200)

	tests := []struct {
		name  string
		input CreateContractInput
	}{
		{
			name: "zero repayment period",
			input: CreateContractInput{
				PartnerID:       customer.ID,
				RepaymentPeriod: 0,
				Items:           []ContractItemInput{{ProductID: product.ID, Quantity: 1}},
			},
		},
		{
			name: "no items",
			input: CreateContractInput{
				PartnerID:       customer.ID,
				RepaymentPeriod: 6,
			},
		},
		{
			name: "insufficient stock",
			input: CreateContractInput{
				PartnerID:       customer.ID,
				RepaymentPeriod: 6,
				Items:           []ContractItemInput{{ProductID: product.ID, Quantity: 5}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.contractSvc.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestContractService_Create_SellerPartnerConflict(t *testing.T) {
	l := newLedger()
	seller := l.seller()
	product := l.stocked("TV", 5, 1200)

	_, err := l.contractSvc.Create(context.Background(), CreateContractInput{
		PartnerID:       seller.ID,
		RepaymentPeriod: 6,
		Items:           []ContractItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestContractService_Create_InactivePartner(t *testing.T) {
	l := newLedger()
	partner := l.partners.put(models.Partner{
		FullName: "Gone Customer",
		Phone:    "+998900000001",
		Role:     models.PartnerRoleCustomer,
		IsActive: false,
	})
	product := l.stocked("TV", 5, 1000)

	_, err := l.contractSvc.Create(context.Background(), CreateContractInput{
		PartnerID:       partner.ID,
		RepaymentPeriod: 6,
		Items:           []ContractItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContractService_Update_IncreaseQuantity(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)
	product := l.stocked("TV", 10, 1000)
	contract := openContract(t, l, customer.ID, 10, ContractItemInput{ProductID: product.ID, Quantity: 2})

	updated, err := l.contractSvc.Update(context.Background(), contract.ID, UpdateContractInput{
		Items: []ContractItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), updated.StartTotal)
	assert.Equal(t, int64(300), updated.MonthlyPayment)

	debt, err := l.debts.FindByContractForUpdate(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), debt.Total)

	stored, err := l.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)

	partner, err := l.partners.FindByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-3000), partner.Balance)
}

func TestContractService_Update_CannotShrinkBelowPaid(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)
	product := l.stocked("TV", 10, 1000)
	contract := openContract(t, l, customer.ID, 10, ContractItemInput{ProductID: product.ID, Quantity: 3})

	debt, err := l.debts.FindByContractForUpdate(context.Background(), contract.ID)
	require.NoError(t, err)

	// Pay off most of the contract, then try to shrink it below what was paid.
	_, err = l.paymentSvc.Create(context.Background(), CreatePaymentInput{
		DebtID:    &debt.ID,
		PartnerID: customer.ID,
		Amount:    2400,
		Direction: models.PaymentDirectionIn,
	})
	require.NoError(t, err)

	_, err = l.contractSvc.Update(context.Background(), contract.ID, UpdateContractInput{
		Items: []ContractItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContractService_Update_TerminalConflict(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)
	product := l.stocked("TV", 10, 1000)
	contract := openContract(t, l, customer.ID, 10, ContractItemInput{ProductID: product.ID, Quantity: 1})

	stored, err := l.contracts.FindByID(context.Background(), contract.ID)
	require.NoError(t, err)
	stored.Status = models.ContractStatusCancelled
	require.NoError(t, l.contracts.Update(context.Background(), stored))

	_, err = l.contractSvc.Update(context.Background(), contract.ID, UpdateContractInput{
		Items: []ContractItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestContractService_Update_RepaymentPeriod(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)
	product := l.stocked("TV", 10, 1200)
	contract := openContract(t, l, customer.ID, 12, ContractItemInput{ProductID: product.ID, Quantity: 1})

	debt, err := l.debts.FindByContractForUpdate(context.Background(), contract.ID)
	require.NoError(t, err)

	// Two months paid at 100 each.
	_, err = l.paymentSvc.Create(context.Background(), CreatePaymentInput{
		DebtID:    &debt.ID,
		PartnerID: customer.ID,
		Amount:    200,
		Direction: models.PaymentDirectionIn,
	})
	require.NoError(t, err)

	newPeriod := 6
	updated, err := l.contractSvc.Update(context.Background(), contract.ID, UpdateContractInput{
		RepaymentPeriod: &newPeriod,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.RepaymentPeriod)
	assert.Equal(t, int64(200), updated.MonthlyPayment)

	debt, err = l.debts.FindByContractForUpdate(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, debt.RemainingMonths)

	// A period that does not exceed the months already paid is rejected.
	badPeriod := 2
	_, err = l.contractSvc.Update(context.Background(), contract.ID, UpdateContractInput{
		RepaymentPeriod: &badPeriod,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContractService_Remove(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)
	product := l.stocked("TV", 10, 1000)
	contract := openContract(t, l, customer.ID, 10, ContractItemInput{ProductID: product.ID, Quantity: 2})

	debt, err := l.debts.FindByContractForUpdate(context.Background(), contract.ID)
	require.NoError(t, err)
	payment, err := l.paymentSvc.Create(context.Background(), CreatePaymentInput{
		DebtID:    &debt.ID,
		PartnerID: customer.ID,
		Amount:    200,
		Direction: models.PaymentDirectionIn,
	})
	require.NoError(t, err)

	partnerBefore, err := l.partners.FindByID(context.Background(), customer.ID)
	require.NoError(t, err)
	stockBefore, err := l.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)

	require.NoError(t, l.contractSvc.Remove(context.Background(), contract.ID, 1))

	_, err = l.contracts.FindByID(context.Background(), contract.ID)
	assert.Error(t, err)
	_, err = l.debts.FindByContractForUpdate(context.Background(), contract.ID)
	assert.Error(t, err)

	// The payment survives, detached from the deleted debt.
	stored, err := l.payments.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DebtID)

	// Removal reverses nothing: balance and stock stay where they were.
	partnerAfter, err := l.partners.FindByID(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, partnerBefore.Balance, partnerAfter.Balance)
	stockAfter, err := l.products.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, stockBefore.Quantity, stockAfter.Quantity)

	assert.Len(t, l.audits.byAction("contracts", models.ActionDelete), 1)
}

func TestContractService_FindByID_NotFound(t *testing.T) {
	l := newLedger()
	_, err := l.contractSvc.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
