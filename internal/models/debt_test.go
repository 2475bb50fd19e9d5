package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebt_ApplyPayment(t *testing.T) {
	tests := []struct {
		name        string
		debt        Debt
		amount      int64
		monthsPaid  int
		wantTotal   int64
		wantMonths  int
		wantSettled bool
	}{
		{
			name:       "partial",
			debt:       Debt{Total: 2400, RemainingMonths: 12},
			amount:     600,
			monthsPaid: 3,
			wantTotal:  1800,
			wantMonths: 9,
		},
		{
			name:        "exact payoff",
			debt:        Debt{Total: 600, RemainingMonths: 3},
			amount:      600,
			monthsPaid:  3,
			wantTotal:   0,
			wantMonths:  0,
			wantSettled: true,
		},
		{
			name:        "clamped at zero",
			debt:        Debt{Total: 100, RemainingMonths: 1},
			amount:      150,
			monthsPaid:  2,
			wantTotal:   0,
			wantMonths:  0,
			wantSettled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.debt.ApplyPayment(tt.amount, tt.monthsPaid)
			assert.Equal(t, tt.wantTotal, tt.debt.Total)
			assert.Equal(t, tt.wantMonths, tt.debt.RemainingMonths)
			assert.Equal(t, tt.wantSettled, tt.debt.IsSettled())
		})
	}
}

func TestPayment_BalanceDelta(t *testing.T) {
	in := Payment{Amount: 500, Direction: PaymentDirectionIn}
	out := Payment{Amount: 500, Direction: PaymentDirectionOut}

	assert.Equal(t, int64(500), in.BalanceDelta())
	assert.Equal(t, int64(-500), out.BalanceDelta())
}

func TestContract_ItemsTotal(t *testing.T) {
	contract := Contract{
		Items: []ContractItem{
			{Quantity: 2, SellPrice: 1200},
			{Quantity: 1, SellPrice: 600},
		},
	}
	assert.Equal(t, int64(3000), contract.ItemsTotal())
}
