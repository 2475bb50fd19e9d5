package models

import (
	"time"
)

// Debt tracks the outstanding principal and remaining installment count for
// exactly one contract. It is created together with the contract, mutated
// only by payment processing and contract edits, and deleted when the
// contract is cancelled by a return.
//
// Conservation rule: at all times
// debt.Total == contract.StartTotal − Σ(payment.Amount where payment.DebtID == debt.ID).
type Debt struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ContractID      uint      `gorm:"not null;uniqueIndex" json:"contract_id"`
	Total           int64     `gorm:"not null" json:"total"`
	RemainingMonths int       `gorm:"not null" json:"remaining_months"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Contract Contract  `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Payments []Payment `gorm:"foreignKey:DebtID" json:"payments,omitempty"`
}

// TableName specifies the table name for Debt
func (Debt) TableName() string {
	return "debts"
}

// ApplyPayment reduces the outstanding principal by amount and the remaining
// installment count by monthsPaid, clamping both at zero.
func (d *Debt) ApplyPayment(amount int64, monthsPaid int) {
	d.Total -= amount
	if d.Total < 0 {
		d.Total = 0
	}
	d.RemainingMonths -= monthsPaid
	if d.RemainingMonths < 0 {
		d.RemainingMonths = 0
	}
}

// IsSettled reports whether the debt is fully amortized. A settled debt
// moves the owning contract to COMPLETED.
func (d *Debt) IsSettled() bool {
	return d.Total <= 0 && d.RemainingMonths <= 0
}

// DebtResponse is the JSON response format for debts
type DebtResponse struct {
	ID              uint              `json:"id"`
	ContractID      uint              `json:"contract_id"`
	Total           int64             `json:"total"`
	RemainingMonths int               `json:"remaining_months"`
	Payments        []PaymentResponse `json:"payments,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ToResponse converts Debt to DebtResponse
func (d *Debt) ToResponse() DebtResponse {
	resp := DebtResponse{
		ID:              d.ID,
		ContractID:      d.ContractID,
		Total:           d.Total,
		RemainingMonths: d.RemainingMonths,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for _, p := range d.Payments {
		resp.Payments = append(resp.Payments, p.ToResponse())
	}
	return resp
}
