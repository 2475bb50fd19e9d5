package models

import (
	"time"
)

// Payment settles part of a partner's balance. When DebtID is set the payment
// amortizes an installment debt and MonthsPaid is derived from the contract's
// monthly payment; when DebtID is nil it is a free-standing settlement (for
// example paying a seller partner outside any contract).
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DebtID      *uint     `gorm:"index" json:"debt_id"`
	PartnerID   uint      `gorm:"not null;index" json:"partner_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Direction   string    `gorm:"size:3;not null" json:"direction"`
	MonthsPaid  int       `gorm:"not null;default:0" json:"months_paid"`
	PaymentType string    `gorm:"size:30;default:CASH" json:"payment_type"`
	Comment     *string   `gorm:"type:text" json:"comment"`
	CreatedByID uint      `gorm:"index" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Debt    *Debt   `gorm:"foreignKey:DebtID" json:"debt,omitempty"`
	Partner Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment direction constants. IN is money received from a partner, OUT is
// money paid to a partner.
const (
	PaymentDirectionIn  = "IN"
	PaymentDirectionOut = "OUT"
)

// BalanceDelta is the signed effect of this payment on the partner's balance:
// money coming in settles what the partner owed (balance up), money going out
// settles what the company owed (balance down).
func (p *Payment) BalanceDelta() int64 {
	if p.Direction == PaymentDirectionOut {
		return -p.Amount
	}
	return p.Amount
}

// IsDebtLinked reports whether the payment amortizes an installment debt.
func (p *Payment) IsDebtLinked() bool {
	return p.DebtID != nil
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID          uint      `json:"id"`
	DebtID      *uint     `json:"debt_id"`
	PartnerID   uint      `json:"partner_id"`
	PartnerName string    `json:"partner_name,omitempty"`
	Amount      int64     `json:"amount"`
	Direction   string    `json:"direction"`
	MonthsPaid  int       `json:"months_paid"`
	PaymentType string    `json:"payment_type"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:          p.ID,
		DebtID:      p.DebtID,
		PartnerID:   p.PartnerID,
		Amount:      p.Amount,
		Direction:   p.Direction,
		MonthsPaid:  p.MonthsPaid,
		PaymentType: p.PaymentType,
		Comment:     p.Comment,
		CreatedAt:   p.CreatedAt,
	}
	if p.Partner.ID != 0 {
		resp.PartnerName = p.Partner.FullName
	}
	return resp
}
