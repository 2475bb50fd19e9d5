package models

import (
	"time"
)

// Partner is a counterparty the company trades with: customers buy on
// installment credit, sellers supply stock.
type Partner struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FullName    string    `gorm:"size:120;not null" json:"full_name"`
	Phone       string    `gorm:"size:20;not null;uniqueIndex" json:"phone"`
	Address     *string   `gorm:"size:255" json:"address"`
	Role        string    `gorm:"size:10;not null;index" json:"role"`
	Balance     int64     `gorm:"not null;default:0" json:"balance"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedByID uint      `gorm:"index" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Contracts []Contract `gorm:"foreignKey:PartnerID" json:"contracts,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:PartnerID" json:"payments,omitempty"`
}

// TableName specifies the table name for Partner
func (Partner) TableName() string {
	return "partners"
}

// Partner role constants
const (
	PartnerRoleCustomer = "CUSTOMER"
	PartnerRoleSeller   = "SELLER"
)

// IsSeller returns true for supply-side partners
func (p *Partner) IsSeller() bool {
	return p.Role == PartnerRoleSeller
}

// IsCustomer returns true for credit customers
func (p *Partner) IsCustomer() bool {
	return p.Role == PartnerRoleCustomer
}

// PartnerResponse is the JSON response format for partners.
// Balance sign convention: positive means the company owes the partner,
// negative means the partner owes the company.
type PartnerResponse struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address"`
	Role      string    `json:"role"`
	Balance   int64     `json:"balance"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts Partner to PartnerResponse
func (p *Partner) ToResponse() PartnerResponse {
	return PartnerResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		Phone:     p.Phone,
		Address:   p.Address,
		Role:      p.Role,
		Balance:   p.Balance,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
