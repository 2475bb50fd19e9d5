package models

import (
	"time"
)

// ProductReturn records the reversal of a contract: unopened products come
// back into stock, the unpaid remainder of the debt is forgiven and the
// contract is frozen to CANCELLED. RestoreAmount is the forgiven debt at the
// time of return, kept for audit. Amounts already paid are never refunded.
type ProductReturn struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ContractID    uint      `gorm:"not null;index" json:"contract_id"`
	ReasonID      uint      `gorm:"not null;index" json:"reason_id"`
	IsNew         bool      `gorm:"not null" json:"is_new"`
	RestoreAmount int64     `gorm:"not null" json:"restore_amount"`
	Comment       *string   `gorm:"type:text" json:"comment"`
	CreatedByID   uint      `gorm:"index" json:"created_by_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Contract Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Reason   Reason   `gorm:"foreignKey:ReasonID" json:"reason,omitempty"`
}

// TableName specifies the table name for ProductReturn
func (ProductReturn) TableName() string {
	return "product_returns"
}

// Reason is a lookup row naming why a contract was reversed.
type Reason struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Reason
func (Reason) TableName() string {
	return "reasons"
}

// ProductReturnResponse is the JSON response format for product returns
type ProductReturnResponse struct {
	ID            uint      `json:"id"`
	ContractID    uint      `json:"contract_id"`
	ReasonID      uint      `json:"reason_id"`
	ReasonName    string    `json:"reason_name,omitempty"`
	IsNew         bool      `json:"is_new"`
	RestoreAmount int64     `json:"restore_amount"`
	Comment       *string   `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts ProductReturn to ProductReturnResponse
func (r *ProductReturn) ToResponse() ProductReturnResponse {
	resp := ProductReturnResponse{
		ID:            r.ID,
		ContractID:    r.ContractID,
		ReasonID:      r.ReasonID,
		IsNew:         r.IsNew,
		RestoreAmount: r.RestoreAmount,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
	if r.Reason.ID != 0 {
		resp.ReasonName = r.Reason.Name
	}
	return resp
}
