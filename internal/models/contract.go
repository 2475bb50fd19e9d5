package models

import (
	"time"
)

// Contract extends installment credit to a customer partner: a set of line
// items amortized over a repayment period. StartTotal and MonthlyPayment are
// fixed at creation (and recomputed on edit); the outstanding principal lives
// on the linked Debt row.
type Contract struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PartnerID       uint      `gorm:"not null;index" json:"partner_id"`
	Status          string    `gorm:"size:12;default:ONGOING;not null;index" json:"status"`
	RepaymentPeriod int       `gorm:"not null" json:"repayment_period"`
	StartTotal      int64     `gorm:"not null" json:"start_total"`
	MonthlyPayment  int64     `gorm:"not null" json:"monthly_payment"`
	CreatedByID     uint      `gorm:"index" json:"created_by_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Partner Partner         `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Items   []ContractItem  `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Debt    *Debt           `gorm:"foreignKey:ContractID" json:"debt,omitempty"`
	Returns []ProductReturn `gorm:"foreignKey:ContractID" json:"returns,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants. COMPLETED and CANCELLED are terminal.
const (
	ContractStatusOngoing   = "ONGOING"
	ContractStatusCompleted = "COMPLETED"
	ContractStatusCancelled = "CANCELLED"
)

// IsTerminal reports whether the contract reached a final state. Terminal
// contracts accept no further payment or return activity.
func (c *Contract) IsTerminal() bool {
	return c.Status == ContractStatusCompleted || c.Status == ContractStatusCancelled
}

// MayComplete returns true if the contract can transition to completed
func (c *Contract) MayComplete() bool {
	return c.Status == ContractStatusOngoing
}

// MayCancel returns true if the contract can transition to cancelled
func (c *Contract) MayCancel() bool {
	return c.Status == ContractStatusOngoing
}

// ItemsTotal sums quantity × sellPrice over the line items.
func (c *Contract) ItemsTotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// ContractItem is one product line of a contract, priced at sale time.
type ContractItem struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	ContractID uint  `gorm:"not null;index" json:"contract_id"`
	ProductID  uint  `gorm:"not null;index" json:"product_id"`
	Quantity   int   `gorm:"not null" json:"quantity"`
	SellPrice  int64 `gorm:"not null" json:"sell_price"`

	// Associations
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName specifies the table name for ContractItem
func (ContractItem) TableName() string {
	return "contract_items"
}

// LineTotal is quantity × sellPrice for this line.
func (i *ContractItem) LineTotal() int64 {
	return int64(i.Quantity) * i.SellPrice
}

// ContractResponse is the JSON response format for contracts
type ContractResponse struct {
	ID              uint                   `json:"id"`
	PartnerID       uint                   `json:"partner_id"`
	PartnerName     string                 `json:"partner_name,omitempty"`
	Status          string                 `json:"status"`
	RepaymentPeriod int                    `json:"repayment_period"`
	StartTotal      int64                  `json:"start_total"`
	MonthlyPayment  int64                  `json:"monthly_payment"`
	DebtTotal       *int64                 `json:"debt_total,omitempty"`
	RemainingMonths *int                   `json:"remaining_months,omitempty"`
	Items           []ContractItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ContractItemResponse is the JSON response format for contract line items
type ContractItemResponse struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	SellPrice   int64  `json:"sell_price"`
	LineTotal   int64  `json:"line_total"`
}

// ToResponse converts Contract to ContractResponse
func (c *Contract) ToResponse() ContractResponse {
	resp := ContractResponse{
		ID:              c.ID,
		PartnerID:       c.PartnerID,
		Status:          c.Status,
		RepaymentPeriod: c.RepaymentPeriod,
		StartTotal:      c.StartTotal,
		MonthlyPayment:  c.MonthlyPayment,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if c.Partner.ID != 0 {
		resp.PartnerName = c.Partner.FullName
	}
	if c.Debt != nil {
		resp.DebtTotal = &c.Debt.Total
		resp.RemainingMonths = &c.Debt.RemainingMonths
	}
	for _, item := range c.Items {
		ir := ContractItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			SellPrice: item.SellPrice,
			LineTotal: item.LineTotal(),
		}
		if item.Product.ID != 0 {
			ir.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, ir)
	}

	return resp
}
