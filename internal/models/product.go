package models

import (
	"time"
)

// Product is a stocked item sold on installment contracts. Prices are in the
// smallest currency unit. IsActive is derived: a product is active while it
// has stock on hand.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null;index" json:"name"`
	Unit        string    `gorm:"size:20" json:"unit"`
	Description *string   `gorm:"type:text" json:"description"`
	BuyPrice    int64     `gorm:"not null" json:"buy_price"`
	SellPrice   int64     `gorm:"not null" json:"sell_price"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	IsActive    bool      `gorm:"default:false;index" json:"is_active"`
	CreatedByID uint      `gorm:"index" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// AdjustQuantity applies a stock delta and recomputes the derived active flag.
func (p *Product) AdjustQuantity(delta int) {
	p.Quantity += delta
	p.IsActive = p.Quantity > 0
}

// HasStock reports whether the product can cover the requested quantity.
func (p *Product) HasStock(quantity int) bool {
	return p.IsActive && p.Quantity >= quantity
}

// Purchase records a stock intake from a seller partner. Buying stock credits
// the seller's balance: the company owes them quantity × buyPrice.
type Purchase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	PartnerID   *uint     `gorm:"index" json:"partner_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	BuyPrice    int64     `gorm:"not null" json:"buy_price"`
	Comment     *string   `gorm:"type:text" json:"comment"`
	CreatedByID uint      `gorm:"index" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Associations
	Product Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// TableName specifies the table name for Purchase
func (Purchase) TableName() string {
	return "purchases"
}

// Total is the amount owed to the seller for this intake.
func (p *Purchase) Total() int64 {
	return int64(p.Quantity) * p.BuyPrice
}
