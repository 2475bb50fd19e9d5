package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Partner  PartnerRepository
	Product  ProductRepository
	Purchase PurchaseRepository
	Contract ContractRepository
	Debt     DebtRepository
	Payment  PaymentRepository
	Return   ReturnRepository
	Reason   ReasonRepository
	Audit    AuditRepository
	User     UserRepository
	Tx       TxManager
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Partner:  NewPartnerRepository(db),
		Product:  NewProductRepository(db),
		Purchase: NewPurchaseRepository(db),
		Contract: NewContractRepository(db),
		Debt:     NewDebtRepository(db),
		Payment:  NewPaymentRepository(db),
		Return:   NewReturnRepository(db),
		Reason:   NewReasonRepository(db),
		Audit:    NewAuditRepository(db),
		User:     NewUserRepository(db),
		Tx:       NewTxManager(db),
	}
}

// ListQuery carries pagination, search and sort parameters for list endpoints
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	return (q.Page - 1) * q.PerPage
}

// Order returns a sanitized ORDER BY clause for the allowed columns
func (q *ListQuery) Order(allowed map[string]bool, fallback string) string {
	col := q.SortBy
	if col == "" || !allowed[col] {
		col = fallback
	}
	dir := "asc"
	if q.SortDir == "desc" {
		dir = "desc"
	}
	return col + " " + dir
}
