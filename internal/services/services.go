package services

import (
	"github.com/nasiya-uz/nasiya-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Partner  *PartnerService
	Product  *ProductService
	Contract *ContractService
	Payment  *PaymentService
	Return   *ReturnService
	Debt     *DebtService
	Audit    *AuditService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories) *Services {
	auditSvc := NewAuditService(repos.Audit)

	return &Services{
		Partner:  NewPartnerService(repos.Partner, auditSvc, repos.Tx),
		Product:  NewProductService(repos.Product, repos.Purchase, repos.Partner, auditSvc, repos.Tx),
		Contract: NewContractService(repos.Contract, repos.Debt, repos.Payment, repos.Product, repos.Partner, auditSvc, repos.Tx),
		Payment:  NewPaymentService(repos.Payment, repos.Debt, repos.Contract, repos.Partner, auditSvc, repos.Tx),
		Return:   NewReturnService(repos.Return, repos.Reason, repos.Contract, repos.Debt, repos.Payment, repos.Product, repos.Partner, auditSvc, repos.Tx),
		Debt:     NewDebtService(repos.Debt),
		Audit:    auditSvc,
	}
}
