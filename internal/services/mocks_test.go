package services

import (
	"context"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes backing the service tests. They keep records in
// maps, hand out copies so services cannot mutate stored state without
// calling Update, and ignore locking since the fake tx manager runs
// everything on one goroutine.

type fakeTx struct{}

func (fakeTx) Serializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memPartnerRepo struct {
	partners map[uint]*models.Partner
	nextID   uint
}

func newMemPartnerRepo() *memPartnerRepo {
	return &memPartnerRepo{partners: make(map[uint]*models.Partner), nextID: 1}
}

func (r *memPartnerRepo) put(p models.Partner) *models.Partner {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.partners[p.ID] = &p
	return &p
}

func (r *memPartnerRepo) FindByID(_ context.Context, id uint) (*models.Partner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPartnerRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Partner, error) {
	return r.FindByID(ctx, id)
}

func (r *memPartnerRepo) FindByPhone(_ context.Context, phone string) (*models.Partner, error) {
	for _, p := range r.partners {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPartnerRepo) Create(_ context.Context, partner *models.Partner) error {
	partner.ID = r.nextID
	r.nextID++
	cp := *partner
	r.partners[partner.ID] = &cp
	return nil
}

func (r *memPartnerRepo) Update(_ context.Context, partner *models.Partner) error {
	if _, ok := r.partners[partner.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *partner
	// Balance moves only through AdjustBalance.
	cp.Balance = r.partners[partner.ID].Balance
	r.partners[partner.ID] = &cp
	return nil
}

func (r *memPartnerRepo) AdjustBalance(_ context.Context, id uint, delta int64) error {
	p, ok := r.partners[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Balance += delta
	return nil
}

func (r *memPartnerRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.Partner, int64, error) {
	out := make([]models.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type memProductRepo struct {
	products map[uint]*models.Product
	nextID   uint
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uint]*models.Product), nextID: 1}
}

func (r *memProductRepo) put(p models.Product) *models.Product {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.products[p.ID] = &p
	return &p
}

func (r *memProductRepo) FindByID(_ context.Context, id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) Create(_ context.Context, product *models.Product) error {
	product.ID = r.nextID
	r.nextID++
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.Product, int64, error) {
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type memPurchaseRepo struct {
	purchases []models.Purchase
	nextID    uint
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{nextID: 1}
}

func (r *memPurchaseRepo) Create(_ context.Context, purchase *models.Purchase) error {
	purchase.ID = r.nextID
	r.nextID++
	r.purchases = append(r.purchases, *purchase)
	return nil
}

func (r *memPurchaseRepo) FindByProduct(_ context.Context, productID uint) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, p := range r.purchases {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memContractRepo struct {
	contracts map[uint]*models.Contract
	items     map[uint][]models.ContractItem
	debts     *memDebtRepo
	nextID    uint
}

func newMemContractRepo(debts *memDebtRepo) *memContractRepo {
	return &memContractRepo{
		contracts: make(map[uint]*models.Contract),
		items:     make(map[uint][]models.ContractItem),
		debts:     debts,
		nextID:    1,
	}
}

func (r *memContractRepo) put(c models.Contract) *models.Contract {
	if c.ID == 0 {
		c.ID = r.nextID
		r.nextID++
	} else if c.ID >= r.nextID {
		r.nextID = c.ID + 1
	}
	items := c.Items
	c.Items = nil
	for i := range items {
		items[i].ContractID = c.ID
		if items[i].ID == 0 {
			items[i].ID = uint(len(r.items[c.ID]) + i + 1)
		}
	}
	r.items[c.ID] = items
	r.contracts[c.ID] = &c
	return &c
}

func (r *memContractRepo) FindByID(_ context.Context, id uint) (*models.Contract, error) {
	c, ok := r.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memContractRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Contract, error) {
	return r.FindByID(ctx, id)
}

func (r *memContractRepo) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contract.Items = append([]models.ContractItem(nil), r.items[id]...)
	if r.debts != nil {
		if debt, err := r.debts.FindByContractForUpdate(ctx, id); err == nil {
			contract.Debt = debt
		}
	}
	return contract, nil
}

func (r *memContractRepo) FindItems(_ context.Context, contractID uint) ([]models.ContractItem, error) {
	return append([]models.ContractItem(nil), r.items[contractID]...), nil
}

func (r *memContractRepo) Create(_ context.Context, contract *models.Contract) error {
	contract.ID = r.nextID
	r.nextID++
	items := contract.Items
	for i := range items {
		items[i].ID = uint(i + 1)
		items[i].ContractID = contract.ID
	}
	r.items[contract.ID] = append([]models.ContractItem(nil), items...)
	cp := *contract
	cp.Items = nil
	r.contracts[contract.ID] = &cp
	return nil
}

func (r *memContractRepo) Update(_ context.Context, contract *models.Contract) error {
	if _, ok := r.contracts[contract.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *contract
	cp.Items = nil
	cp.Debt = nil
	r.contracts[contract.ID] = &cp
	return nil
}

func (r *memContractRepo) UpdateItem(_ context.Context, item *models.ContractItem) error {
	items := r.items[item.ContractID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memContractRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.contracts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.contracts, id)
	delete(r.items, id)
	return nil
}

func (r *memContractRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.Contract, int64, error) {
	out := make([]models.Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type memDebtRepo struct {
	debts  map[uint]*models.Debt
	nextID uint
}

func newMemDebtRepo() *memDebtRepo {
	return &memDebtRepo{debts: make(map[uint]*models.Debt), nextID: 1}
}

func (r *memDebtRepo) put(d models.Debt) *models.Debt {
	if d.ID == 0 {
		d.ID = r.nextID
		r.nextID++
	} else if d.ID >= r.nextID {
		r.nextID = d.ID + 1
	}
	r.debts[d.ID] = &d
	return &d
}

func (r *memDebtRepo) FindByID(_ context.Context, id uint) (*models.Debt, error) {
	d, ok := r.debts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDebtRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Debt, error) {
	return r.FindByID(ctx, id)
}

func (r *memDebtRepo) FindByIDWithPayments(ctx context.Context, id uint) (*models.Debt, error) {
	return r.FindByID(ctx, id)
}

func (r *memDebtRepo) FindByContractForUpdate(_ context.Context, contractID uint) (*models.Debt, error) {
	for _, d := range r.debts {
		if d.ContractID == contractID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDebtRepo) Create(_ context.Context, debt *models.Debt) error {
	debt.ID = r.nextID
	r.nextID++
	cp := *debt
	r.debts[debt.ID] = &cp
	return nil
}

func (r *memDebtRepo) Update(_ context.Context, debt *models.Debt) error {
	if _, ok := r.debts[debt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *debt
	cp.Payments = nil
	r.debts[debt.ID] = &cp
	return nil
}

func (r *memDebtRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.debts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.debts, id)
	return nil
}

func (r *memDebtRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.Debt, int64, error) {
	out := make([]models.Debt, 0, len(r.debts))
	for _, d := range r.debts {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

type memPaymentRepo struct {
	payments map[uint]*models.Payment
	nextID   uint
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[uint]*models.Payment), nextID: 1}
}

func (r *memPaymentRepo) FindByID(_ context.Context, id uint) (*models.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPaymentRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *memPaymentRepo) FindByDebt(_ context.Context, debtID uint) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if p.DebtID != nil && *p.DebtID == debtID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) SumAmountByDebt(_ context.Context, debtID uint) (int64, error) {
	var sum int64
	for _, p := range r.payments {
		if p.DebtID != nil && *p.DebtID == debtID {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (r *memPaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	payment.ID = r.nextID
	r.nextID++
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *memPaymentRepo) Update(_ context.Context, payment *models.Payment) error {
	if _, ok := r.payments[payment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *memPaymentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.payments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *memPaymentRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.Payment, int64, error) {
	out := make([]models.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type memReturnRepo struct {
	returns map[uint]*models.ProductReturn
	nextID  uint
}

func newMemReturnRepo() *memReturnRepo {
	return &memReturnRepo{returns: make(map[uint]*models.ProductReturn), nextID: 1}
}

func (r *memReturnRepo) FindByID(_ context.Context, id uint) (*models.ProductReturn, error) {
	pr, ok := r.returns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *pr
	return &cp, nil
}

func (r *memReturnRepo) Create(_ context.Context, productReturn *models.ProductReturn) error {
	productReturn.ID = r.nextID
	r.nextID++
	cp := *productReturn
	r.returns[productReturn.ID] = &cp
	return nil
}

func (r *memReturnRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.ProductReturn, int64, error) {
	out := make([]models.ProductReturn, 0, len(r.returns))
	for _, pr := range r.returns {
		out = append(out, *pr)
	}
	return out, int64(len(out)), nil
}

type memReasonRepo struct {
	reasons map[uint]*models.Reason
}

func newMemReasonRepo(names ...string) *memReasonRepo {
	r := &memReasonRepo{reasons: make(map[uint]*models.Reason)}
	for i, name := range names {
		id := uint(i + 1)
		r.reasons[id] = &models.Reason{ID: id, Name: name}
	}
	return r
}

func (r *memReasonRepo) FindByID(_ context.Context, id uint) (*models.Reason, error) {
	reason, ok := r.reasons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *reason
	return &cp, nil
}

func (r *memReasonRepo) FindAll(_ context.Context) ([]models.Reason, error) {
	out := make([]models.Reason, 0, len(r.reasons))
	for _, reason := range r.reasons {
		out = append(out, *reason)
	}
	return out, nil
}

type memAuditRepo struct {
	entries []models.ActionHistory
	nextID  uint
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{nextID: 1}
}

func (r *memAuditRepo) Create(_ context.Context, entry *models.ActionHistory) error {
	entry.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.ActionHistory, int64, error) {
	return append([]models.ActionHistory(nil), r.entries...), int64(len(r.entries)), nil
}

// byAction filters recorded entries by table and action type
func (r *memAuditRepo) byAction(tableName, actionType string) []models.ActionHistory {
	var out []models.ActionHistory
	for _, e := range r.entries {
		if e.Entity == tableName && e.ActionType == actionType {
			out = append(out, e)
		}
	}
	return out
}

// ledger bundles the fakes and the services under test
type ledger struct {
	partners  *memPartnerRepo
	products  *memProductRepo
	purchases *memPurchaseRepo
	contracts *memContractRepo
	debts     *memDebtRepo
	payments  *memPaymentRepo
	returns   *memReturnRepo
	reasons   *memReasonRepo
	audits    *memAuditRepo

	partnerSvc  *PartnerService
	productSvc  *ProductService
	contractSvc *ContractService
	paymentSvc  *PaymentService
	returnSvc   *ReturnService
	debtSvc     *DebtService
}

func newLedger() *ledger {
	l := &ledger{
		partners:  newMemPartnerRepo(),
		products:  newMemProductRepo(),
		purchases: newMemPurchaseRepo(),
		debts:     newMemDebtRepo(),
		payments:  newMemPaymentRepo(),
		returns:   newMemReturnRepo(),
		reasons:   newMemReasonRepo("changed mind", "defect"),
		audits:    newMemAuditRepo(),
	}
	l.contracts = newMemContractRepo(l.debts)

	auditSvc := NewAuditService(l.audits)
	tx := fakeTx{}

	l.partnerSvc = NewPartnerService(l.partners, auditSvc, tx)
	l.productSvc = NewProductService(l.products, l.purchases, l.partners, auditSvc, tx)
	l.contractSvc = NewContractService(l.contracts, l.debts, l.payments, l.products, l.partners, auditSvc, tx)
	l.paymentSvc = NewPaymentService(l.payments, l.debts, l.contracts, l.partners, auditSvc, tx)
	l.returnSvc = NewReturnService(l.returns, l.reasons, l.contracts, l.debts, l.payments, l.products, l.partners, auditSvc, tx)
	l.debtSvc = NewDebtService(l.debts)
	return l
}

func (l *ledger) customer(balance int64) *models.Partner {
	return l.partners.put(models.Partner{
		FullName: "Test Customer",
		Phone:    "+998901112233",
		Role:     models.PartnerRoleCustomer,
		Balance:  balance,
		IsActive: true,
	})
}

func (l *ledger) seller() *models.Partner {
	return l.partners.put(models.Partner{
		FullName: "Test Seller",
		Phone:    "+998909998877",
		Role:     models.PartnerRoleSeller,
		IsActive: true,
	})
}

func (l *ledger) stocked(name string, quantity int, sellPrice int64) *models.Product {
	return l.products.put(models.Product{
		Name:      name,
		Unit:      "pcs",
		BuyPrice:  sellPrice * 10 / 13,
		SellPrice: sellPrice,
		Quantity:  quantity,
		IsActive:  quantity > 0,
	})
}
