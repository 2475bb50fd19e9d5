package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_Create_DefaultMarkup(t *testing.T) {
	l := newLedger()

	product, err := l.productSvc.Create(context.Background(), CreateProductInput{
		Name:     "Washing Machine",
		Unit:     "pcs",
		BuyPrice: 1000,
		Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1300), product.SellPrice)
	assert.True(t, product.IsActive)

	purchases, err := l.purchases.FindByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, 5, purchases[0].Quantity)
	assert.Nil(t, purchases[0].PartnerID)
}

func TestProductService_Create_WithSeller(t *testing.T) {
	l := newLedger()
	seller := l.seller()

	product, err := l.productSvc.Create(context.Background(), CreateProductInput{
		Name:     "Oven",
		BuyPrice: 800,
		Quantity: 10,
		SellerID: &seller.ID,
	})
	require.NoError(t, err)

	// The company now owes the seller quantity times buy price.
	partner, err := l.partners.FindByID(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), partner.Balance)

	purchases, err := l.purchases.FindByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	require.NotNil(t, purchases[0].PartnerID)
	assert.Equal(t, seller.ID, *purchases[0].PartnerID)
}

func TestProductService_Create_CustomerAsSellerRejected(t *testing.T) {
	l := newLedger()
	customer := l.customer(0)

	_, err := l.productSvc.Create(context.Background(), CreateProductInput{
		Name:     "Oven",
		BuyPrice: 800,
		Quantity: 10,
		SellerID: &customer.ID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductService_Create_ZeroQuantityInactive(t *testing.T) {
	l := newLedger()

	product, err := l.productSvc.Create(context.Background(), CreateProductInput{
		Name:     "Backordered Item",
		BuyPrice: 500,
	})
	require.NoError(t, err)
	assert.False(t, product.IsActive)

	purchases, err := l.purchases.FindByProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestProductService_Create_Validation(t *testing.T) {
	l := newLedger()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{BuyPrice: 100}},
		{"zero buy price", CreateProductInput{Name: "X"}},
		{"negative quantity", CreateProductInput{Name: "X", BuyPrice: 100, Quantity: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.productSvc.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProductService_Restock(t *testing.T) {
	l := newLedger()
	seller := l.seller()
	product := l.stocked("Mixer", 2, 130)

	updated, err := l.productSvc.Restock(context.Background(), product.ID, RestockInput{
		Quantity: 8,
		SellerID: &seller.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
	assert.True(t, updated.IsActive)

	partner, err := l.partners.FindByID(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8)*product.BuyPrice, partner.Balance)
}

func TestProductService_Restock_Validation(t *testing.T) {
	l := newLedger()
	product := l.stocked("Mixer", 2, 130)

	_, err := l.productSvc.Restock(context.Background(), product.ID, RestockInput{Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = l.productSvc.Restock(context.Background(), 99, RestockInput{Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_Update(t *testing.T) {
	l := newLedger()
	product := l.stocked("Mixer", 2, 130)

	newPrice := int64(150)
	updated, err := l.productSvc.Update(context.Background(), product.ID, UpdateProductInput{SellPrice: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(150), updated.SellPrice)
	// Quantity is not editable through catalog updates.
	assert.Equal(t, 2, updated.Quantity)
}
