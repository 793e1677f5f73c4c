package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/internal/service"
)

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	// The product sits in a cart; deletion must clean that up.
	f.addToCart(t, buyer.ID, ikan.ID, 2)

	require.NoError(t, f.catalog.DeleteProduct(seller.ID, model.RoleSeller, ikan.ID))

	_, err := f.store.Products().FindByID(ikan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	cart, err := f.store.Carts().FindByBuyer(buyer.ID)
	require.NoError(t, err)
	items, err := f.store.Carts().Items(cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteProductWithOpenOrder(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	err := f.catalog.DeleteProduct(seller.ID, model.RoleSeller, ikan.ID)
	assert.ErrorIs(t, err, service.ErrProductInUse)

	// Once the order closes the product can go.
	_, err = f.orders.Cancel(buyer.ID, o.ID)
	require.NoError(t, err)
	require.NoError(t, f.catalog.DeleteProduct(seller.ID, model.RoleSeller, ikan.ID))
}

func TestDeleteProductOwnership(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	other := f.seedUser(t, "penjual2", model.RoleSeller)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	udang := f.seedProduct(t, seller.ID, "Udang Galah", 80000, 5)

	err := f.catalog.DeleteProduct(other.ID, model.RoleSeller, ikan.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Admins may delete any product.
	require.NoError(t, f.catalog.DeleteProduct(admin.ID, model.RoleAdmin, udang.ID))

	err = f.catalog.DeleteProduct(seller.ID, model.RoleSeller, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	other := f.seedUser(t, "penjual2", model.RoleSeller)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	p, err := f.catalog.AdjustStock(seller.ID, ikan.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stok)

	p, err = f.catalog.AdjustStock(seller.ID, ikan.ID, -15)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stok)

	// Stock may not go negative.
	_, err = f.catalog.AdjustStock(seller.ID, ikan.ID, -1)
	var stockErr *service.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)

	_, err = f.catalog.AdjustStock(other.ID, ikan.ID, 1)
	assert.ErrorIs(t, err, service.ErrForbidden)
}
