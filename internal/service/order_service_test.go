package service_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/service"
)

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	udang := f.seedProduct(t, seller.ID, "Udang Galah", 80000, 5)

	f.addToCart(t, buyer.ID, ikan.ID, 2)
	f.addToCart(t, buyer.ID, udang.ID, 1)

	o, err := f.orders.Checkout(buyer.ID, "Jl. Pelabuhan No. 1")
	require.NoError(t, err)

	assert.Equal(t, model.StatusMenunggu, o.Status)
	assert.Equal(t, buyer.ID, o.PembeliID)
	assert.Equal(t, 180000.0, o.TotalHarga)
	require.Len(t, o.Items, 2)

	// Stock is reserved and the cart is emptied.
	assert.Equal(t, 8, f.stockOf(t, ikan.ID))
	assert.Equal(t, 4, f.stockOf(t, udang.ID))
	cart, err := f.store.Carts().FindByBuyer(buyer.ID)
	require.NoError(t, err)
	items, err := f.store.Carts().Items(cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)

	// No cart at all.
	_, err := f.orders.Checkout(buyer.ID, "alamat")
	assert.ErrorIs(t, err, service.ErrCartEmpty)

	// Cart exists but has no items.
	require.NoError(t, f.store.Carts().Create(&model.Cart{PembeliID: buyer.ID}))
	_, err = f.orders.Checkout(buyer.ID, "alamat")
	assert.ErrorIs(t, err, service.ErrCartEmpty)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)
	kerang := f.seedProduct(t, seller.ID, "Kerang Hijau", 30000, 1)

	f.addToCart(t, buyer.ID, ikan.ID, 2)
	f.addToCart(t, buyer.ID, kerang.ID, 3)

	_, err := f.orders.Checkout(buyer.ID, "alamat")
	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, kerang.ID, stockErr.ProdukID)
	assert.Equal(t, 1, stockErr.Tersedia)
	assert.Equal(t, 3, stockErr.Diminta)
	assert.True(t, service.IsConflict(err))
	assert.False(t, service.IsValidation(err))

	// Nothing moved: no order row, both stocks intact, cart untouched.
	orders, err := f.store.Orders().ListByBuyer(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, 10, f.stockOf(t, ikan.ID))
	assert.Equal(t, 1, f.stockOf(t, kerang.ID))
	cart, err := f.store.Carts().FindByBuyer(buyer.ID)
	require.NoError(t, err)
	items, err := f.store.Carts().Items(cart.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCheckoutPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 2)

	// Seller raises the price after the sale.
	p, err := f.store.Products().FindByID(ikan.ID)
	require.NoError(t, err)
	p.Harga = 75000
	require.NoError(t, f.store.Products().Update(p))

	items, err := f.store.Orders().Items(o.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 50000.0, items[0].HargaSaatBeli)
	assert.Equal(t, 100000.0, items[0].Subtotal)

	stored, err := f.store.Orders().FindByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, 100000.0, stored.TotalHarga)
}

func TestCheckoutConcurrentLastUnit(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyerA := f.seedUser(t, "pembeliA", model.RoleBuyer)
	buyerB := f.seedUser(t, "pembeliB", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 1)

	f.addToCart(t, buyerA.ID, ikan.ID, 1)
	f.addToCart(t, buyerB.ID, ikan.ID, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint{buyerA.ID, buyerB.ID} {
		wg.Add(1)
		go func(i int, buyerID uint) {
			defer wg.Done()
			_, errs[i] = f.orders.Checkout(buyerID, "alamat")
		}(i, id)
	}
	wg.Wait()

	// Exactly one checkout wins the last unit.
	var ok, failed int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			var stockErr *service.InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			failed++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, f.stockOf(t, ikan.ID))
}

func TestCancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 3)
	assert.Equal(t, 7, f.stockOf(t, ikan.ID))

	cancelled, err := f.orders.Cancel(buyer.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDibatalkan, cancelled.Status)
	assert.Equal(t, 10, f.stockOf(t, ikan.ID))

	// A second cancel must not release stock again.
	_, err = f.orders.Cancel(buyer.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotCancelable)
	assert.Equal(t, 10, f.stockOf(t, ikan.ID))
}

func TestCancelOwnership(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	other := f.seedUser(t, "lain", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	_, err := f.orders.Cancel(other.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.orders.Cancel(buyer.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCancelAfterPacking(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 2)
	_, err := f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)

	_, err = f.orders.Cancel(buyer.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotCancelable)
	assert.Equal(t, 8, f.stockOf(t, ikan.ID))
}

func TestPack(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	outsider := f.seedUser(t, "penjual2", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	// A seller without items in the order may not pack it.
	_, err := f.orders.Pack(outsider.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	packed, err := f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDikemas, packed.Status)
	assert.NotNil(t, packed.TanggalDikemas)

	_, err = f.orders.Pack(seller.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotPackable)
}

func TestShipClaim(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurirA := f.seedUser(t, "kurirA", model.RoleCourier)
	kurirB := f.seedUser(t, "kurirB", model.RoleCourier)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	// Shipping before packing conflicts.
	_, err := f.orders.Ship(kurirA.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotShippable)

	_, err = f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)

	shipped, err := f.orders.Ship(kurirA.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDikirim, shipped.Status)
	require.NotNil(t, shipped.KurirID)
	assert.Equal(t, kurirA.ID, *shipped.KurirID)
	assert.NotNil(t, shipped.TanggalDikirim)

	// The second courier loses the claim.
	_, err = f.orders.Ship(kurirB.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrOrderAlreadyClaimed)
}

func TestDeliverDerivesPayouts(t *testing.T) {
	f := newFixture(t)
	sellerA := f.seedUser(t, "penjualA", model.RoleSeller)
	sellerB := f.seedUser(t, "penjualB", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurir := f.seedUser(t, "kurir", model.RoleCourier)
	ikan := f.seedProduct(t, sellerA.ID, "Ikan Tuna", 50000, 10)
	udang := f.seedProduct(t, sellerB.ID, "Udang Galah", 80000, 10)

	f.addToCart(t, buyer.ID, ikan.ID, 2)
	f.addToCart(t, buyer.ID, udang.ID, 1)
	o, err := f.orders.Checkout(buyer.ID, "alamat")
	require.NoError(t, err)

	done := f.deliverOrder(t, o, sellerA.ID, kurir.ID)
	assert.Equal(t, model.StatusSelesai, done.Status)
	assert.NotNil(t, done.TanggalSelesai)

	// One queued payout per distinct seller, summed over their lines.
	payouts, err := f.store.Payouts().List(model.PayoutQueued)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	bySeller := make(map[uint]float64)
	for _, p := range payouts {
		assert.Equal(t, o.ID, p.PesananID)
		bySeller[p.PenjualID] = p.Amount
	}
	assert.Equal(t, 100000.0, bySeller[sellerA.ID])
	assert.Equal(t, 80000.0, bySeller[sellerB.ID])
}

func TestDeliverWrongCourier(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurirA := f.seedUser(t, "kurirA", model.RoleCourier)
	kurirB := f.seedUser(t, "kurirB", model.RoleCourier)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)
	_, err := f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Ship(kurirA.ID, o.ID)
	require.NoError(t, err)

	_, err = f.orders.Deliver(kurirB.ID, o.ID, "")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestCompleteByBuyer(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurir := f.seedUser(t, "kurir", model.RoleCourier)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)

	// Completion requires the order to be in transit.
	_, err := f.orders.Complete(buyer.ID, o.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotInTransit)

	_, err = f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Ship(kurir.ID, o.ID)
	require.NoError(t, err)

	done, err := f.orders.Complete(buyer.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSelesai, done.Status)

	payouts, err := f.store.Payouts().List("")
	require.NoError(t, err)
	assert.Len(t, payouts, 1)
}

func TestUpdateLocation(t *testing.T) {
	f := newFixture(t)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	kurir := f.seedUser(t, "kurir", model.RoleCourier)
	lain := f.seedUser(t, "kurir2", model.RoleCourier)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 1)
	_, err := f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Ship(kurir.ID, o.ID)
	require.NoError(t, err)

	updated, err := f.orders.UpdateLocation(kurir.ID, o.ID, "Gudang Muara Baru")
	require.NoError(t, err)
	assert.Equal(t, "Gudang Muara Baru", updated.LokasiTerakhir)

	_, err = f.orders.UpdateLocation(lain.ID, o.ID, "x")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestForceStatus(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 2)
	_, err := f.orders.Pack(seller.ID, o.ID)
	require.NoError(t, err)

	// Admin cancels a packed order; stock comes back even though the buyer
	// could no longer cancel it.
	forced, err := f.orders.ForceStatus(admin.ID, o.ID, model.StatusDibatalkan)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDibatalkan, forced.Status)
	assert.Equal(t, 10, f.stockOf(t, ikan.ID))
}

func TestForceStatusSelesaiDerivesPayouts(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", model.RoleAdmin)
	seller := f.seedUser(t, "penjual", model.RoleSeller)
	buyer := f.seedUser(t, "pembeli", model.RoleBuyer)
	ikan := f.seedProduct(t, seller.ID, "Ikan Tuna", 50000, 10)

	o := f.placeOrder(t, buyer.ID, ikan.ID, 2)

	forced, err := f.orders.ForceStatus(admin.ID, o.ID, model.StatusSelesai)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSelesai, forced.Status)
	assert.NotNil(t, forced.TanggalSelesai)

	payouts, err := f.store.Payouts().List(model.PayoutQueued)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, 100000.0, payouts[0].Amount)
}
