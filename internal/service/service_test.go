package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/internal/repository/memory"
	"github.com/Thesarss/Lautan-Kita/internal/service"
)

// fixture bundles an in-memory store with the services under test.
type fixture struct {
	store     *memory.Store
	orders    *service.OrderService
	payments  *service.PaymentService
	ratings   *service.RatingService
	catalog   *service.CatalogService
	shipments *service.ShipmentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	return &fixture{
		store:     st,
		orders:    service.NewOrderService(st),
		payments:  service.NewPaymentService(st),
		ratings:   service.NewRatingService(st),
		catalog:   service.NewCatalogService(st),
		shipments: service.NewShipmentService(st),
	}
}

func (f *fixture) seedUser(t *testing.T, nama string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		Nama:         nama,
		Email:        nama + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, f.store.Users().Create(u))
	return u
}

func (f *fixture) seedProduct(t *testing.T, sellerID uint, nama string, harga float64, stok int) *model.Product {
	t.Helper()
	p := &model.Product{
		PenjualID:  sellerID,
		NamaProduk: nama,
		Harga:      harga,
		Stok:       stok,
		Status:     model.ProductActive,
	}
	require.NoError(t, f.store.Products().Create(p))
	return p
}

func (f *fixture) addToCart(t *testing.T, buyerID, produkID uint, jumlah int) {
	t.Helper()
	cart, err := f.store.Carts().FindByBuyer(buyerID)
	if err == repository.ErrNotFound {
		cart = &model.Cart{PembeliID: buyerID}
		require.NoError(t, f.store.Carts().Create(cart))
	} else {
		require.NoError(t, err)
	}
	require.NoError(t, f.store.Carts().CreateItem(&model.CartItem{
		KeranjangID: cart.ID,
		ProdukID:    produkID,
		Jumlah:      jumlah,
	}))
}

func (f *fixture) stockOf(t *testing.T, produkID uint) int {
	t.Helper()
	p, err := f.store.Products().FindByID(produkID)
	require.NoError(t, err)
	return p.Stok
}

// placeOrder seeds a cart and checks it out.
func (f *fixture) placeOrder(t *testing.T, buyerID, produkID uint, jumlah int) *model.Order {
	t.Helper()
	f.addToCart(t, buyerID, produkID, jumlah)
	o, err := f.orders.Checkout(buyerID, "Jl. Pelabuhan No. 1")
	require.NoError(t, err)
	return o
}

// deliverOrder drives a fresh order all the way to selesai.
func (f *fixture) deliverOrder(t *testing.T, o *model.Order, sellerID, courierID uint) *model.Order {
	t.Helper()
	_, err := f.orders.Pack(sellerID, o.ID)
	require.NoError(t, err)
	_, err = f.orders.Ship(courierID, o.ID)
	require.NoError(t, err)
	done, err := f.orders.Deliver(courierID, o.ID, "")
	require.NoError(t, err)
	return done
}
