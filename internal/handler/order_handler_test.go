package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thesarss/Lautan-Kita/internal/handler"
	mid "github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository/memory"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/jwtutil"
)

// newCheckoutServer wires the buyer checkout route against a memory store and
// returns a token for a seeded buyer with one product in the cart.
func newCheckoutServer(t *testing.T, stok, jumlah int) (*echo.Echo, string) {
	t.Helper()
	st := memory.NewStore()
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	seller := &model.User{Nama: "Penjual", Email: "penjual@example.com", Role: model.RoleSeller}
	require.NoError(t, st.Users().Create(seller))
	buyer := &model.User{Nama: "Pembeli", Email: "pembeli@example.com", Role: model.RoleBuyer}
	require.NoError(t, st.Users().Create(buyer))

	ikan := &model.Product{PenjualID: seller.ID, NamaProduk: "Ikan Tuna", Harga: 50000, Stok: stok, Status: model.ProductActive}
	require.NoError(t, st.Products().Create(ikan))
	cart := &model.Cart{PembeliID: buyer.ID}
	require.NoError(t, st.Carts().Create(cart))
	require.NoError(t, st.Carts().CreateItem(&model.CartItem{KeranjangID: cart.ID, ProdukID: ikan.ID, Jumlah: jumlah}))

	orderHandler := handler.NewOrderHandler(st, service.NewOrderService(st))
	e := echo.New()
	e.POST("/api/pesanan/checkout", orderHandler.Checkout, mid.Auth(jwt), mid.RequireRole(model.RoleBuyer))

	token, err := jwt.GenerateToken(buyer.Email, buyer.ID, string(buyer.Role))
	require.NoError(t, err)
	return e, token
}

func TestCheckoutAddressTooShort(t *testing.T) {
	e, token := newCheckoutServer(t, 10, 1)

	rec := doJSON(e, http.MethodPost, "/api/pesanan/checkout",
		`{"alamat_kirim":"Jl."}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Whitespace padding does not satisfy the minimum.
	rec = doJSON(e, http.MethodPost, "/api/pesanan/checkout",
		`{"alamat_kirim":"  ab   "}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/pesanan/checkout",
		`{"alamat_kirim":"Jl. Merdeka 1"}`, token)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckoutInsufficientStockConflict(t *testing.T) {
	e, token := newCheckoutServer(t, 1, 3)

	rec := doJSON(e, http.MethodPost, "/api/pesanan/checkout",
		`{"alamat_kirim":"Jl. Merdeka 1"}`, token)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		ProdukID uint `json:"produk_id"`
		Tersedia int  `json:"tersedia"`
		Diminta  int  `json:"diminta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotZero(t, body.ProdukID)
	assert.Equal(t, 1, body.Tersedia)
	assert.Equal(t, 3, body.Diminta)
}
