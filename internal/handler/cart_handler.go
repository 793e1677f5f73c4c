package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
)

// CartHandler serves the buyer's cart. The cart row is created lazily on
// first use.
type CartHandler struct {
	store repository.Store
}

func NewCartHandler(store repository.Store) *CartHandler {
	return &CartHandler{store: store}
}

// cartOf returns the buyer's cart, creating it when missing.
func (h *CartHandler) cartOf(buyerID uint) (*model.Cart, error) {
	cart, err := h.store.Carts().FindByBuyer(buyerID)
	if errors.Is(err, repository.ErrNotFound) {
		cart = &model.Cart{PembeliID: buyerID}
		if err := h.store.Carts().Create(cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	return cart, err
}

// Get returns the cart lines with live product data and the running total.
func (h *CartHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	cart, err := h.cartOf(buyerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	lines, err := h.store.Carts().Lines(cart.ID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	var total float64
	for _, l := range lines {
		total += l.Subtotal
	}
	return c.JSON(http.StatusOK, echo.Map{
		"keranjang_id": cart.ID,
		"items":        lines,
		"total":        total,
	})
}

// AddItem puts a product in the cart; adding the same product again merges
// the quantities.
func (h *CartHandler) AddItem(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	var req struct {
		ProdukID uint `json:"produk_id"`
		Jumlah   int  `json:"jumlah"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ProdukID == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "produk_id wajib diisi"})
	}
	if req.Jumlah <= 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "jumlah harus lebih dari 0"})
	}

	p, err := h.store.Products().FindByID(req.ProdukID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "produk tidak ditemukan"})
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}
	if p.Status != model.ProductActive {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "produk tidak aktif"})
	}

	cart, err := h.cartOf(buyerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}

	existing, err := h.store.Carts().FindItem(cart.ID, req.ProdukID)
	switch {
	case err == nil:
		if err := h.store.Carts().UpdateItemQty(existing.ID, existing.Jumlah+req.Jumlah); err != nil {
			return writeServiceError(c, log, err)
		}
		existing.Jumlah += req.Jumlah
		return c.JSON(http.StatusOK, existing)
	case errors.Is(err, repository.ErrNotFound):
		item := model.CartItem{
			KeranjangID: cart.ID,
			ProdukID:    req.ProdukID,
			Jumlah:      req.Jumlah,
		}
		if err := h.store.Carts().CreateItem(&item); err != nil {
			return writeServiceError(c, log, err)
		}
		log.Info("Cart item added",
			zap.Uint("pembeli_id", buyerID),
			zap.Uint("produk_id", req.ProdukID),
			zap.Int("jumlah", req.Jumlah))
		return c.JSON(http.StatusCreated, item)
	default:
		return writeServiceError(c, log, err)
	}
}

// UpdateItem changes the quantity of one cart line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id tidak valid"})
	}

	var req struct {
		Jumlah int `json:"jumlah"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Jumlah <= 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "jumlah harus lebih dari 0"})
	}

	cart, err := h.cartOf(buyerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	item, err := h.store.Carts().FindItemByID(itemID, cart.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item tidak ditemukan"})
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}
	if err := h.store.Carts().UpdateItemQty(item.ID, req.Jumlah); err != nil {
		return writeServiceError(c, log, err)
	}
	item.Jumlah = req.Jumlah
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes one line from the cart.
func (h *CartHandler) DeleteItem(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id tidak valid"})
	}

	cart, err := h.cartOf(buyerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	if _, err := h.store.Carts().FindItemByID(itemID, cart.ID); errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item tidak ditemukan"})
	} else if err != nil {
		return writeServiceError(c, log, err)
	}
	if err := h.store.Carts().DeleteItem(itemID, cart.ID); err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "item dihapus"})
}

// Clear empties the cart.
func (h *CartHandler) Clear(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	cart, err := h.cartOf(buyerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	if err := h.store.Carts().ClearItems(cart.ID); err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "keranjang dikosongkan"})
}
