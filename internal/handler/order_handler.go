package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
)

// OrderHandler serves the buyer, seller and courier order endpoints. All
// state changes go through the order service.
type OrderHandler struct {
	store  repository.Store
	orders *service.OrderService
}

func NewOrderHandler(store repository.Store, orders *service.OrderService) *OrderHandler {
	return &OrderHandler{store: store, orders: orders}
}

// Checkout converts the buyer's cart into an order.
func (h *OrderHandler) Checkout(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	var req struct {
		AlamatKirim string `json:"alamat_kirim"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.AlamatKirim == "" {
		// Fall back to the profile address.
		if u, err := h.store.Users().FindByID(buyerID); err == nil {
			req.AlamatKirim = u.Alamat
		}
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.AlamatKirim)) < 5 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "alamat_kirim minimal 5 karakter"})
	}

	order, err := h.orders.Checkout(buyerID, req.AlamatKirim)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// Mine lists the buyer's orders, optionally filtered by status.
func (h *OrderHandler) Mine(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	var (
		orders []model.Order
		err    error
	)
	if raw := c.QueryParam("status"); raw != "" {
		status, perr := model.ParseOrderStatus(raw)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status tidak dikenal"})
		}
		orders, err = h.store.Orders().ListByBuyerAndStatus(buyerID, status)
	} else {
		orders, err = h.store.Orders().ListByBuyer(buyerID)
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pesanan": orders, "total": len(orders)})
}

// Get returns one order with its item details. Visible to the buyer who
// placed it, sellers with items in it, the assigned courier and admins.
func (h *OrderHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := middleware.UserIDFromContext(c)
	role, _ := middleware.RoleFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	o, err := h.store.Orders().FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pesanan tidak ditemukan"})
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}

	allowed := false
	switch role {
	case model.RoleAdmin:
		allowed = true
	case model.RoleBuyer:
		allowed = o.PembeliID == userID
	case model.RoleCourier:
		allowed = o.KurirID != nil && *o.KurirID == userID
	case model.RoleSeller:
		n, err := h.store.Orders().CountItemsBySeller(o.ID, userID)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		allowed = n > 0
	}
	if !allowed {
		// Hide existence from outsiders.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pesanan tidak ditemukan"})
	}

	details, err := h.store.Orders().ItemsWithProducts(o.ID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pesanan": o, "items": details})
}

// Cancel cancels the buyer's own menunggu order.
func (h *OrderHandler) Cancel(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	o, err := h.orders.Cancel(buyerID, id)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Order cancelled", zap.Uint("pesanan_id", o.ID), zap.Uint("pembeli_id", buyerID))
	return c.JSON(http.StatusOK, o)
}

// Complete confirms receipt of an order in transit.
func (h *OrderHandler) Complete(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	o, err := h.orders.Complete(buyerID, id)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, o)
}

// SellerOrders lists orders containing the seller's products.
func (h *OrderHandler) SellerOrders(c echo.Context) error {
	log := logger.FromEcho(c)
	sellerID, _ := middleware.UserIDFromContext(c)

	orders, err := h.store.Orders().ListBySeller(sellerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pesanan": orders, "total": len(orders)})
}

// Pack marks an order dikemas on behalf of a participating seller.
func (h *OrderHandler) Pack(c echo.Context) error {
	log := logger.FromEcho(c)
	sellerID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	o, err := h.orders.Pack(sellerID, id)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, o)
}

// Deliveries lists orders visible to the courier: claimed by them, or
// packed and waiting for pickup.
func (h *OrderHandler) Deliveries(c echo.Context) error {
	log := logger.FromEcho(c)
	courierID, _ := middleware.UserIDFromContext(c)

	orders, err := h.store.Orders().ListCourierDeliveries(courierID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pesanan": orders, "total": len(orders)})
}

// Ship claims a packed order for the calling courier and marks it dikirim.
func (h *OrderHandler) Ship(c echo.Context) error {
	log := logger.FromEcho(c)
	courierID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	o, err := h.orders.Ship(courierID, id)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Order shipped", zap.Uint("pesanan_id", o.ID), zap.Uint("kurir_id", courierID))
	return c.JSON(http.StatusOK, o)
}

// Deliver marks the courier's own delivery selesai.
func (h *OrderHandler) Deliver(c echo.Context) error {
	log := logger.FromEcho(c)
	courierID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	var req struct {
		CatatanKurir string `json:"catatan_kurir"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	o, err := h.orders.Deliver(courierID, id, req.CatatanKurir)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, o)
}

// UpdateLocation records the courier's position for an order in transit.
func (h *OrderHandler) UpdateLocation(c echo.Context) error {
	log := logger.FromEcho(c)
	courierID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	var req struct {
		LokasiTerakhir string `json:"lokasi_terakhir"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.LokasiTerakhir == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "lokasi_terakhir wajib diisi"})
	}

	o, err := h.orders.UpdateLocation(courierID, id, req.LokasiTerakhir)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, o)
}
