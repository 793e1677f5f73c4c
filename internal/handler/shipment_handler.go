package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
)

// ShipmentHandler serves the tracking record endpoints.
type ShipmentHandler struct {
	store     repository.Store
	shipments *service.ShipmentService
}

func NewShipmentHandler(store repository.Store, shipments *service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{store: store, shipments: shipments}
}

// Create opens the tracking record for an order.
func (h *ShipmentHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	courierID, _ := middleware.UserIDFromContext(c)

	var req struct {
		PesananID uint   `json:"pesanan_id"`
		NoResi    string `json:"no_resi"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PesananID == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "pesanan_id wajib diisi"})
	}

	sh, err := h.shipments.Create(courierID, req.PesananID, req.NoResi)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Shipment created", zap.Uint("pengiriman_id", sh.ID), zap.Uint("pesanan_id", sh.PesananID))
	return c.JSON(http.StatusCreated, sh)
}

// UpdateStatus moves a shipment along its lifecycle; diterima closes the
// parent order.
func (h *ShipmentHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := middleware.UserIDFromContext(c)
	role, _ := middleware.RoleFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pengiriman_id tidak valid"})
	}

	var req struct {
		Status string `json:"status_kirim"`
		NoResi string `json:"no_resi"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	status, err := model.ParseShipmentStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status_kirim tidak dikenal"})
	}

	sh, err := h.shipments.UpdateStatus(userID, role, id, status, req.NoResi)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Shipment status updated", zap.Uint("pengiriman_id", sh.ID), zap.String("status", sh.Status))
	return c.JSON(http.StatusOK, sh)
}

// ByOrder returns the tracking record of an order.
func (h *ShipmentHandler) ByOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	sh, err := h.store.Shipments().FindByOrder(orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pengiriman tidak ditemukan"})
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, sh)
}

// Mine lists the calling courier's shipments.
func (h *ShipmentHandler) Mine(c echo.Context) error {
	log := logger.FromEcho(c)
	courierID, _ := middleware.UserIDFromContext(c)

	shipments, err := h.store.Shipments().ListByCourier(courierID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pengiriman": shipments, "total": len(shipments)})
}
