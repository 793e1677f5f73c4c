package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
)

// PaymentHandler serves the payment ledger endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateIntent records the payment intent for an order. Repeating the call
// returns the existing intent with 200 instead of 201.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	var req struct {
		PesananID uint   `json:"pesanan_id"`
		Metode    string `json:"metode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PesananID == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "pesanan_id wajib diisi"})
	}
	metode, err := model.ParsePaymentMethod(req.Metode)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "metode pembayaran tidak dikenal"})
	}

	p, created, err := h.payments.CreateIntent(buyerID, req.PesananID, metode)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	if !created {
		return c.JSON(http.StatusOK, p)
	}
	log.Info("Payment intent created",
		zap.Uint("pembayaran_id", p.ID),
		zap.Uint("pesanan_id", p.PesananID),
		zap.String("metode", p.Metode))
	return c.JSON(http.StatusCreated, p)
}

// Confirm marks a payment paid and advances the order. Idempotent.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pembayaran_id tidak valid"})
	}

	var req struct {
		ReferenceGateway string `json:"reference_gateway"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	p, err := h.payments.Confirm(id, req.ReferenceGateway)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Payment confirmed", zap.Uint("pembayaran_id", p.ID), zap.Uint("pesanan_id", p.PesananID))
	return c.JSON(http.StatusOK, p)
}

// Fail marks an unpaid payment gagal.
func (h *PaymentHandler) Fail(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pembayaran_id tidak valid"})
	}

	p, err := h.payments.Fail(id)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Get returns one payment visible to the caller.
func (h *PaymentHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := middleware.UserIDFromContext(c)
	role, _ := middleware.RoleFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pembayaran_id tidak valid"})
	}

	p, err := h.payments.Get(userID, role, id)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ListByOrder returns the payments recorded for an order.
func (h *PaymentHandler) ListByOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := middleware.UserIDFromContext(c)
	role, _ := middleware.RoleFromContext(c)
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	payments, err := h.payments.ListByOrder(userID, role, orderID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pembayaran": payments, "total": len(payments)})
}
