package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/prometheus"
)

// writeServiceError maps service-layer errors onto HTTP responses. Unknown
// errors become a 500 and are logged; taxonomy errors keep their message.
func writeServiceError(c echo.Context, log *zap.Logger, err error) error {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "stok tidak mencukupi",
			"produk_id":   stockErr.ProdukID,
			"nama_produk": stockErr.NamaProduk,
			"tersedia":    stockErr.Tersedia,
			"diminta":     stockErr.Diminta,
		})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "data tidak ditemukan"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "akses ditolak"})
	case service.IsValidation(err):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case service.IsConflict(err):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	log.Error("Unhandled service error", zap.Error(err))
	prometheus.RecordError("internal")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "terjadi kesalahan pada server"})
}
