package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
)

// RatingHandler serves product reviews and seller ratings.
type RatingHandler struct {
	ratings *service.RatingService
}

func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

// CreateReview records a product review for a completed order.
func (h *RatingHandler) CreateReview(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	var req struct {
		PesananID uint   `json:"pesanan_id"`
		ProdukID  uint   `json:"produk_id"`
		Rating    int    `json:"rating"`
		Komentar  string `json:"komentar"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PesananID == 0 || req.ProdukID == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "pesanan_id dan produk_id wajib diisi"})
	}
	if !validRating(req.Rating) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "rating harus antara 1 sampai 5"})
	}

	review, err := h.ratings.CreateProductReview(buyerID, req.PesananID, req.ProdukID, req.Rating, req.Komentar)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Review created",
		zap.Uint("ulasan_id", review.ID),
		zap.Uint("produk_id", review.ProdukID),
		zap.Int("rating", review.Rating))
	return c.JSON(http.StatusCreated, review)
}

// ProductReviews lists the active reviews of a product with the aggregate.
func (h *RatingHandler) ProductReviews(c echo.Context) error {
	log := logger.FromEcho(c)
	produkID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "produk_id tidak valid"})
	}

	summary, err := h.ratings.ProductReviews(produkID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// CreateSellerRating records the buyer's rating of a seller for one
// completed order.
func (h *RatingHandler) CreateSellerRating(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	var req struct {
		PesananID uint   `json:"pesanan_id"`
		PenjualID uint   `json:"penjual_id"`
		Rating    int    `json:"rating"`
		Komentar  string `json:"komentar"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.PesananID == 0 || req.PenjualID == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "pesanan_id dan penjual_id wajib diisi"})
	}
	if !validRating(req.Rating) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "rating harus antara 1 sampai 5"})
	}

	sr, err := h.ratings.CreateSellerRating(buyerID, req.PesananID, req.PenjualID, req.Rating, req.Komentar)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Seller rating created",
		zap.Uint("rating_id", sr.ID),
		zap.Uint("penjual_id", sr.PenjualID),
		zap.Int("rating", sr.Rating))
	return c.JSON(http.StatusCreated, sr)
}

// UpdateSellerRating edits the buyer's own seller rating.
func (h *RatingHandler) UpdateSellerRating(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating_id tidak valid"})
	}

	var req struct {
		Rating   *int    `json:"rating"`
		Komentar *string `json:"komentar"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Rating == nil && req.Komentar == nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "tidak ada perubahan"})
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "rating harus antara 1 sampai 5"})
	}

	sr, err := h.ratings.UpdateSellerRating(buyerID, id, req.Rating, req.Komentar)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, sr)
}

// OrderReviews lists the buyer's own reviews for one order.
func (h *RatingHandler) OrderReviews(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)
	orderID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	reviews, err := h.ratings.OrderReviews(buyerID, orderID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ulasan": reviews, "total": len(reviews)})
}

// RateableOrders lists the buyer's completed orders that still have an
// unrated seller.
func (h *RatingHandler) RateableOrders(c echo.Context) error {
	log := logger.FromEcho(c)
	buyerID, _ := middleware.UserIDFromContext(c)

	orders, err := h.ratings.RateableOrders(buyerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pesanan": orders, "total": len(orders)})
}

// SellerRatings lists a seller's ratings page by page with the stored
// aggregate.
func (h *RatingHandler) SellerRatings(c echo.Context) error {
	log := logger.FromEcho(c)
	sellerID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "penjual_id tidak valid"})
	}

	limit := 10
	offset := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	page, err := h.ratings.SellerRatings(sellerID, limit, offset)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, page)
}
