package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
)

// ProductHandler serves the public catalog and the seller's product CRUD.
type ProductHandler struct {
	store   repository.Store
	catalog *service.CatalogService
	ratings *service.RatingService
}

func NewProductHandler(store repository.Store, catalog *service.CatalogService, ratings *service.RatingService) *ProductHandler {
	return &ProductHandler{store: store, catalog: catalog, ratings: ratings}
}

// List returns active products, optionally filtered by a name query and a
// price range.
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	f := repository.ProductFilter{Query: c.QueryParam("q")}
	if raw := c.QueryParam("harga_min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "harga_min tidak valid"})
		}
		f.MinPrice = &v
	}
	if raw := c.QueryParam("harga_max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "harga_max tidak valid"})
		}
		f.MaxPrice = &v
	}

	products, err := h.store.Products().ListActive(f)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"produk": products, "total": len(products)})
}

// Get returns one product with its visible reviews and their aggregate.
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "produk_id tidak valid"})
	}

	p, err := h.store.Products().FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "produk tidak ditemukan"})
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}

	summary, err := h.ratings.ProductReviews(id)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"produk":       p,
		"ulasan":       summary.Reviews,
		"avg_rating":   summary.AvgRating,
		"total_ulasan": summary.Total,
	})
}

type productRequest struct {
	NamaProduk string   `json:"nama_produk"`
	Deskripsi  string   `json:"deskripsi"`
	Harga      float64  `json:"harga"`
	HargaModal *float64 `json:"harga_modal"`
	Stok       int      `json:"stok"`
	Satuan     string   `json:"satuan"`
	KategoriID *uint    `json:"kategori_id"`
	PhotoURL   string   `json:"photo_url"`
}

func (r *productRequest) validate() string {
	if r.NamaProduk == "" {
		return "nama_produk wajib diisi"
	}
	if r.Harga <= 0 {
		return "harga harus lebih dari 0"
	}
	if r.Stok < 0 {
		return "stok tidak boleh negatif"
	}
	return ""
}

// Create adds a product owned by the calling seller.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	sellerID, _ := middleware.UserIDFromContext(c)

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	p := model.Product{
		PenjualID:  sellerID,
		NamaProduk: req.NamaProduk,
		Deskripsi:  req.Deskripsi,
		Harga:      req.Harga,
		HargaModal: req.HargaModal,
		Stok:       req.Stok,
		Satuan:     req.Satuan,
		KategoriID: req.KategoriID,
		PhotoURL:   req.PhotoURL,
		Status:     model.ProductActive,
	}
	if err := h.store.Products().Create(&p); err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Product created", zap.Uint("produk_id", p.ID), zap.Uint("penjual_id", sellerID))
	return c.JSON(http.StatusCreated, p)
}

// Update edits the seller's own product. Stock is not edited here; stock
// corrections go through the dedicated endpoint so they compose with
// checkout locking.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	sellerID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "produk_id tidak valid"})
	}

	var req struct {
		NamaProduk *string  `json:"nama_produk"`
		Deskripsi  *string  `json:"deskripsi"`
		Harga      *float64 `json:"harga"`
		HargaModal *float64 `json:"harga_modal"`
		Satuan     *string  `json:"satuan"`
		KategoriID *uint    `json:"kategori_id"`
		PhotoURL   *string  `json:"photo_url"`
		Status     *string  `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	p, err := h.store.Products().FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "produk tidak ditemukan"})
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}
	if p.PenjualID != sellerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "akses ditolak"})
	}

	if req.NamaProduk != nil {
		if *req.NamaProduk == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "nama_produk tidak boleh kosong"})
		}
		p.NamaProduk = *req.NamaProduk
	}
	if req.Harga != nil {
		if *req.Harga <= 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "harga harus lebih dari 0"})
		}
		p.Harga = *req.Harga
	}
	if req.Status != nil {
		if *req.Status != model.ProductActive && *req.Status != model.ProductInactive {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status tidak dikenal"})
		}
		p.Status = *req.Status
	}
	if req.Deskripsi != nil {
		p.Deskripsi = *req.Deskripsi
	}
	if req.HargaModal != nil {
		p.HargaModal = req.HargaModal
	}
	if req.Satuan != nil {
		p.Satuan = *req.Satuan
	}
	if req.KategoriID != nil {
		p.KategoriID = req.KategoriID
	}
	if req.PhotoURL != nil {
		p.PhotoURL = *req.PhotoURL
	}

	if err := h.store.Products().Update(p); err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete soft-deletes the product and clears it out of carts.
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := middleware.UserIDFromContext(c)
	role, _ := middleware.RoleFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "produk_id tidak valid"})
	}

	if err := h.catalog.DeleteProduct(userID, role, id); err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Product deleted", zap.Uint("produk_id", id), zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "produk dihapus"})
}

// Mine lists the calling seller's products including nonaktif ones.
func (h *ProductHandler) Mine(c echo.Context) error {
	log := logger.FromEcho(c)
	sellerID, _ := middleware.UserIDFromContext(c)

	products, err := h.store.Products().ListBySeller(sellerID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"produk": products, "total": len(products)})
}

// AdjustStock applies a manual stock correction (positive or negative).
func (h *ProductHandler) AdjustStock(c echo.Context) error {
	log := logger.FromEcho(c)
	sellerID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "produk_id tidak valid"})
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Delta == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "delta tidak boleh 0"})
	}

	p, err := h.catalog.AdjustStock(sellerID, id, req.Delta)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Stock adjusted",
		zap.Uint("produk_id", id),
		zap.Int("delta", req.Delta),
		zap.Int("stok", p.Stok))
	return c.JSON(http.StatusOK, p)
}
