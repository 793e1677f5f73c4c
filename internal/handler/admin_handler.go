package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/internal/service"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
)

// AdminHandler serves the back-office endpoints. Every mutation here is
// written to the audit log.
type AdminHandler struct {
	store   repository.Store
	orders  *service.OrderService
	ratings *service.RatingService
}

func NewAdminHandler(store repository.Store, orders *service.OrderService, ratings *service.RatingService) *AdminHandler {
	return &AdminHandler{store: store, orders: orders, ratings: ratings}
}

// dateRange parses optional ?from=YYYY-MM-DD&to=YYYY-MM-DD query params.
// The to bound is inclusive of the whole day.
func dateRange(c echo.Context) (from, to *time.Time, err error) {
	if raw := c.QueryParam("from"); raw != "" {
		t, perr := time.Parse("2006-01-02", raw)
		if perr != nil {
			return nil, nil, errors.New("from tidak valid")
		}
		from = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, perr := time.Parse("2006-01-02", raw)
		if perr != nil {
			return nil, nil, errors.New("to tidak valid")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

// Dashboard returns the aggregate counters for the back office.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	log := logger.FromEcho(c)

	users, err := h.store.Users().Counts()
	if err != nil {
		return writeServiceError(c, log, err)
	}
	totalProducts, activeProducts, err := h.store.Products().Counts()
	if err != nil {
		return writeServiceError(c, log, err)
	}
	orders, err := h.store.Orders().Counts()
	if err != nil {
		return writeServiceError(c, log, err)
	}
	totalPayments, confirmedPayments, err := h.store.Payments().Counts()
	if err != nil {
		return writeServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users": users,
		"produk": echo.Map{
			"total": totalProducts,
			"aktif": activeProducts,
		},
		"pesanan": orders,
		"pembayaran": echo.Map{
			"total":     totalPayments,
			"confirmed": confirmedPayments,
		},
	})
}

// ListUsers lists accounts, optionally filtered by role or a name/email
// query.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	f := repository.UserFilter{Query: c.QueryParam("q")}
	if raw := c.QueryParam("role"); raw != "" {
		role, err := model.ParseRole(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "role tidak dikenal"})
		}
		f.Role = string(role)
	}

	users, err := h.store.Users().List(f)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "total": len(users)})
}

// SetUserVerified toggles the verified flag of an account.
func (h *AdminHandler) SetUserVerified(c echo.Context) error {
	log := logger.FromEcho(c)
	adminID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id tidak valid"})
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var user *model.User
	err = h.store.InTx(func(tx repository.Store) error {
		u, err := tx.Users().FindByID(id)
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		if err != nil {
			return err
		}
		u.Verified = req.Verified
		if err := tx.Users().Update(u); err != nil {
			return err
		}
		user = u
		return tx.AuditLogs().Append(&model.AuditLog{
			ActorUserID: adminID,
			Action:      "user_verify",
			EntityType:  "user",
			EntityID:    u.ID,
			Metadata:    strconv.FormatBool(req.Verified),
		})
	})
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("User verification updated", zap.Uint("user_id", user.ID), zap.Bool("verified", user.Verified))
	return c.JSON(http.StatusOK, user)
}

// SetUserRole changes the role of an account.
func (h *AdminHandler) SetUserRole(c echo.Context) error {
	log := logger.FromEcho(c)
	adminID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id tidak valid"})
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "role tidak dikenal"})
	}

	var user *model.User
	err = h.store.InTx(func(tx repository.Store) error {
		u, err := tx.Users().FindByID(id)
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		if err != nil {
			return err
		}
		prev := u.Role
		u.Role = role
		if err := tx.Users().Update(u); err != nil {
			return err
		}
		user = u
		return tx.AuditLogs().Append(&model.AuditLog{
			ActorUserID: adminID,
			Action:      "user_role_update",
			EntityType:  "user",
			EntityID:    u.ID,
			Metadata:    string(prev) + "->" + string(role),
		})
	})
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("User role updated", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, user)
}

// SetProductStatus switches a product between aktif and nonaktif.
func (h *AdminHandler) SetProductStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	adminID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "produk_id tidak valid"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Status != model.ProductActive && req.Status != model.ProductInactive {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status tidak dikenal"})
	}

	var product *model.Product
	err = h.store.InTx(func(tx repository.Store) error {
		p, err := tx.Products().FindByID(id)
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Products().SetStatus(id, req.Status); err != nil {
			return err
		}
		p.Status = req.Status
		product = p
		return tx.AuditLogs().Append(&model.AuditLog{
			ActorUserID: adminID,
			Action:      "product_status_update",
			EntityType:  "produk",
			EntityID:    id,
			Metadata:    req.Status,
		})
	})
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListOrders lists orders with optional status and date filters.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	f := repository.OrderFilter{}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := model.ParseOrderStatus(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status tidak dikenal"})
		}
		f.Status = string(status)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f.From, f.To = from, to

	orders, err := h.store.Orders().List(f)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pesanan": orders, "total": len(orders)})
}

// ForceOrderStatus sets any order to any status, restoring stock or
// deriving payouts as the move requires.
func (h *AdminHandler) ForceOrderStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	adminID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pesanan_id tidak valid"})
	}

	var req struct {
		Status string `json:"status_pesanan"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	status, err := model.ParseOrderStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status tidak dikenal"})
	}

	o, err := h.orders.ForceStatus(adminID, id, status)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	log.Info("Order status forced",
		zap.Uint("pesanan_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.Uint("admin_id", adminID))
	return c.JSON(http.StatusOK, o)
}

// ListPayments lists the payment ledger with optional status and date
// filters.
func (h *AdminHandler) ListPayments(c echo.Context) error {
	log := logger.FromEcho(c)

	f := repository.PaymentFilter{Status: c.QueryParam("status")}
	from, to, err := dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f.From, f.To = from, to

	payments, err := h.store.Payments().List(f)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"pembayaran": payments, "total": len(payments)})
}

// ListReviews lists product reviews for moderation.
func (h *AdminHandler) ListReviews(c echo.Context) error {
	log := logger.FromEcho(c)

	f := repository.ReviewFilter{Status: c.QueryParam("status")}
	if raw := c.QueryParam("rating"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 5 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating tidak valid"})
		}
		f.Rating = v
	}

	reviews, err := h.store.Reviews().List(f)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ulasan": reviews, "total": len(reviews)})
}

func parseRatingStatus(s string) (string, bool) {
	if s == model.RatingActive || s == model.RatingHidden {
		return s, true
	}
	return "", false
}

// SetReviewStatus moderates a product review.
func (h *AdminHandler) SetReviewStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	adminID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ulasan_id tidak valid"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	status, ok := parseRatingStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status tidak dikenal"})
	}

	review, err := h.ratings.SetReviewStatus(adminID, id, status)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, review)
}

// SetSellerRatingStatus moderates a seller rating and recomputes the
// seller's aggregate.
func (h *AdminHandler) SetSellerRatingStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	adminID, _ := middleware.UserIDFromContext(c)
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating_id tidak valid"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	status, ok := parseRatingStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "status tidak dikenal"})
	}

	sr, err := h.ratings.SetSellerRatingStatus(adminID, id, status)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, sr)
}

// SalesReport returns daily order counts and revenue.
func (h *AdminHandler) SalesReport(c echo.Context) error {
	log := logger.FromEcho(c)

	from, to, err := dateRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rows, err := h.store.Orders().SalesReport(from, to)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"laporan": rows, "total_hari": len(rows)})
}

// ListPayouts lists seller disbursements, optionally by status.
func (h *AdminHandler) ListPayouts(c echo.Context) error {
	log := logger.FromEcho(c)

	status := c.QueryParam("status")
	if status != "" {
		switch status {
		case model.PayoutQueued, model.PayoutProcessing, model.PayoutSettled, model.PayoutFailed:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status tidak dikenal"})
		}
	}

	payouts, err := h.store.Payouts().List(status)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payouts": payouts, "total": len(payouts)})
}
