package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository"
	"github.com/Thesarss/Lautan-Kita/pkg/jwtutil"
	"github.com/Thesarss/Lautan-Kita/pkg/logger"
	"github.com/Thesarss/Lautan-Kita/prometheus"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	store repository.Store
	jwt   *jwtutil.JWTUtil
}

func NewAuthHandler(store repository.Store, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{store: store, jwt: jwt}
}

func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Nama     string `json:"nama"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		NoTlp    string `json:"no_tlp"`
		Alamat   string `json:"alamat"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Nama == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nama, email dan password wajib diisi"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "password minimal 6 karakter"})
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "role tidak dikenal"})
	}
	// Admin accounts are provisioned out of band, never via self-registration.
	if role == model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "registrasi admin tidak diizinkan"})
	}

	if _, err := h.store.Users().FindByEmail(req.Email); err == nil {
		log.Warn("Email already registered", zap.String("email", req.Email))
		prometheus.RecordError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email sudah terdaftar"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return writeServiceError(c, log, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registrasi gagal"})
	}

	user := model.User{
		Nama:         req.Nama,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		NoTlp:        req.NoTlp,
		Alamat:       req.Alamat,
	}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.Users().Create(&user); err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registrasi gagal"})
	}

	log.Info("User registered", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registrasi berhasil",
		"user": map[string]interface{}{
			"id":    user.ID,
			"nama":  user.Nama,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.store.Users().FindByEmail(req.Email)
	if err != nil {
		log.Warn("Login for unknown email", zap.String("email", req.Email))
		prometheus.RecordError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "email atau password salah"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordError("login_failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "email atau password salah"})
	}

	token, err := h.jwt.GenerateToken(user.Email, user.ID, string(user.Role))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"nama":  user.Nama,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := middleware.UserIDFromContext(c)

	user, err := h.store.Users().FindByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "data tidak ditemukan"})
	}
	if err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the caller's own mutable profile fields.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromEcho(c)
	userID, _ := middleware.UserIDFromContext(c)

	var req struct {
		Nama      *string `json:"nama"`
		NoTlp     *string `json:"no_tlp"`
		Alamat    *string `json:"alamat"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.store.Users().FindByID(userID)
	if err != nil {
		return writeServiceError(c, log, err)
	}
	if req.Nama != nil {
		if *req.Nama == "" {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "nama tidak boleh kosong"})
		}
		user.Nama = *req.Nama
	}
	if req.NoTlp != nil {
		user.NoTlp = *req.NoTlp
	}
	if req.Alamat != nil {
		user.Alamat = *req.Alamat
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if err := h.store.Users().Update(user); err != nil {
		return writeServiceError(c, log, err)
	}
	return c.JSON(http.StatusOK, user)
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
