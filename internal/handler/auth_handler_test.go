package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thesarss/Lautan-Kita/internal/handler"
	mid "github.com/Thesarss/Lautan-Kita/internal/middleware"
	"github.com/Thesarss/Lautan-Kita/internal/model"
	"github.com/Thesarss/Lautan-Kita/internal/repository/memory"
	"github.com/Thesarss/Lautan-Kita/pkg/jwtutil"
)

func newTestServer(t *testing.T) (*echo.Echo, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	authHandler := handler.NewAuthHandler(st, jwt)

	e := echo.New()
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	auth := mid.Auth(jwt)
	e.GET("/api/profile", authHandler.Me, auth)
	e.GET("/api/admin/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, auth, mid.RequireRole(model.RoleAdmin))
	return e, st
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"nama":"Budi","email":"budi@example.com","password":"rahasia1","role":"pembeli"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate email is rejected.
	rec = doJSON(e, http.MethodPost, "/api/auth/register",
		`{"nama":"Budi","email":"budi@example.com","password":"rahasia1","role":"pembeli"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password.
	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"budi@example.com","password":"salah"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"budi@example.com","password":"rahasia1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The token works against a protected route.
	rec = doJSON(e, http.MethodGet, "/api/profile", "", resp.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"nama":"","email":"x@example.com","password":"rahasia1","role":"pembeli"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/register",
		`{"nama":"Budi","email":"x@example.com","password":"123","role":"pembeli"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/auth/register",
		`{"nama":"Budi","email":"x@example.com","password":"rahasia1","role":"bos"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Admin self-registration is blocked.
	rec = doJSON(e, http.MethodPost, "/api/auth/register",
		`{"nama":"Budi","email":"x@example.com","password":"rahasia1","role":"admin"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleGate(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/register",
		`{"nama":"Budi","email":"budi@example.com","password":"rahasia1","role":"pembeli"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/auth/login",
		`{"email":"budi@example.com","password":"rahasia1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// Missing token.
	rec = doJSON(e, http.MethodGet, "/api/admin/ping", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong scheme.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic abc")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token, wrong role.
	rec = doJSON(e, http.MethodGet, "/api/admin/ping", "", resp.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Garbage token.
	rec = doJSON(e, http.MethodGet, "/api/admin/ping", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
