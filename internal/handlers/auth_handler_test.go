package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClinicDesk/internal/config"
	"ClinicDesk/internal/handlers"
	"ClinicDesk/internal/middleware"
)

type validationBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func registerBody(email string) map[string]string {
	return map[string]string{
		"fullName":        "Ann Lee",
		"email":           email,
		"password":        "Secret#1",
		"confirmPassword": "Secret#1",
		"phoneNumber":     "+1 555",
		"gender":          "Female",
		"address":         "Main st",
	}
}

func TestAuth_RegisterLogin(t *testing.T) {
	router, cfg := newTestRouter(t)

	t.Run("register ok", func(t *testing.T) {
		rr := call(t, router, http.MethodPost, "/api/Auth/register", "", registerBody("ann@clinic.io"))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.True(t, decode[handlers.AuthResponse](t, rr).IsSuccess)
	})

	t.Run("register duplicate", func(t *testing.T) {
		rr := call(t, router, http.MethodPost, "/api/Auth/register", "", registerBody("ANN@clinic.io"))
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.JSONEq(t, `{"message":"Email already exists"}`, rr.Body.String())
	})

	t.Run("register validation", func(t *testing.T) {
		body := registerBody("bad")
		body["confirmPassword"] = "other"
		rr := call(t, router, http.MethodPost, "/api/Auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decode[validationBody](t, rr)
		assert.Equal(t, "Validation failed", resp.Message)
		assert.Contains(t, resp.Errors, "email")
		assert.Contains(t, resp.Errors, "confirmPassword")
	})

	t.Run("login ok", func(t *testing.T) {
		rr := call(t, router, http.MethodPost, "/api/Auth/login", "", map[string]string{"email": "ann@clinic.io", "password": "Secret#1"})
		require.Equal(t, http.StatusOK, rr.Code)
		resp := decode[handlers.AuthResponse](t, rr)
		assert.True(t, resp.IsSuccess)
		assert.Equal(t, "ann@clinic.io", resp.Email)
		claims, err := middleware.ParseToken(resp.Token, cfg.AuthSecret)
		require.NoError(t, err)
		assert.Equal(t, "ann@clinic.io", claims.Email)
		assert.Equal(t, "Ann Lee", claims.Username)
	})

	t.Run("login wrong password", func(t *testing.T) {
		rr := call(t, router, http.MethodPost, "/api/Auth/login", "", map[string]string{"email": "ann@clinic.io", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"isSuccess":false,"message":"Invalid email or password"}`, rr.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := call(t, router, http.MethodPost, "/api/Auth/login", "", "not an object")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuth_CountriesArePublic(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := call(t, router, http.MethodGet, "/api/Auth", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]map[string]string](t, rr)
	assert.NotEmpty(t, list)
	assert.NotEmpty(t, list[0]["flag"])
}

func TestAuth_ResetWithBadToken(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, call(t, router, http.MethodPost, "/api/Auth/register", "", registerBody("bob@clinic.io")).Code)

	rr := call(t, router, http.MethodPost, "/api/Auth/forgot-password", "", map[string]string{"email": "nobody@clinic.io"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = call(t, router, http.MethodPost, "/api/Auth/reset-password", "", map[string]string{
		"email": "bob@clinic.io", "token": "bogus", "newPassword": "Another#2", "confirmPassword": "Another#2",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"isSuccess":false,"message":"Invalid or expired token"}`, rr.Body.String())
}

func TestAuth_RateLimited(t *testing.T) {
	router, _ := newTestRouter(t, func(c *config.Config) {
		c.AuthRPS = 1
		c.AuthBurst = 2
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, call(t, router, http.MethodGet, "/api/Auth", "", nil).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// защищённые маршруты лимитер не трогает
	rr := call(t, router, http.MethodGet, "/api/Doctor", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
