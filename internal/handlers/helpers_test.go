package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ClinicDesk/internal/config"
	"ClinicDesk/internal/handlers"
	"ClinicDesk/internal/middleware"
	"ClinicDesk/internal/repo"
	"ClinicDesk/internal/service"
)

// newTestRouter поднимает роутер поверх отдельной in-memory SQLite.
func newTestRouter(t *testing.T, tweak ...func(*config.Config)) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		AuthSecret: "test-secret",
		TokenTTL:   time.Hour,
		ResetTTL:   time.Hour,
		AuthRPS:    1000,
		AuthBurst:  1000,
	}
	for _, f := range tweak {
		f(cfg)
	}
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB("", fmt.Sprintf("file:h_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := zap.NewNop().Sugar()
	userSvc := service.NewUserService(repo.NewUserRepository(db), cfg.ResetTTL, logger)
	clinicSvc := service.NewClinicService(repo.NewDoctorRepository(db), repo.NewAppointmentRepository(db), repo.NewRecordRepository(db), logger)
	h := handlers.NewHandler(userSvc, clinicSvc, logger, cfg)
	return h.Router, cfg
}

func bearerFor(t *testing.T, cfg *config.Config, email string) string {
	t.Helper()
	tok, err := middleware.BuildToken(1, email, "tester", cfg.AuthSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call выполняет запрос к роутеру; body сериализуется в JSON, если не nil.
func call(t *testing.T, router http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
