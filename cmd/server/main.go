package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ClinicDesk/internal/config"
	"ClinicDesk/internal/handlers"
	"ClinicDesk/internal/middleware"
	"ClinicDesk/internal/repo"
	"ClinicDesk/internal/service"
)

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap: development для debug, production для остальных уровней
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN, cfg.SQLitePath)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userService := service.NewUserService(repo.NewUserRepository(gormDB), cfg.ResetTTL, sugar)
	clinicService := service.NewClinicService(
		repo.NewDoctorRepository(gormDB),
		repo.NewAppointmentRepository(gormDB),
		repo.NewRecordRepository(gormDB),
		sugar,
	)

	h := handlers.NewHandler(userService, clinicService, sugar, cfg)

	janitor, err := service.NewJanitor(sugar,
		service.Job{Name: "purge-reset-tokens", Spec: "@every 30m", Run: userService.PurgeExpiredResets},
		service.Job{Name: "ratelimit-cleanup", Spec: "@every 10m", Run: func(context.Context) error {
			h.Limiter.Cleanup(10 * time.Minute)
			return nil
		}},
	)
	if err != nil {
		sugar.Fatalw("failed to schedule maintenance jobs", "error", err)
	}
	janitor.Start()
	defer janitor.Stop()

	sugar.Infow("Config",
		"Addr", cfg.Addr,
		"Postgres", cfg.DatabaseDSN != "",
		"SQLitePath", cfg.SQLitePath,
		"AuthRPS", cfg.AuthRPS,
		"LogLevel", cfg.LogLevel,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}()

	sugar.Infow("Starting server", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.DebugLevel
	}
	if lvl <= zapcore.DebugLevel {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
