package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ClinicDesk/internal/model"
	"ClinicDesk/internal/repo"
)

// UserService инкапсулирует регистрацию, вход и восстановление пароля.
type UserService struct {
	repo     repo.UserRepository
	resetTTL time.Duration
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewUserService(r repo.UserRepository, resetTTL time.Duration, log *zap.SugaredLogger) *UserService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &UserService{repo: r, resetTTL: resetTTL, log: log, now: time.Now}
}

// Register создаёт пользователя с bcrypt-хешем пароля. Возвращает ErrEmailTaken, если email занят.
func (s *UserService) Register(ctx context.Context, u model.User, password string) (*model.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	existing, err := s.repo.GetUserByEmail(ctx, u.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.ID = 0
	u.Password = string(hash)
	return s.repo.CreateUser(ctx, &u)
}

// Login проверяет пароль и возвращает пользователя.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ForgotPassword выпускает одноразовый токен сброса. Почты нет: токен пишется в лог.
// Для незарегистрированного email ничего не происходит и ошибки нет.
func (s *UserService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Infow("password reset requested for unknown email", "email", email)
			return "", nil
		}
		return "", err
	}
	token := uuid.NewString()
	reset := &model.PasswordReset{Email: email, Token: token, ExpiresAt: s.now().Add(s.resetTTL).UTC()}
	if err := s.repo.CreateReset(ctx, reset); err != nil {
		return "", err
	}
	s.log.Infow("password reset token issued", "email", email, "token", token, "expires_at", reset.ExpiresAt)
	return token, nil
}

// ResetPassword меняет пароль по действующему токену.
func (s *UserService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.repo.ConsumeReset(ctx, email, token, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return notFound(s.repo.UpdatePassword(ctx, email, string(hash)), "user")
}


// PurgeExpiredResets чистит отработавшие токены сброса.
func (s *UserService) PurgeExpiredResets(ctx context.Context) error {
	n, err := s.repo.PurgeResets(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Infow("purged password reset tokens", "count", n)
	}
	return nil
}

var countries = []model.Country{
	{Code: "IN", Name: "India", Flag: "🇮🇳"},
	{Code: "US", Name: "United States", Flag: "🇺🇸"},
	{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧"},
	{Code: "CA", Name: "Canada", Flag: "🇨🇦"},
	{Code: "AU", Name: "Australia", Flag: "🇦🇺"},
	{Code: "DE", Name: "Germany", Flag: "🇩🇪"},
	{Code: "FR", Name: "France", Flag: "🇫🇷"},
	{Code: "AE", Name: "United Arab Emirates", Flag: "🇦🇪"},
	{Code: "SG", Name: "Singapore", Flag: "🇸🇬"},
	{Code: "JP", Name: "Japan", Flag: "🇯🇵"},
}

// Countries возвращает справочник стран для формы регистрации.
func (s *UserService) Countries() []model.Country {
	out := make([]model.Country, len(countries))
	copy(out, countries)
	return out
}
