package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"ClinicDesk/internal/cli/api"
	"ClinicDesk/internal/cli/model"
	"ClinicDesk/internal/cli/session"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailTaken         = errors.New("Email already exists")
	errNoToken            = errors.New("Login failed: No token received")
)

// AuthGateway - часть api.Client, нужная сервису аутентификации.
type AuthGateway interface {
	Login(ctx context.Context, in model.Login) (model.AuthResponse, error)
	Register(ctx context.Context, in model.Register) (model.AuthResponse, error)
	ForgotPassword(ctx context.Context, in model.ForgotPassword) (model.AuthResponse, error)
	ResetPassword(ctx context.Context, in model.ResetPassword) (model.AuthResponse, error)
}

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Login выполняет вход и сохраняет токен: remember=true - в постоянном хранилище, иначе в хранилище вкладки.
	Login(ctx context.Context, email, password string, remember bool) error

	// Logout очищает оба уровня хранилища сессии.
	Logout() error

	// CurrentUser возвращает отображаемое имя текущего пользователя.
	CurrentUser() string

	// Register создаёт учётную запись и возвращает сообщение сервера.
	Register(ctx context.Context, in model.Register) (string, error)

	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, in model.ResetPassword) (string, error)
}

type authService struct {
	gw   AuthGateway
	sess *session.Store
	log  *zap.SugaredLogger
}

// NewAuthService конструктор сервиса аутентификации.
func NewAuthService(gw AuthGateway, sess *session.Store, log *zap.SugaredLogger) AuthService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &authService{gw: gw, sess: sess, log: log}
}

func (s *authService) Login(ctx context.Context, email, password string, remember bool) error {
	resp, err := s.gw.Login(ctx, model.Login{Email: email, Password: password})
	if err != nil {
		if api.IsKind(err, api.KindUnauthorized) {
			return ErrInvalidCredentials
		}
		return err
	}
	if resp.Token == "" {
		if resp.Message != "" {
			return errors.New(resp.Message)
		}
		return errNoToken
	}
	if err := s.sess.SetCredential(resp.Token, remember); err != nil {
		return err
	}

	shownEmail := resp.Email
	if shownEmail == "" {
		shownEmail = email
	}
	if err := s.sess.SetIdentity(shownEmail, resp.Username, remember); err != nil {
		// токен уже сохранён, имя можно восстановить из claims
		s.log.Warnw("cache identity", "error", err)
	}
	s.log.Debugw("logged in", "email", shownEmail, "tier", s.sess.CredentialTier())
	return nil
}

func (s *authService) Logout() error {
	return s.sess.Clear()
}

func (s *authService) CurrentUser() string {
	return s.sess.DisplayIdentity()
}

func (s *authService) Register(ctx context.Context, in model.Register) (string, error) {
	resp, err := s.gw.Register(ctx, in)
	if err != nil {
		if api.StatusOf(err) == 409 {
			return "", ErrEmailTaken
		}
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Kind == api.KindInvalidRequest && len(apiErr.Details) > 0 {
			return "", errors.New(strings.Join(apiErr.Details, "\n"))
		}
		return "", err
	}
	return acknowledged(resp, "Registration failed")
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp, err := s.gw.ForgotPassword(ctx, model.ForgotPassword{Email: email})
	if err != nil {
		return "", err
	}
	return acknowledged(resp, "Failed to send reset link")
}

func (s *authService) ResetPassword(ctx context.Context, in model.ResetPassword) (string, error) {
	resp, err := s.gw.ResetPassword(ctx, in)
	if err != nil {
		return "", err
	}
	return acknowledged(resp, "Password reset failed")
}

// acknowledged turns isSuccess=false into an error carrying the server message.
func acknowledged(resp model.AuthResponse, fallback string) (string, error) {
	if !resp.IsSuccess {
		if resp.Message != "" {
			return "", errors.New(resp.Message)
		}
		return "", errors.New(fallback)
	}
	return resp.Message, nil
}
