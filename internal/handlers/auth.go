package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ClinicDesk/internal/config"
	"ClinicDesk/internal/middleware"
	"ClinicDesk/internal/model"
	"ClinicDesk/internal/service"
)

// AuthHandler обслуживает публичные маршруты /api/Auth.
type AuthHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewAuthHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{UserService: userService, Logger: logger, Config: cfg}
}

// Countries справочник стран для формы регистрации
func (h *AuthHandler) Countries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.UserService.Countries())
}

// Register регистрация пользователя
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}

	u := model.User{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
		Address:     req.Address,
	}
	if _, err := h.UserService.Register(r.Context(), u, req.Password); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeJSON(w, http.StatusConflict, messageResponse{Message: err.Error()})
			return
		}
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{IsSuccess: true, Message: "Registration successful"})
}

// Login проверяет пароль и выдаёт JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}

	u, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Logger.Infow("Login: invalid credentials", "email", req.Email)
			writeJSON(w, http.StatusUnauthorized, AuthResponse{IsSuccess: false, Message: err.Error()})
			return
		}
		writeError(w, h.Logger, r, err)
		return
	}

	token, err := middleware.BuildToken(u.ID, u.Email, u.FullName, h.Config.AuthSecret, h.Config.TokenTTL)
	if err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		IsSuccess: true,
		Message:   "Login successful",
		Token:     token,
		Email:     u.Email,
		Username:  u.FullName,
	})
}

// ForgotPassword всегда отвечает успехом, чтобы не раскрывать наличие email
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	if _, err := h.UserService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		IsSuccess: true,
		Message:   "If the email is registered, a password reset token has been sent.",
	})
}

// ResetPassword смена пароля по токену
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, h.Logger, r, err)
		return
	}
	if err := h.UserService.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			writeJSON(w, http.StatusBadRequest, AuthResponse{IsSuccess: false, Message: "Invalid or expired token"})
			return
		}
		writeError(w, h.Logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{IsSuccess: true, Message: "Password has been reset successfully."})
}
