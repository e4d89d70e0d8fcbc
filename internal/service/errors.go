package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound - запрошенная запись отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken - email уже зарегистрирован.
	ErrEmailTaken = errors.New("Email already exists")
	// ErrInvalidCredentials - неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrInvalidResetToken - токен сброса не найден, использован или просрочен.
	ErrInvalidResetToken = errors.New("Invalid or expired reset token")
)

// RuleError - нарушение бизнес-правила; текст отдаётся клиенту как есть (400).
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

func ruleErr(format string, args ...any) error {
	return &RuleError{Message: fmt.Sprintf(format, args...)}
}

// notFound переводит gorm.ErrRecordNotFound в ErrNotFound с указанием сущности.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
