package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ClinicDesk/internal/model"
)

// UserRepository - доступ к учётным записям и токенам сброса пароля.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	// GetUserByEmail возвращает gorm.ErrRecordNotFound, если пользователя нет.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, email, hash string) error

	CreateReset(ctx context.Context, reset *model.PasswordReset) error
	// ConsumeReset помечает действующий токен использованным; gorm.ErrRecordNotFound, если такого нет.
	ConsumeReset(ctx context.Context, email, token string, now time.Time) error
	// PurgeResets удаляет использованные и просроченные токены; возвращает число удалённых.
	PurgeResets(ctx context.Context, now time.Time) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, email, hash string) error {
	tx := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Update("password", hash)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) CreateReset(ctx context.Context, reset *model.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *userRepo) ConsumeReset(ctx context.Context, email, token string, now time.Time) error {
	tx := r.db.WithContext(ctx).Model(&model.PasswordReset{}).
		Where("email = ? AND token = ? AND used = ? AND expires_at > ?", email, token, false, now).
		Update("used", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) PurgeResets(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("used = ? OR expires_at <= ?", true, now).Delete(&model.PasswordReset{})
	return tx.RowsAffected, tx.Error
}
