package model

import "time"

// User - учётная запись пользователя клиники.
type User struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	FullName    string    `gorm:"not null" json:"fullName"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"` // bcrypt hash
	PhoneNumber string    `json:"phoneNumber"`
	Gender      string    `json:"gender"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// PasswordReset - одноразовый токен сброса пароля.
type PasswordReset struct {
	ID        int64     `gorm:"primaryKey"`
	Email     string    `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
