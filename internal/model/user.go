package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// users — общая таблица учёток: пациенты, врачи и администраторы.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email    string `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName string `gorm:"type:varchar(255);not null"`
	Gender   string `gorm:"type:varchar(32)"`

	// bcrypt-хэш, сам пароль нигде не хранится.
	PasswordHash string `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
