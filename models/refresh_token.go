package models

import (
	"time"
)

// RefreshToken is a server-side session record; rotating it on every
// refresh invalidates the previous token.
type RefreshToken struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	User           User      `json:"-" gorm:"foreignKey:UserID"`
	Token          string    `gorm:"not null;index" json:"token"`
	ExpirationDate time.Time `gorm:"not null" json:"expiration_date"`
	CreatedAt      time.Time `json:"created_at"`
}
