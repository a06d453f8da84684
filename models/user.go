package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a local account tied to a verified institutional email.
// Accounts are never deleted; role changes happen out-of-band.
type User struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Role          string         `gorm:"not null;default:'user'" json:"role"`
	CreatedAt     time.Time      `json:"created_at"`
	FoundItems    []FoundItem    `json:"-" gorm:"foreignKey:UserID"`
	LostItems     []LostItem     `json:"-" gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
