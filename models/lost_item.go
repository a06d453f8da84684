package models

import (
	"time"
)

// LostItem mirrors FoundItem for items people are looking for. Its
// terminal success status is "found" rather than "claimed".
type LostItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	Description string    `gorm:"not null;type:text" json:"description"`
	Location    string    `gorm:"not null" json:"location"`
	DateLost    time.Time `gorm:"not null" json:"date_lost"`
	ImageURL    *string   `json:"image_url"`
	Category    *string   `json:"category"`
	Status      string    `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
