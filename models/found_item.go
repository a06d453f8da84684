package models

import (
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusClaimed  = "claimed" // terminal state for found items, reserved
	StatusFound    = "found"   // terminal state for lost items, reserved
	StatusAll      = "all"     // list filter sentinel, never stored
)

// FoundItem is a report of an item someone found on campus. It stays
// "pending" until an admin approves or rejects it; admin-submitted items
// start out approved.
type FoundItem struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	Description string    `gorm:"not null;type:text" json:"description"`
	Location    string    `gorm:"not null" json:"location"`
	DateFound   time.Time `gorm:"not null" json:"date_found"`
	ImageURL    *string   `json:"image_url"`
	Category    *string   `json:"category"`
	Status      string    `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
