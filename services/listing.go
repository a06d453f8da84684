package services

import (
	"fmt"
	"time"

	"github.com/talash/api-go/models"
)

// Variant discriminates the two listing tables. Each has the same review
// lifecycle but its own terminal success status.
type Variant string

const (
	VariantFound Variant = "found"
	VariantLost  Variant = "lost"
)

func (v Variant) Valid() bool {
	return v == VariantFound || v == VariantLost
}

// TerminalStatus is reserved for a future "mark resolved" operation; no
// exposed operation reaches it yet.
func (v Variant) TerminalStatus() string {
	if v == VariantFound {
		return models.StatusClaimed
	}
	return models.StatusFound
}

func (v Variant) ValidStatuses() []string {
	return []string{models.StatusPending, models.StatusApproved, models.StatusRejected, v.TerminalStatus()}
}

func (v Variant) ValidStatus(status string) bool {
	for _, s := range v.ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Listing is the variant-neutral view of a found or lost item record, used
// by the moderation engine and serialized by the controllers.
type Listing struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	Variant        Variant   `json:"variant"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	EventTimestamp time.Time `json:"event_timestamp"`
	ImageURL       *string   `json:"image_url"`
	Category       *string   `json:"category"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func listingFromFound(item *models.FoundItem) *Listing {
	return &Listing{
		ID:             item.ID,
		UserID:         item.UserID,
		Variant:        VariantFound,
		Description:    item.Description,
		Location:       item.Location,
		EventTimestamp: item.DateFound,
		ImageURL:       item.ImageURL,
		Category:       item.Category,
		Status:         item.Status,
		CreatedAt:      item.CreatedAt,
	}
}

func listingFromLost(item *models.LostItem) *Listing {
	return &Listing{
		ID:             item.ID,
		UserID:         item.UserID,
		Variant:        VariantLost,
		Description:    item.Description,
		Location:       item.Location,
		EventTimestamp: item.DateLost,
		ImageURL:       item.ImageURL,
		Category:       item.Category,
		Status:         item.Status,
		CreatedAt:      item.CreatedAt,
	}
}

// ParseEventTimestamp accepts the ISO formats the frontend sends
// ("2024-01-15T14:30:00", RFC3339, or a bare date).
func ParseEventTimestamp(value string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date format, use ISO format: 2024-01-15T14:30:00", ErrInvalidInput)
}
