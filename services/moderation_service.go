package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/talash/api-go/models"
	"github.com/talash/api-go/storage"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of a moderation operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ImageUpload is raw image data already validated at the HTTP layer.
type ImageUpload struct {
	Data        []byte
	ContentType string
	Ext         string
}

type CreateListingInput struct {
	Variant        Variant
	Description    string
	Location       string
	EventTimestamp string
	Category       *string
	Image          *ImageUpload
}

// VariantStats are the review counters for one listing table.
type VariantStats struct {
	Pending  int64 `json:"pending"`
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type DashboardStats struct {
	Found VariantStats `json:"found"`
	Lost  VariantStats `json:"lost"`
}

// ModerationService owns the item lifecycle: submission, admin review,
// owner deletion, listing queries, and the dashboard counters.
//
// State machine per listing: pending -> approved | rejected, both admin
// only. approved and rejected are sinks apart from idempotent re-apply.
// The variant terminal statuses (claimed/found) have no trigger yet.
type ModerationService struct {
	DB    *gorm.DB
	Blobs storage.BlobStore
}

func NewModerationService(db *gorm.DB, blobs storage.BlobStore) *ModerationService {
	return &ModerationService{DB: db, Blobs: blobs}
}

// CreateListing validates the submission, stores the image (if any) before
// touching the database, and inserts the record. Admin submissions skip
// review and start out approved.
func (ms *ModerationService) CreateListing(ctx context.Context, owner *models.User, in CreateListingInput) (*Listing, error) {
	if !in.Variant.Valid() {
		return nil, fmt.Errorf("%w: unknown listing variant %q", ErrInvalidInput, in.Variant)
	}
	description := strings.TrimSpace(in.Description)
	location := strings.TrimSpace(in.Location)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	eventTime, err := ParseEventTimestamp(in.EventTimestamp)
	if err != nil {
		return nil, err
	}

	status := models.StatusPending
	if owner.IsAdmin() {
		status = models.StatusApproved
	}

	// Upload first so the committed row never references a missing blob.
	var imageURL *string
	if in.Image != nil {
		url, err := ms.Blobs.Put(ctx, in.Image.Data, in.Image.ContentType, in.Image.Ext)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		imageURL = &url
	}

	var listing *Listing
	err = ms.DB.Transaction(func(tx *gorm.DB) error {
		switch in.Variant {
		case VariantFound:
			item := models.FoundItem{
				UserID:      owner.ID,
				Description: description,
				Location:    location,
				DateFound:   eventTime,
				ImageURL:    imageURL,
				Category:    in.Category,
				Status:      status,
				CreatedAt:   time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			listing = listingFromFound(&item)
		case VariantLost:
			item := models.LostItem{
				UserID:      owner.ID,
				Description: description,
				Location:    location,
				DateLost:    eventTime,
				ImageURL:    imageURL,
				Category:    in.Category,
				Status:      status,
				CreatedAt:   time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			listing = listingFromLost(&item)
		}
		return nil
	})
	if err != nil {
		// Orphaned blob is acceptable collateral; clean up if we can but
		// always surface the persistence error.
		if imageURL != nil && !ms.Blobs.Delete(ctx, *imageURL) {
			log.Printf("failed to clean up blob %s after insert failure", *imageURL)
		}
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

// Approve moves a pending listing to approved. Approving an approved
// listing is a no-op success. Role is checked before existence.
func (ms *ModerationService) Approve(variant Variant, id uint, actor Actor) (*Listing, error) {
	return ms.review(variant, id, actor, models.StatusApproved)
}

// Reject moves a pending listing to rejected. Re-review of an approved
// listing is not supported; it needs a new submission.
func (ms *ModerationService) Reject(variant Variant, id uint, actor Actor) (*Listing, error) {
	return ms.review(variant, id, actor, models.StatusRejected)
}

func (ms *ModerationService) review(variant Variant, id uint, actor Actor, target string) (*Listing, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin privileges required", ErrForbidden)
	}
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: unknown listing variant %q", ErrInvalidInput, variant)
	}

	var listing *Listing
	err := ms.DB.Transaction(func(tx *gorm.DB) error {
		current, err := ms.getListing(tx, variant, id)
		if err != nil {
			return err
		}
		if current.Status == target {
			listing = current
			return nil
		}
		if current.Status != models.StatusPending {
			return fmt.Errorf("%w: cannot move %s listing %d from %q to %q",
				ErrInvalidTransition, variant, id, current.Status, target)
		}
		if err := ms.updateStatus(tx, variant, id, target); err != nil {
			return err
		}
		current.Status = target
		listing = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes a listing and best-effort deletes its blob.
// Ownership is the only authorization path: admins cannot delete other
// people's listings through this operation.
func (ms *ModerationService) DeleteListing(ctx context.Context, variant Variant, id uint, actor Actor) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: unknown listing variant %q", ErrInvalidInput, variant)
	}

	listing, err := ms.GetListing(variant, id)
	if err != nil {
		return err
	}
	if listing.UserID != actor.ID {
		return fmt.Errorf("%w: you can only delete your own listings", ErrForbidden)
	}

	err = ms.DB.Transaction(func(tx *gorm.DB) error {
		switch variant {
		case VariantFound:
			return tx.Delete(&models.FoundItem{}, id).Error
		default:
			return tx.Delete(&models.LostItem{}, id).Error
		}
	})
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if listing.ImageURL != nil && !ms.Blobs.Delete(ctx, *listing.ImageURL) {
		log.Printf("failed to delete blob %s for removed %s listing %d", *listing.ImageURL, variant, id)
	}
	return nil
}

// ListListings returns one page in ascending id order plus the total
// matching count, which ignores pagination. statusFilter is a valid status
// for the variant or "all".
func (ms *ModerationService) ListListings(variant Variant, statusFilter string, offset, limit int) ([]*Listing, int64, error) {
	if !variant.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown listing variant %q", ErrInvalidInput, variant)
	}
	if statusFilter != models.StatusAll && !variant.ValidStatus(statusFilter) {
		return nil, 0, fmt.Errorf("%w: invalid status filter %q for %s listings", ErrInvalidInput, statusFilter, variant)
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 10
	}

	query := ms.listingQuery(variant)
	if statusFilter != models.StatusAll {
		query = query.Where("status = ?", statusFilter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items, err := ms.scanListings(variant, query.Order("id ASC").Offset(offset).Limit(limit))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListOwned returns every listing of one owner regardless of status.
func (ms *ModerationService) ListOwned(variant Variant, ownerID uint) ([]*Listing, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: unknown listing variant %q", ErrInvalidInput, variant)
	}
	query := ms.listingQuery(variant).Where("user_id = ?", ownerID).Order("id ASC")
	return ms.scanListings(variant, query)
}

func (ms *ModerationService) GetListing(variant Variant, id uint) (*Listing, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: unknown listing variant %q", ErrInvalidInput, variant)
	}
	return ms.getListing(ms.DB, variant, id)
}

// Stats counts the current table state for both variants. Empty tables
// produce zeros, never errors.
func (ms *ModerationService) Stats() (*DashboardStats, error) {
	found, err := ms.variantStats(VariantFound)
	if err != nil {
		return nil, err
	}
	lost, err := ms.variantStats(VariantLost)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Found: *found, Lost: *lost}, nil
}

func (ms *ModerationService) variantStats(variant Variant) (*VariantStats, error) {
	var stats VariantStats
	counts := []struct {
		status string
		dest   *int64
	}{
		{models.StatusPending, &stats.Pending},
		{models.StatusApproved, &stats.Approved},
		{models.StatusRejected, &stats.Rejected},
	}
	for _, c := range counts {
		if err := ms.listingQuery(variant).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	if err := ms.listingQuery(variant).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (ms *ModerationService) listingQuery(variant Variant) *gorm.DB {
	if variant == VariantFound {
		return ms.DB.Model(&models.FoundItem{})
	}
	return ms.DB.Model(&models.LostItem{})
}

func (ms *ModerationService) getListing(tx *gorm.DB, variant Variant, id uint) (*Listing, error) {
	if variant == VariantFound {
		var item models.FoundItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s listing %d", ErrNotFound, variant, id)
			}
			return nil, err
		}
		return listingFromFound(&item), nil
	}
	var item models.LostItem
	if err := tx.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s listing %d", ErrNotFound, variant, id)
		}
		return nil, err
	}
	return listingFromLost(&item), nil
}

func (ms *ModerationService) updateStatus(tx *gorm.DB, variant Variant, id uint, status string) error {
	if variant == VariantFound {
		return tx.Model(&models.FoundItem{}).Where("id = ?", id).Update("status", status).Error
	}
	return tx.Model(&models.LostItem{}).Where("id = ?", id).Update("status", status).Error
}

func (ms *ModerationService) scanListings(variant Variant, query *gorm.DB) ([]*Listing, error) {
	if variant == VariantFound {
		var items []models.FoundItem
		if err := query.Find(&items).Error; err != nil {
			return nil, err
		}
		listings := make([]*Listing, len(items))
		for i := range items {
			listings[i] = listingFromFound(&items[i])
		}
		return listings, nil
	}
	var items []models.LostItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	listings := make([]*Listing, len(items))
	for i := range items {
		listings[i] = listingFromLost(&items[i])
	}
	return listings, nil
}
