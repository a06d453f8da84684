package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talash/api-go/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FoundItem{}, &models.LostItem{}))
	return db
}

// fakeBlobStore records puts and deletes so tests can assert cleanup
// behavior without any real storage.
type fakeBlobStore struct {
	puts    int
	deleted []string
	failPut bool
}

func (f *fakeBlobStore) Put(_ context.Context, _ []byte, _ string, ext string) (string, error) {
	if f.failPut {
		return "", errors.New("storage unavailable")
	}
	f.puts++
	return fmt.Sprintf("/uploads/blob-%d%s", f.puts, ext), nil
}

func (f *fakeBlobStore) Delete(_ context.Context, url string) bool {
	f.deleted = append(f.deleted, url)
	return true
}

func setupModeration(t *testing.T) (*ModerationService, *fakeBlobStore, *models.User, *models.User) {
	db := setupTestDB(t)
	blobs := &fakeBlobStore{}
	ms := NewModerationService(db, blobs)

	user := &models.User{Name: "A", Email: "a@inst.edu", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	admin := &models.User{Name: "Admin", Email: "admin@inst.edu", Role: models.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)

	return ms, blobs, user, admin
}

func asActor(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func reportItem(t *testing.T, ms *ModerationService, owner *models.User, variant Variant, desc string) *Listing {
	t.Helper()
	listing, err := ms.CreateListing(context.Background(), owner, CreateListingInput{
		Variant:        variant,
		Description:    desc,
		Location:       "Library",
		EventTimestamp: "2024-01-15T14:30:00",
	})
	require.NoError(t, err)
	return listing
}

func TestCreateListingStartsPending(t *testing.T) {
	ms, _, user, _ := setupModeration(t)

	listing, err := ms.CreateListing(context.Background(), user, CreateListingInput{
		Variant:        VariantFound,
		Description:    "Blue backpack",
		Location:       "Library",
		EventTimestamp: "2024-01-15T14:30:00",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, listing.Status)
	assert.Equal(t, user.ID, listing.UserID)
	assert.Equal(t, VariantFound, listing.Variant)
	assert.Equal(t, 2024, listing.EventTimestamp.Year())
}

func TestCreateListingByAdminIsAutoApproved(t *testing.T) {
	ms, _, _, admin := setupModeration(t)

	listing := reportItem(t, ms, admin, VariantLost, "Red wallet")
	assert.Equal(t, models.StatusApproved, listing.Status)
}

func TestCreateListingValidation(t *testing.T) {
	ms, _, user, _ := setupModeration(t)

	tests := []struct {
		name  string
		input CreateListingInput
	}{
		{
			name:  "empty description",
			input: CreateListingInput{Variant: VariantFound, Description: "  ", Location: "Library", EventTimestamp: "2024-01-15T14:30:00"},
		},
		{
			name:  "empty location",
			input: CreateListingInput{Variant: VariantFound, Description: "Backpack", Location: "", EventTimestamp: "2024-01-15T14:30:00"},
		},
		{
			name:  "bad timestamp",
			input: CreateListingInput{Variant: VariantFound, Description: "Backpack", Location: "Library", EventTimestamp: "January 15th"},
		},
		{
			name:  "unknown variant",
			input: CreateListingInput{Variant: "stolen", Description: "Backpack", Location: "Library", EventTimestamp: "2024-01-15T14:30:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ms.CreateListing(context.Background(), user, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateListingUploadFailure(t *testing.T) {
	ms, blobs, user, _ := setupModeration(t)
	blobs.failPut = true

	_, err := ms.CreateListing(context.Background(), user, CreateListingInput{
		Variant:        VariantFound,
		Description:    "Backpack",
		Location:       "Library",
		EventTimestamp: "2024-01-15T14:30:00",
		Image:          &ImageUpload{Data: []byte("img"), ContentType: "image/jpeg", Ext: ".jpg"},
	})
	assert.ErrorIs(t, err, ErrUploadFailed)

	// Nothing persisted
	var count int64
	ms.DB.Model(&models.FoundItem{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateListingInsertFailureCleansUpBlob(t *testing.T) {
	ms, blobs, user, _ := setupModeration(t)

	// Force the insert to fail after the blob upload succeeded.
	require.NoError(t, ms.DB.Migrator().DropTable(&models.FoundItem{}))

	_, err := ms.CreateListing(context.Background(), user, CreateListingInput{
		Variant:        VariantFound,
		Description:    "Backpack",
		Location:       "Library",
		EventTimestamp: "2024-01-15T14:30:00",
		Image:          &ImageUpload{Data: []byte("img"), ContentType: "image/jpeg", Ext: ".jpg"},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUploadFailed)
	assert.Len(t, blobs.deleted, 1, "orphaned blob should be cleaned up")
}

func TestApproveRequiresAdmin(t *testing.T) {
	ms, _, user, _ := setupModeration(t)
	listing := reportItem(t, ms, user, VariantFound, "Backpack")

	_, err := ms.Approve(VariantFound, listing.ID, asActor(user))
	assert.ErrorIs(t, err, ErrForbidden)

	// Role is checked before existence
	_, err = ms.Approve(VariantFound, 9999, asActor(user))
	assert.ErrorIs(t, err, ErrForbidden)

	// Listing is unchanged
	current, err := ms.GetListing(VariantFound, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, current.Status)
}

func TestApproveNotFound(t *testing.T) {
	ms, _, _, admin := setupModeration(t)

	_, err := ms.Approve(VariantFound, 9999, asActor(admin))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApproveIsIdempotent(t *testing.T) {
	ms, _, user, admin := setupModeration(t)
	listing := reportItem(t, ms, user, VariantFound, "Backpack")

	first, err := ms.Approve(VariantFound, listing.ID, asActor(admin))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, first.Status)

	second, err := ms.Approve(VariantFound, listing.ID, asActor(admin))
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, second.Status)
}

func TestRejectIsIdempotent(t *testing.T) {
	ms, _, user, admin := setupModeration(t)
	listing := reportItem(t, ms, user, VariantLost, "Wallet")

	_, err := ms.Reject(VariantLost, listing.ID, asActor(admin))
	require.NoError(t, err)

	second, err := ms.Reject(VariantLost, listing.ID, asActor(admin))
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, second.Status)
}

func TestNoTransitionsOutOfSinkStates(t *testing.T) {
	ms, _, user, admin := setupModeration(t)

	approved := reportItem(t, ms, user, VariantFound, "Backpack")
	_, err := ms.Approve(VariantFound, approved.ID, asActor(admin))
	require.NoError(t, err)

	// approved -> rejected needs a fresh submission, not a re-review
	_, err = ms.Reject(VariantFound, approved.ID, asActor(admin))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	rejected := reportItem(t, ms, user, VariantFound, "Umbrella")
	_, err = ms.Reject(VariantFound, rejected.ID, asActor(admin))
	require.NoError(t, err)

	_, err = ms.Approve(VariantFound, rejected.ID, asActor(admin))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteListingOwnershipOnly(t *testing.T) {
	ms, blobs, user, admin := setupModeration(t)

	listing, err := ms.CreateListing(context.Background(), user, CreateListingInput{
		Variant:        VariantFound,
		Description:    "Backpack",
		Location:       "Library",
		EventTimestamp: "2024-01-15T14:30:00",
		Image:          &ImageUpload{Data: []byte("img"), ContentType: "image/jpeg", Ext: ".jpg"},
	})
	require.NoError(t, err)

	other := &models.User{Name: "B", Email: "b@inst.edu", Role: models.RoleUser}
	require.NoError(t, ms.DB.Create(other).Error)

	// Neither another user nor an admin may delete someone else's listing
	err = ms.DeleteListing(context.Background(), VariantFound, listing.ID, asActor(other))
	assert.ErrorIs(t, err, ErrForbidden)
	err = ms.DeleteListing(context.Background(), VariantFound, listing.ID, asActor(admin))
	assert.ErrorIs(t, err, ErrForbidden)

	current, err := ms.GetListing(VariantFound, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, current.Status)

	// The owner may
	require.NoError(t, ms.DeleteListing(context.Background(), VariantFound, listing.ID, asActor(user)))

	_, err = ms.GetListing(VariantFound, listing.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, blobs.deleted, 1, "blob deletion should be attempted")

	owned, err := ms.ListOwned(VariantFound, user.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestDeleteListingNotFound(t *testing.T) {
	ms, _, user, _ := setupModeration(t)

	err := ms.DeleteListing(context.Background(), VariantFound, 42, asActor(user))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListListingsPagination(t *testing.T) {
	ms, _, user, _ := setupModeration(t)

	for i := 0; i < 7; i++ {
		reportItem(t, ms, user, VariantFound, fmt.Sprintf("Item %d", i))
	}

	items, total, err := ms.ListListings(VariantFound, models.StatusPending, 0, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.EqualValues(t, 7, total, "total ignores pagination")

	items, total, err = ms.ListListings(VariantFound, models.StatusPending, 6, 3)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.EqualValues(t, 7, total)

	// Ascending insertion order
	items, _, err = ms.ListListings(VariantFound, models.StatusAll, 0, 10)
	require.NoError(t, err)
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i].ID, items[i-1].ID)
	}
}

func TestListListingsStatusFilter(t *testing.T) {
	ms, _, user, admin := setupModeration(t)

	a := reportItem(t, ms, user, VariantFound, "Backpack")
	reportItem(t, ms, user, VariantFound, "Umbrella")
	_, err := ms.Approve(VariantFound, a.ID, asActor(admin))
	require.NoError(t, err)

	approved, total, err := ms.ListListings(VariantFound, models.StatusApproved, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, approved, 1)
	assert.Equal(t, a.ID, approved[0].ID)

	_, _, err = ms.ListListings(VariantFound, "bogus", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// "found" is a lost-variant status, not a found-variant one
	_, _, err = ms.ListListings(VariantFound, models.StatusFound, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = ms.ListListings(VariantLost, models.StatusFound, 0, 10)
	assert.NoError(t, err)
}

func TestStatsEmptyTables(t *testing.T) {
	ms, _, _, _ := setupModeration(t)

	stats, err := ms.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Found.Total)
	assert.Zero(t, stats.Lost.Pending)
}

func TestStatsTrackReview(t *testing.T) {
	ms, _, user, admin := setupModeration(t)

	a := reportItem(t, ms, user, VariantFound, "Backpack")
	reportItem(t, ms, user, VariantFound, "Umbrella")
	reportItem(t, ms, user, VariantLost, "Wallet")

	before, err := ms.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, before.Found.Pending)
	assert.EqualValues(t, 2, before.Found.Total)
	assert.EqualValues(t, 1, before.Lost.Pending)

	_, err = ms.Approve(VariantFound, a.ID, asActor(admin))
	require.NoError(t, err)

	after, err := ms.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, before.Found.Pending-1, after.Found.Pending)
	assert.EqualValues(t, before.Found.Approved+1, after.Found.Approved)
	assert.EqualValues(t, before.Found.Total, after.Found.Total)
}

func TestParseEventTimestamp(t *testing.T) {
	for _, ok := range []string{"2024-01-15T14:30:00", "2024-01-15T14:30:00Z", "2024-01-15"} {
		_, err := ParseEventTimestamp(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "15/01/2024", "yesterday"} {
		_, err := ParseEventTimestamp(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}
