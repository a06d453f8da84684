package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/talash/api-go/models"
	"github.com/talash/api-go/services"
	"github.com/talash/api-go/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	DB         *gorm.DB
	Accounts   *services.AccountService
	Moderation *services.ModerationService
}

func NewAdminController(db *gorm.DB, moderation *services.ModerationService) *AdminController {
	return &AdminController{
		DB:         db,
		Accounts:   services.NewAccountService(db),
		Moderation: moderation,
	}
}

func (adc *AdminController) requireAdmin(c *gin.Context) *utils.UserClaims {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "success": false})
		return nil
	}
	if user.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Admin privileges required.", "success": false})
		return nil
	}
	return user
}

func parseVariant(c *gin.Context) (services.Variant, bool) {
	variant := services.Variant(c.Param("variant"))
	if !variant.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown listing variant", "success": false})
		return "", false
	}
	return variant, true
}

// Dashboard returns the review counters for both item tables.
func (adc *AdminController) Dashboard(c *gin.Context) {
	user := adc.requireAdmin(c)
	if user == nil {
		return
	}

	admin, err := adc.Accounts.GetByID(user.UserID)
	if err != nil || admin == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin user not found", "success": false})
		return
	}

	stats, err := adc.Moderation.Stats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"admin":      gin.H{"id": admin.ID, "name": admin.Name, "email": admin.Email},
		"statistics": stats,
	})
}

// ListItems is the admin review queue: any status filter including "all",
// for either variant.
func (adc *AdminController) ListItems(c *gin.Context) {
	if adc.requireAdmin(c) == nil {
		return
	}
	variant, ok := parseVariant(c)
	if !ok {
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	statusFilter := c.DefaultQuery("status", models.StatusPending)

	items, total, err := adc.Moderation.ListListings(variant, statusFilter, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": items, "total": total})
}

// ApproveItem moves a pending item to approved. The moderation engine
// enforces role before existence, so the handler stays thin.
func (adc *AdminController) ApproveItem(c *gin.Context) {
	adc.review(c, adc.Moderation.Approve, "Item approved successfully")
}

func (adc *AdminController) RejectItem(c *gin.Context) {
	adc.review(c, adc.Moderation.Reject, "Item rejected successfully")
}

func (adc *AdminController) review(c *gin.Context, op func(services.Variant, uint, services.Actor) (*services.Listing, error), message string) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context", "success": false})
		return
	}
	variant, ok := parseVariant(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id", "success": false})
		return
	}

	actor := services.Actor{ID: user.UserID, Role: user.Role}
	listing, err := op(variant, uint(id), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "item": listing})
}

// AddItem lets an admin report an item directly; admin submissions start
// out approved, bypassing review.
func (adc *AdminController) AddItem(c *gin.Context) {
	user := adc.requireAdmin(c)
	if user == nil {
		return
	}
	variant, ok := parseVariant(c)
	if !ok {
		return
	}

	admin, err := adc.Accounts.GetByID(user.UserID)
	if err != nil || admin == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin user not found", "success": false})
		return
	}

	dateField := "date_found"
	if variant == services.VariantLost {
		dateField = "date_lost"
	}

	items := ItemController{DB: adc.DB, Accounts: adc.Accounts, Moderation: adc.Moderation}
	image, err := items.readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var category *string
	if v := c.PostForm("category"); v != "" {
		category = &v
	}

	listing, err := adc.Moderation.CreateListing(c.Request.Context(), admin, services.CreateListingInput{
		Variant:        variant,
		Description:    c.PostForm("description"),
		Location:       c.PostForm("location"),
		EventTimestamp: c.PostForm(dateField),
		Category:       category,
		Image:          image,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    listing,
		Message: "Item added successfully",
	})
}
