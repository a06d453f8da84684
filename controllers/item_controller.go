package controllers

import (
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/talash/api-go/models"
	"github.com/talash/api-go/services"
	"github.com/talash/api-go/utils"
	"gorm.io/gorm"
)

type ItemController struct {
	DB         *gorm.DB
	Accounts   *services.AccountService
	Moderation *services.ModerationService
}

func NewItemController(db *gorm.DB, moderation *services.ModerationService) *ItemController {
	return &ItemController{
		DB:         db,
		Accounts:   services.NewAccountService(db),
		Moderation: moderation,
	}
}

// ReportFoundItem handles the multipart found-item submission form.
func (ic *ItemController) ReportFoundItem(c *gin.Context) {
	ic.reportItem(c, services.VariantFound, "date_found")
}

func (ic *ItemController) ReportLostItem(c *gin.Context) {
	ic.reportItem(c, services.VariantLost, "date_lost")
}

func (ic *ItemController) reportItem(c *gin.Context, variant services.Variant, dateField string) {
	user := utils.GetUser(c)

	owner, err := ic.Accounts.GetByID(user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if owner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found in database", "success": false})
		return
	}

	image, err := ic.readImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var category *string
	if v := c.PostForm("category"); v != "" {
		category = &v
	}

	listing, err := ic.Moderation.CreateListing(c.Request.Context(), owner, services.CreateListingInput{
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
		Message: "Item reported successfully",
	})
}

// readImage pulls the uploaded file out of the form and enforces the type
// and size limits. The file is required, as it was in the reporting form.
func (ic *ItemController) readImage(c *gin.Context) (*services.ImageUpload, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, services.ErrInvalidInput
	}
	if !utils.ValidImageExt(fileHeader.Filename) {
		return nil, services.ErrInvalidInput
	}
	if !utils.ValidFileSize(fileHeader.Size) {
		return nil, services.ErrInvalidInput
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, services.ErrUploadFailed
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, services.ErrUploadFailed
	}

	return &services.ImageUpload{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Ext:         filepath.Ext(utils.SanitizeFilename(fileHeader.Filename)),
	}, nil
}

// GetFoundItems is the public found-item feed; it defaults to approved
// items only.
func (ic *ItemController) GetFoundItems(c *gin.Context) {
	ic.listItems(c, services.VariantFound)
}

func (ic *ItemController) GetLostItems(c *gin.Context) {
	ic.listItems(c, services.VariantLost)
}

func (ic *ItemController) listItems(c *gin.Context, variant services.Variant) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	statusFilter := c.DefaultQuery("status_filter", models.StatusApproved)

	items, total, err := ic.Moderation.ListListings(variant, statusFilter, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"pagination": PaginationMeta{
			CurrentPage: skip/limit + 1,
			PageSize:    limit,
			TotalItems:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (ic *ItemController) GetFoundItem(c *gin.Context) {
	ic.getItem(c, services.VariantFound)
}

func (ic *ItemController) GetLostItem(c *gin.Context) {
	ic.getItem(c, services.VariantLost)
}

func (ic *ItemController) getItem(c *gin.Context, variant services.Variant) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id", "success": false})
		return
	}

	listing, err := ic.Moderation.GetListing(variant, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "item": listing})
}

// GetMyFoundItems returns the caller's own reports, every status included.
func (ic *ItemController) GetMyFoundItems(c *gin.Context) {
	ic.listOwned(c, services.VariantFound)
}

func (ic *ItemController) GetMyLostItems(c *gin.Context) {
	ic.listOwned(c, services.VariantLost)
}

func (ic *ItemController) listOwned(c *gin.Context, variant services.Variant) {
	user := utils.GetUser(c)

	items, err := ic.Moderation.ListOwned(variant, user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   items,
		"total":   len(items),
	})
}

// DeleteFoundItem removes the caller's own report and its image.
func (ic *ItemController) DeleteFoundItem(c *gin.Context) {
	ic.deleteItem(c, services.VariantFound)
}

func (ic *ItemController) DeleteLostItem(c *gin.Context) {
	ic.deleteItem(c, services.VariantLost)
}

func (ic *ItemController) deleteItem(c *gin.Context, variant services.Variant) {
	user := utils.GetUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id", "success": false})
		return
	}

	actor := services.Actor{ID: user.UserID, Role: user.Role}
	if err := ic.Moderation.DeleteListing(c.Request.Context(), variant, uint(id), actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item deleted successfully"})
}
