package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talash/api-go/services"
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// respondError maps the service failure taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrIdentityMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "success": false})
	case errors.Is(err, services.ErrUploadFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "File upload failed", "success": false})
	case errors.Is(err, services.ErrUpstreamTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Upstream service timed out", "success": false})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "success": false})
	}
}
