// Package handler contains the gin request handlers for the REST surface.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smallpress/blog-backend/internal/domain"
)

// respondError recovers domain errors into the structured JSON error shape;
// anything else is a 500.
func respondError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.Status, gin.H{
			"error":             domainErr.Code,
			"error_description": domainErr.Description,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":             "server_error",
		"error_description": "Internal server error.",
	})
}
