package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/http/middleware"
	"github.com/smallpress/blog-backend/internal/service"
)

type tagResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newTagResponse(t domain.Tag) tagResponse {
	return tagResponse{ID: t.ID, UserID: t.UserID, Name: t.Name, CreatedAt: t.CreatedAt}
}

type tagRequest struct {
	Name string `json:"name"`
}

// TagHandler serves tag management for post authors.
type TagHandler struct {
	Tags *service.Tags
}

func NewTagHandler(tags *service.Tags) *TagHandler {
	return &TagHandler{Tags: tags}
}

func (h *TagHandler) Create(c *gin.Context) {
	claims, ok := middleware.GetAccessClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token_invalid", "error_description": "Authentication required."})
		return
	}
	callerID, err := claims.UserID()
	if err != nil {
		respondError(c, err)
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Tag name is required."})
		return
	}

	created, err := h.Tags.Create(c.Request.Context(), callerID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTagResponse(created))
}

func (h *TagHandler) List(c *gin.Context) {
	claims, ok := middleware.GetAccessClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token_invalid", "error_description": "Authentication required."})
		return
	}
	callerID, err := claims.UserID()
	if err != nil {
		respondError(c, err)
		return
	}

	tags, err := h.Tags.ListByUser(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, newTagResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TagHandler) Delete(c *gin.Context) {
	claims, ok := middleware.GetAccessClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token_invalid", "error_description": "Authentication required."})
		return
	}
	callerID, err := claims.UserID()
	if err != nil {
		respondError(c, err)
		return
	}
	tagID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	if err := h.Tags.Delete(c.Request.Context(), callerID, tagID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nil)
}
