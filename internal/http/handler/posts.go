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

type postResponse struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Published bool          `json:"published"`
	CreatedAt time.Time     `json:"created_at"`
	Tags      []tagResponse `json:"tags"`
}

func newPostResponse(p domain.Post) postResponse {
	tags := make([]tagResponse, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, newTagResponse(t))
	}
	return postResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		Tags:      tags,
	}
}

type postRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Published *bool   `json:"published"`
	TagIDs    []int64 `json:"tag_ids"`
}

// PostHandler serves post CRUD.
type PostHandler struct {
	Posts *service.Posts
}

func NewPostHandler(posts *service.Posts) *PostHandler {
	return &PostHandler{Posts: posts}
}

func (h *PostHandler) Create(c *gin.Context) {
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

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}
	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Title and content are required."})
		return
	}

	created, err := h.Posts.Create(c.Request.Context(), callerID, service.PostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		TagIDs:    req.TagIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(created))
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Posts.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostListResponse(posts))
}

func (h *PostHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}
	posts, err := h.Posts.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostListResponse(posts))
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}
	post, err := h.Posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(post))
}

func (h *PostHandler) Update(c *gin.Context) {
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
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid payload."})
		return
	}

	updated, err := h.Posts.Update(c.Request.Context(), callerID, postID, service.PostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		TagIDs:    req.TagIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(updated))
}

func (h *PostHandler) Delete(c *gin.Context) {
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
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	if err := h.Posts.Delete(c.Request.Context(), callerID, postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nil)
}

func newPostListResponse(posts []domain.Post) []postResponse {
	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, newPostResponse(p))
	}
	return resp
}
