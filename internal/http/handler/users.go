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

// userResponse is the account view returned over HTTP. Password fields never
// appear. Status flags are only filled for superuser callers.
type userResponse struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	IsSuperuser  *bool      `json:"is_superuser,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
	IsVerified   *bool      `json:"is_verified,omitempty"`
}

func newUserResponse(a domain.Account, admin bool) userResponse {
	resp := userResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
	}
	if admin {
		resp.RegisteredAt = &a.RegisteredAt
		resp.IsSuperuser = &a.IsSuperuser
		resp.IsActive = &a.IsActive
		resp.IsVerified = &a.IsVerified
	}
	return resp
}

// UserHandler serves account reads.
type UserHandler struct {
	Users *service.Users
}

func NewUserHandler(users *service.Users) *UserHandler {
	return &UserHandler{Users: users}
}

// List returns active accounts; superusers see the status fields.
func (h *UserHandler) List(c *gin.Context) {
	claims, ok := middleware.GetAccessClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token_invalid", "error_description": "Authentication required."})
		return
	}

	accounts, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, newUserResponse(account, claims.IsSuperuser))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	account, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(account, false))
}
