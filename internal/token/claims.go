package token

import (
	"strconv"

	"github.com/smallpress/blog-backend/internal/domain"
)

// AccessClaims ride on the short-lived access token.
type AccessClaims struct {
	Subject     string `json:"sub"`
	IsSuperuser bool   `json:"is_superuser"`
}

// RefreshClaims ride on the persisted, single-use refresh token.
type RefreshClaims struct {
	Subject string `json:"sub"`
}

// VerificationClaims carry the registration payload inside an email
// verification token. Extra fields in the payload are tolerated on decode.
type VerificationClaims struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

func NewAccessClaims(userID int64, isSuperuser bool) AccessClaims {
	return AccessClaims{Subject: strconv.FormatInt(userID, 10), IsSuperuser: isSuperuser}
}

func NewRefreshClaims(userID int64) RefreshClaims {
	return RefreshClaims{Subject: strconv.FormatInt(userID, 10)}
}

// UserID parses the subject claim.
func (c AccessClaims) UserID() (int64, error) {
	return parseSubject(c.Subject)
}

// UserID parses the subject claim.
func (c RefreshClaims) UserID() (int64, error) {
	return parseSubject(c.Subject)
}

func parseSubject(sub string) (int64, error) {
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrTokenInvalid
	}
	return id, nil
}
