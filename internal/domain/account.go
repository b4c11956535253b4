package domain

import "time"

// Account represents a registered blog user.
type Account struct {
	ID           int64
	Username     string
	Email        string
	Password     string // hex(derived key) + hex(salt), see internal/password
	RegisteredAt time.Time
	IsSuperuser  bool
	IsActive     bool
	IsVerified   bool
}

// RefreshToken is one outstanding refresh token. A user may hold several
// concurrently (one per device); a token value maps to at most one live row.
type RefreshToken struct {
	ID     int64
	UserID int64
	Token  string
}
