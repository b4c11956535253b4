package domain

import "time"

// Post is a blog entry owned by an account.
type Post struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	Published bool
	CreatedAt time.Time
	Tags      []Tag
}

// Tag labels posts and is owned by the account that created it.
type Tag struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}
