package repository

import (
	"context"

	"github.com/smallpress/blog-backend/internal/domain"
)

// AccountRepository exposes persistence for blog accounts.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	SetVerified(ctx context.Context, id int64) error
}

// RefreshTokenRepository is the store of outstanding refresh tokens. There is
// no upper bound on live tokens per user: every device login adds a row.
type RefreshTokenRepository interface {
	Save(ctx context.Context, userID int64, token string) error

	// DeleteByValue removes the row holding exactly this token value and
	// returns its id. domain.ErrNotFound signals the token was already
	// consumed or revoked, which the lifecycle service reads as replay.
	DeleteByValue(ctx context.Context, token string) (int64, error)

	// DeleteAllForUser is the theft response: every session for the user is
	// torn down at once.
	DeleteAllForUser(ctx context.Context, userID int64) error

	ListForUser(ctx context.Context, userID int64) ([]domain.RefreshToken, error)

	// IsSuperuser looks the flag up on the owning account so freshly minted
	// access tokens can be stamped without a second repository dependency.
	IsSuperuser(ctx context.Context, userID int64) (bool, error)

	// InTx runs fn against a repository bound to a single transaction. Token
	// rotation depends on this: of two requests racing to redeem one token,
	// exactly one may observe the live row.
	InTx(ctx context.Context, fn func(ctx context.Context, repo RefreshTokenRepository) error) error
}

// PostRepository persists blog posts and their tag attachments.
type PostRepository interface {
	Create(ctx context.Context, post domain.Post, tagIDs []int64) (domain.Post, error)
	GetByID(ctx context.Context, id int64) (domain.Post, error)
	ListPublished(ctx context.Context) ([]domain.Post, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Post, error)
	Update(ctx context.Context, post domain.Post, tagIDs []int64) (domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

// TagRepository persists tags.
type TagRepository interface {
	Create(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	GetByID(ctx context.Context, id int64) (domain.Tag, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}
