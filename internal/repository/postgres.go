package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallpress/blog-backend/internal/domain"
)

// Compile-time interface assertions.
var (
	_ AccountRepository      = (*PostgresAccountRepo)(nil)
	_ RefreshTokenRepository = (*PostgresRefreshTokenRepo)(nil)
	_ PostRepository         = (*PostgresPostRepo)(nil)
	_ TagRepository          = (*PostgresTagRepo)(nil)
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx, so the same statements
// run inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresAccountRepo implements AccountRepository over pgx.
type PostgresAccountRepo struct {
	db querier
}

func NewPostgresAccountRepo(pool *pgxpool.Pool) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: pool}
}

const insertAccountSQL = `INSERT INTO account (id, username, email, password, is_superuser, is_active, is_verified)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, username, email, password, registered_at, is_superuser, is_active, is_verified`

func (r *PostgresAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	row := r.db.QueryRow(ctx, insertAccountSQL,
		account.ID,
		account.Username,
		account.Email,
		account.Password,
		account.IsSuperuser,
		account.IsActive,
		account.IsVerified,
	)
	created, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

const selectAccountSQL = `SELECT id, username, email, password, registered_at, is_superuser, is_active, is_verified
FROM account`

func (r *PostgresAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRow(ctx, selectAccountSQL+` WHERE email = $1`, email)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	row := r.db.QueryRow(ctx, selectAccountSQL+` WHERE id = $1`, id)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, selectAccountSQL+` WHERE is_active = true ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *PostgresAccountRepo) SetVerified(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE account SET is_verified = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.Password,
		&a.RegisteredAt,
		&a.IsSuperuser,
		&a.IsActive,
		&a.IsVerified,
	)
	return a, err
}

// PostgresRefreshTokenRepo implements RefreshTokenRepository over pgx.
type PostgresRefreshTokenRepo struct {
	pool *pgxpool.Pool
	db   querier
}

func NewPostgresRefreshTokenRepo(pool *pgxpool.Pool) *PostgresRefreshTokenRepo {
	return &PostgresRefreshTokenRepo{pool: pool, db: pool}
}

func (r *PostgresRefreshTokenRepo) Save(ctx context.Context, userID int64, token string) error {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO refresh_token (user_id, token) VALUES ($1, $2)`,
		userID, token,
	); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRefreshTokenRepo) DeleteByValue(ctx context.Context, token string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`DELETE FROM refresh_token WHERE token = $1 RETURNING id`,
		token,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("delete refresh token: %w", err)
	}
	return id, nil
}

func (r *PostgresRefreshTokenRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM refresh_token WHERE user_id = $1`,
		userID,
	); err != nil {
		return fmt.Errorf("delete user refresh tokens: %w", err)
	}
	return nil
}

func (r *PostgresRefreshTokenRepo) ListForUser(ctx context.Context, userID int64) ([]domain.RefreshToken, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, token FROM refresh_token WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list refresh tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.RefreshToken
	for rows.Next() {
		var t domain.RefreshToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token); err != nil {
			return nil, fmt.Errorf("scan refresh token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *PostgresRefreshTokenRepo) IsSuperuser(ctx context.Context, userID int64) (bool, error) {
	var isSuperuser bool
	err := r.db.QueryRow(ctx,
		`SELECT is_superuser FROM account WHERE id = $1`,
		userID,
	).Scan(&isSuperuser)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("lookup is_superuser: %w", err)
	}
	return isSuperuser, nil
}

func (r *PostgresRefreshTokenRepo) InTx(ctx context.Context, fn func(ctx context.Context, repo RefreshTokenRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &PostgresRefreshTokenRepo{pool: r.pool, db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// PostgresPostRepo implements PostRepository over pgx.
type PostgresPostRepo struct {
	db querier
}

func NewPostgresPostRepo(pool *pgxpool.Pool) *PostgresPostRepo {
	return &PostgresPostRepo{db: pool}
}

const insertPostSQL = `INSERT INTO post (id, user_id, title, content, published)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, title, content, published, created_at`

func (r *PostgresPostRepo) Create(ctx context.Context, post domain.Post, tagIDs []int64) (domain.Post, error) {
	row := r.db.QueryRow(ctx, insertPostSQL,
		post.ID, post.UserID, post.Title, post.Content, post.Published,
	)
	created, err := scanPost(row)
	if err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	if err := r.replaceTags(ctx, created.ID, tagIDs); err != nil {
		return domain.Post{}, err
	}
	created.Tags, err = r.tagsForPost(ctx, created.ID)
	if err != nil {
		return domain.Post{}, err
	}
	return created, nil
}

const selectPostSQL = `SELECT id, user_id, title, content, published, created_at FROM post`

func (r *PostgresPostRepo) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	row := r.db.QueryRow(ctx, selectPostSQL+` WHERE id = $1`, id)
	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Post{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("get post: %w", err)
	}
	post.Tags, err = r.tagsForPost(ctx, post.ID)
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (r *PostgresPostRepo) ListPublished(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, selectPostSQL+` WHERE published = true ORDER BY created_at DESC`)
}

func (r *PostgresPostRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	return r.list(ctx, selectPostSQL+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostgresPostRepo) list(ctx context.Context, sql string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Tags, err = r.tagsForPost(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return posts, nil
}

const updatePostSQL = `UPDATE post SET title = $2, content = $3, published = $4 WHERE id = $1
RETURNING id, user_id, title, content, published, created_at`

func (r *PostgresPostRepo) Update(ctx context.Context, post domain.Post, tagIDs []int64) (domain.Post, error) {
	row := r.db.QueryRow(ctx, updatePostSQL, post.ID, post.Title, post.Content, post.Published)
	updated, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Post{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("update post: %w", err)
	}
	if tagIDs != nil {
		if err := r.replaceTags(ctx, updated.ID, tagIDs); err != nil {
			return domain.Post{}, err
		}
	}
	updated.Tags, err = r.tagsForPost(ctx, updated.ID)
	if err != nil {
		return domain.Post{}, err
	}
	return updated, nil
}

func (r *PostgresPostRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM post WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresPostRepo) replaceTags(ctx context.Context, postID int64, tagIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM post_tag WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO post_tag (post_id, tag_id) VALUES ($1, $2)`,
			postID, tagID,
		); err != nil {
			return fmt.Errorf("attach tag: %w", err)
		}
	}
	return nil
}

func (r *PostgresPostRepo) tagsForPost(ctx context.Context, postID int64) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.user_id, t.name, t.created_at
		 FROM tag t JOIN post_tag pt ON pt.tag_id = t.id
		 WHERE pt.post_id = $1 ORDER BY t.id`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("post tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func scanPost(row pgx.Row) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Published, &p.CreatedAt)
	return p, err
}

// PostgresTagRepo implements TagRepository over pgx.
type PostgresTagRepo struct {
	db querier
}

func NewPostgresTagRepo(pool *pgxpool.Pool) *PostgresTagRepo {
	return &PostgresTagRepo{db: pool}
}

func (r *PostgresTagRepo) Create(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO tag (id, user_id, name) VALUES ($1, $2, $3)
		 RETURNING id, user_id, name, created_at`,
		tag.ID, tag.UserID, tag.Name,
	)
	var created domain.Tag
	if err := row.Scan(&created.ID, &created.UserID, &created.Name, &created.CreatedAt); err != nil {
		return domain.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return created, nil
}

func (r *PostgresTagRepo) GetByID(ctx context.Context, id int64) (domain.Tag, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, created_at FROM tag WHERE id = $1`, id)
	var t domain.Tag
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Tag{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Tag{}, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

func (r *PostgresTagRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, created_at FROM tag WHERE user_id = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *PostgresTagRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tag WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
