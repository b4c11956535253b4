package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/repository"
)

// PostInput is the create/update payload for a post.
type PostInput struct {
	Title     string
	Content   string
	Published *bool
	TagIDs    []int64
}

// Posts implements ownership-gated CRUD over blog posts.
type Posts struct {
	posts  repository.PostRepository
	tags   repository.TagRepository
	node   *snowflake.Node
	logger *zap.Logger
	tracer trace.Tracer
}

func NewPosts(posts repository.PostRepository, tags repository.TagRepository, node *snowflake.Node, logger *zap.Logger) *Posts {
	return &Posts{
		posts:  posts,
		tags:   tags,
		node:   node,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

func (s *Posts) Create(ctx context.Context, authorID int64, input PostInput) (domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "Posts.Create")
	defer span.End()

	published := true
	if input.Published != nil {
		published = *input.Published
	}

	if err := s.checkTagOwnership(ctx, authorID, input.TagIDs); err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		ID:        s.node.Generate().Int64(),
		UserID:    authorID,
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Published: published,
	}
	created, err := s.posts.Create(ctx, post, input.TagIDs)
	if err != nil {
		span.RecordError(err)
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// ListPublished returns the public feed.
func (s *Posts) ListPublished(ctx context.Context) ([]domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "Posts.ListPublished")
	defer span.End()

	return s.posts.ListPublished(ctx)
}

// ListByUser returns every post of one author, published or not.
func (s *Posts) ListByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "Posts.ListByUser")
	defer span.End()

	return s.posts.ListByUser(ctx, userID)
}

// Get returns a published post.
func (s *Posts) Get(ctx context.Context, id int64) (domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "Posts.Get")
	defer span.End()

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if !post.Published {
		return domain.Post{}, domain.ErrNotFound
	}
	return post, nil
}

// Update edits a post owned by callerID.
func (s *Posts) Update(ctx context.Context, callerID, postID int64, input PostInput) (domain.Post, error) {
	ctx, span := s.tracer.Start(ctx, "Posts.Update")
	defer span.End()

	existing, err := s.checkAuthor(ctx, callerID, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if err := s.checkTagOwnership(ctx, callerID, input.TagIDs); err != nil {
		return domain.Post{}, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		existing.Title = title
	}
	if input.Content != "" {
		existing.Content = input.Content
	}
	if input.Published != nil {
		existing.Published = *input.Published
	}

	updated, err := s.posts.Update(ctx, existing, input.TagIDs)
	if err != nil {
		span.RecordError(err)
		return domain.Post{}, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// Delete removes a post owned by callerID.
func (s *Posts) Delete(ctx context.Context, callerID, postID int64) error {
	ctx, span := s.tracer.Start(ctx, "Posts.Delete")
	defer span.End()

	if _, err := s.checkAuthor(ctx, callerID, postID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

func (s *Posts) checkAuthor(ctx context.Context, callerID, postID int64) (domain.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if post.UserID != callerID {
		audit(s.logger, "post.forbidden", "user_id", callerID, "post_id", postID)
		return domain.Post{}, domain.ErrForbidden
	}
	return post, nil
}

func (s *Posts) checkTagOwnership(ctx context.Context, callerID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		tag, err := s.tags.GetByID(ctx, tagID)
		if err != nil {
			return err
		}
		if tag.UserID != callerID {
			return domain.ErrForbidden
		}
	}
	return nil
}
