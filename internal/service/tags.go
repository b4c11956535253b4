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

// Tags implements ownership-gated CRUD over tags.
type Tags struct {
	tags   repository.TagRepository
	logger *zap.Logger
	node   *snowflake.Node
	tracer trace.Tracer
}

func NewTags(tags repository.TagRepository, node *snowflake.Node, logger *zap.Logger) *Tags {
	return &Tags{
		tags:   tags,
		node:   node,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

func (s *Tags) Create(ctx context.Context, callerID int64, name string) (domain.Tag, error) {
	ctx, span := s.tracer.Start(ctx, "Tags.Create")
	defer span.End()

	tag := domain.Tag{
		ID:     s.node.Generate().Int64(),
		UserID: callerID,
		Name:   strings.TrimSpace(name),
	}
	created, err := s.tags.Create(ctx, tag)
	if err != nil {
		span.RecordError(err)
		return domain.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return created, nil
}

func (s *Tags) ListByUser(ctx context.Context, userID int64) ([]domain.Tag, error) {
	ctx, span := s.tracer.Start(ctx, "Tags.ListByUser")
	defer span.End()

	return s.tags.ListByUser(ctx, userID)
}

func (s *Tags) Delete(ctx context.Context, callerID, tagID int64) error {
	ctx, span := s.tracer.Start(ctx, "Tags.Delete")
	defer span.End()

	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag.UserID != callerID {
		return domain.ErrForbidden
	}
	return s.tags.Delete(ctx, tagID)
}
