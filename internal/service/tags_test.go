package service_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/service"
)

func newTagsFixture(t *testing.T, seed ...domain.Tag) (*service.Tags, *memoryTagRepo) {
	t.Helper()
	repo := newMemoryTagRepo(seed...)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return service.NewTags(repo, node, zap.NewNop()), repo
}

func TestCreateAndListTags(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTagsFixture(t)

	created, err := svc.Create(ctx, 10, "  golang ")
	require.NoError(t, err)
	require.Equal(t, "golang", created.Name)
	require.Equal(t, int64(10), created.UserID)

	mine, err := svc.ListByUser(ctx, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := svc.ListByUser(ctx, 99)
	require.NoError(t, err)
	require.Empty(t, theirs)
}

func TestDeleteTagOwnership(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTagsFixture(t, domain.Tag{ID: 5, UserID: 10, Name: "golang"})

	require.ErrorIs(t, svc.Delete(ctx, 99, 5), domain.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, 10, 404), domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, 10, 5))
	_, err := repo.GetByID(ctx, 5)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
