package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/password"
	"github.com/smallpress/blog-backend/internal/service"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := password.Hash("password")
	require.NoError(t, err)

	accounts := newMemoryAccountRepo(domain.Account{
		ID:         10,
		Username:   "writer",
		Email:      "writer@example.com",
		Password:   hash,
		IsActive:   true,
		IsVerified: true,
	})
	auth := service.NewAuthenticator(accounts, zap.NewNop())

	userID, err := auth.Authenticate(ctx, "writer@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, int64(10), userID)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	auth := service.NewAuthenticator(newMemoryAccountRepo(), zap.NewNop())

	_, err := auth.Authenticate(context.Background(), "nobody@example.com", "password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	hash, err := password.Hash("password")
	require.NoError(t, err)

	accounts := newMemoryAccountRepo(domain.Account{
		ID: 10, Email: "writer@example.com", Password: hash, IsActive: true, IsVerified: true,
	})
	auth := service.NewAuthenticator(accounts, zap.NewNop())

	_, err = auth.Authenticate(context.Background(), "writer@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	ctx := context.Background()
	hash, err := password.Hash("password")
	require.NoError(t, err)

	accounts := newMemoryAccountRepo(domain.Account{
		ID: 10, Email: "writer@example.com", Password: hash, IsActive: true, IsVerified: false,
	})
	auth := service.NewAuthenticator(accounts, zap.NewNop())

	// Correct password on an unverified account reports the account state.
	_, err = auth.Authenticate(ctx, "writer@example.com", "password")
	require.ErrorIs(t, err, domain.ErrAccountNotActive)

	// Wrong password on the same account must not reveal the account state.
	_, err = auth.Authenticate(ctx, "writer@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
