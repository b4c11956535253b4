package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/config"
	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/repository"
	"github.com/smallpress/blog-backend/internal/token"
)

// TokenPair is one freshly minted access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenLifecycle issues paired access/refresh tokens, rotates refresh tokens
// on use, and tears down every session of an account when a dead refresh
// token is replayed.
//
// Each refresh token value moves ISSUED -> REDEEMED (deleted during rotation)
// or ISSUED -> REVOKED (deleted by logout or mass revocation) and is never
// reused.
type TokenLifecycle struct {
	tokens repository.RefreshTokenRepository
	codec  *token.Codec
	cfg    config.Config
	logger *zap.Logger
	tracer trace.Tracer
}

func NewTokenLifecycle(tokens repository.RefreshTokenRepository, codec *token.Codec, cfg config.Config, logger *zap.Logger) *TokenLifecycle {
	return &TokenLifecycle{
		tokens: tokens,
		codec:  codec,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// CreateAuthTokens mints an access token (carrying sub and is_superuser) and
// a refresh token (sub only), persists the refresh token, and returns both.
func (s *TokenLifecycle) CreateAuthTokens(ctx context.Context, userID int64) (TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "TokenLifecycle.CreateAuthTokens")
	defer span.End()

	return s.mintPair(ctx, s.tokens, userID)
}

// RefreshAuthTokens redeems a refresh token for a fresh pair. The decoded
// token must verify under the refresh secret; expiry and tamper failures
// propagate as-is. The redeem-and-reissue sequence runs in one transaction so
// two requests racing on the same token value cannot both observe the live
// row.
func (s *TokenLifecycle) RefreshAuthTokens(ctx context.Context, refreshToken string) (TokenPair, error) {
	ctx, span := s.tracer.Start(ctx, "TokenLifecycle.RefreshAuthTokens")
	defer span.End()

	var claims token.RefreshClaims
	if err := s.codec.Decode(refreshToken, []byte(s.cfg.RefreshTokenSecret), false, &claims); err != nil {
		return TokenPair{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	err = s.tokens.InTx(ctx, func(ctx context.Context, repo repository.RefreshTokenRepository) error {
		if err := s.deleteUserTokensIfMissing(ctx, repo, refreshToken, userID); err != nil {
			return err
		}
		pair, err = s.mintPair(ctx, repo, userID)
		return err
	})
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// DeleteRefreshToken revokes the presented refresh token (logout). Expired
// tokens are still accepted here so a stale session can always log out;
// tampered ones are not. No new tokens are issued.
func (s *TokenLifecycle) DeleteRefreshToken(ctx context.Context, refreshToken string) error {
	ctx, span := s.tracer.Start(ctx, "TokenLifecycle.DeleteRefreshToken")
	defer span.End()

	var claims token.RefreshClaims
	if err := s.codec.Decode(refreshToken, []byte(s.cfg.RefreshTokenSecret), true, &claims); err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return err
	}

	return s.tokens.InTx(ctx, func(ctx context.Context, repo repository.RefreshTokenRepository) error {
		return s.deleteUserTokensIfMissing(ctx, repo, refreshToken, userID)
	})
}

// deleteUserTokensIfMissing is the shared reuse-check-and-revoke routine:
// deleting the presented token value is the expected single-use path; finding
// no row means the value was consumed or revoked earlier, and replay of a
// dead token is treated as theft, revoking every token the account holds.
// The triggering caller is told nothing about the teardown.
func (s *TokenLifecycle) deleteUserTokensIfMissing(ctx context.Context, repo repository.RefreshTokenRepository, refreshToken string, userID int64) error {
	_, err := repo.DeleteByValue(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		audit(s.logger, "refresh_token.replay", "user_id", userID)
		if err := repo.DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("revoke user tokens: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("redeem refresh token: %w", err)
	}
	return nil
}

func (s *TokenLifecycle) mintPair(ctx context.Context, repo repository.RefreshTokenRepository, userID int64) (TokenPair, error) {
	isSuperuser, err := repo.IsSuperuser(ctx, userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("stamp is_superuser: %w", err)
	}

	access, err := s.codec.Sign(
		[]byte(s.cfg.AccessTokenSecret),
		s.cfg.AccessTokenTTL,
		token.NewAccessClaims(userID, isSuperuser),
	)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint access token: %w", err)
	}

	refresh, err := s.codec.Sign(
		[]byte(s.cfg.RefreshTokenSecret),
		s.cfg.RefreshTokenTTL,
		token.NewRefreshClaims(userID),
	)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint refresh token: %w", err)
	}

	if err := repo.Save(ctx, userID, refresh); err != nil {
		return TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
