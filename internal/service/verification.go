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
	"github.com/smallpress/blog-backend/internal/mail"
	"github.com/smallpress/blog-backend/internal/repository"
	"github.com/smallpress/blog-backend/internal/token"
)

// Verification issues and redeems the single-use, time-boxed tokens that
// prove control of a registered email address. It signs under its own secret;
// auth tokens never validate here and vice versa.
type Verification struct {
	accounts   repository.AccountRepository
	codec      *token.Codec
	dispatcher mail.Dispatcher
	cfg        config.Config
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewVerification(accounts repository.AccountRepository, codec *token.Codec, dispatcher mail.Dispatcher, cfg config.Config, logger *zap.Logger) *Verification {
	return &Verification{
		accounts:   accounts,
		codec:      codec,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// SendVerifyMessage mints a verification token for the account and hands it
// to the mail dispatcher. Fire-and-forget: dispatch failures are logged, not
// surfaced, and nothing retries here.
func (s *Verification) SendVerifyMessage(ctx context.Context, account domain.Account) {
	ctx, span := s.tracer.Start(ctx, "Verification.SendVerifyMessage")
	defer span.End()

	verifyToken, err := s.codec.Sign(
		[]byte(s.cfg.VerifyTokenSecret),
		s.cfg.VerifyTokenTTL,
		token.VerificationClaims{ID: account.ID, Email: account.Email, Username: account.Username},
	)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("mint verification token", zap.Int64("user_id", account.ID), zap.Error(err))
		return
	}

	if err := s.dispatcher.Dispatch(ctx, mail.Message{Email: account.Email, Token: verifyToken}); err != nil {
		span.RecordError(err)
		s.logger.Error("dispatch verification mail", zap.Int64("user_id", account.ID), zap.Error(err))
		return
	}

	audit(s.logger, "verification.sent", "user_id", account.ID)
}

// Verify redeems a verification token and marks the account verified. This is
// the only path that flips is_verified.
func (s *Verification) Verify(ctx context.Context, rawToken string) error {
	ctx, span := s.tracer.Start(ctx, "Verification.Verify")
	defer span.End()

	var claims token.VerificationClaims
	if err := s.codec.Decode(rawToken, []byte(s.cfg.VerifyTokenSecret), false, &claims); err != nil {
		return err
	}

	account, err := s.accounts.GetByEmail(ctx, claims.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidToken
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("lookup account: %w", err)
	}

	// The token was minted for a specific user/email pair; if the account
	// behind the email changed identity since, the token must not redeem.
	if account.ID != claims.ID {
		audit(s.logger, "verification.mismatch", "user_id", account.ID, "claim_id", claims.ID)
		return domain.ErrInvalidToken
	}
	if account.IsVerified {
		return domain.ErrAlreadyActivated
	}

	if err := s.accounts.SetVerified(ctx, account.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("set verified: %w", err)
	}

	audit(s.logger, "verification.success", "user_id", account.ID)
	return nil
}
