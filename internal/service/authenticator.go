package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/password"
	"github.com/smallpress/blog-backend/internal/repository"
)

// Authenticator verifies credentials against stored account state and yields
// the internal user identity.
type Authenticator struct {
	accounts repository.AccountRepository
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewAuthenticator(accounts repository.AccountRepository, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		accounts: accounts,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

// Authenticate returns the account id for a valid email/password pair.
//
// An unknown email and a wrong password both come back as
// domain.ErrInvalidCredentials, so the response cannot be used to enumerate
// accounts. The credential check runs before the activation check: learning
// that an account is inactive requires already knowing its password. That
// ordering still leaks one bit (right password, unverified account responds
// differently than wrong password), which is accepted here rather than
// silently changed.
func (s *Authenticator) Authenticate(ctx context.Context, email, inputPassword string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "Authenticator.Authenticate")
	defer span.End()

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.ErrInvalidCredentials
	}
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("lookup account: %w", err)
	}

	if !password.Verify(inputPassword, account.Password) {
		audit(s.logger, "login.failure", "user_id", account.ID)
		return 0, domain.ErrInvalidCredentials
	}

	if !account.IsActive || !account.IsVerified {
		audit(s.logger, "login.blocked", "user_id", account.ID,
			"is_active", account.IsActive, "is_verified", account.IsVerified)
		return 0, domain.ErrAccountNotActive
	}

	audit(s.logger, "login.success", "user_id", account.ID)
	return account.ID, nil
}
