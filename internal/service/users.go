package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/password"
	"github.com/smallpress/blog-backend/internal/repository"
)

// RegisterInput is the registration payload. Password is supplied twice and
// must match.
type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// Users covers registration and account reads.
type Users struct {
	accounts     repository.AccountRepository
	verification *Verification
	node         *snowflake.Node
	logger       *zap.Logger
	tracer       trace.Tracer
}

func NewUsers(accounts repository.AccountRepository, verification *Verification, node *snowflake.Node, logger *zap.Logger) *Users {
	return &Users{
		accounts:     accounts,
		verification: verification,
		node:         node,
		logger:       logger,
		tracer:       otel.Tracer(tracerName),
	}
}

// Register creates an account (active, unverified) and fires the
// verification message. The created account is returned for the handler to
// shape; it still carries the password hash, which must not leave the
// process.
func (s *Users) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "Users.Register")
	defer span.End()

	if input.Password1 != input.Password2 {
		return domain.Account{}, domain.ErrPasswordMismatch
	}

	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return domain.Account{}, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return domain.Account{}, fmt.Errorf("check existing account: %w", err)
	}

	hashed, err := password.Hash(input.Password2)
	if err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:          s.node.Generate().Int64(),
		Username:    strings.TrimSpace(input.Username),
		Email:       input.Email,
		Password:    hashed,
		IsSuperuser: false,
		IsActive:    true,
		IsVerified:  false,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		span.RecordError(err)
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.verification.SendVerifyMessage(ctx, created)

	audit(s.logger, "account.registered", "user_id", created.ID)
	return created, nil
}

// List returns active accounts.
func (s *Users) List(ctx context.Context) ([]domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "Users.List")
	defer span.End()

	return s.accounts.List(ctx)
}

// Get returns one account by id.
func (s *Users) Get(ctx context.Context, id int64) (domain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "Users.Get")
	defer span.End()

	return s.accounts.GetByID(ctx, id)
}
