package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/config"
	"github.com/smallpress/blog-backend/internal/domain"
	"github.com/smallpress/blog-backend/internal/password"
	"github.com/smallpress/blog-backend/internal/repository"
)

// EnsureAdmin creates a verified superuser account at startup if missing.
// When ADMIN_EMAIL or ADMIN_PASSWORD is unset the step is skipped.
func EnsureAdmin(lc fx.Lifecycle, cfg config.Config, accounts repository.AccountRepository, node *snowflake.Node, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureAdmin(ctx, cfg, accounts, node, logger)
		},
	})
}

func ensureAdmin(ctx context.Context, cfg config.Config, accounts repository.AccountRepository, node *snowflake.Node, logger *zap.Logger) error {
	email := strings.TrimSpace(cfg.AdminEmail)
	if email == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	if _, err := accounts.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("bootstrap lookup account: %w", err)
	}

	hashed, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	created, err := accounts.Create(ctx, domain.Account{
		ID:           node.Generate().Int64(),
		Username:     "admin",
		Email:        email,
		Password:     hashed,
		RegisteredAt: time.Now().UTC(),
		IsSuperuser:  true,
		IsActive:     true,
		IsVerified:   true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap create account: %w", err)
	}

	if logger != nil {
		logger.Info("bootstrap admin account created",
			zap.String("email", created.Email),
			zap.Int64("user_id", created.ID),
		)
	}
	return nil
}
