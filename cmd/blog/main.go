package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallpress/blog-backend/internal/bootstrap"
	"github.com/smallpress/blog-backend/internal/config"
	httptransport "github.com/smallpress/blog-backend/internal/http"
	"github.com/smallpress/blog-backend/internal/http/handler"
	"github.com/smallpress/blog-backend/internal/http/middleware"
	"github.com/smallpress/blog-backend/internal/mail"
	"github.com/smallpress/blog-backend/internal/repository"
	"github.com/smallpress/blog-backend/internal/server"
	"github.com/smallpress/blog-backend/internal/service"
	"github.com/smallpress/blog-backend/internal/telemetry"
	"github.com/smallpress/blog-backend/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newAccountRepository,
			newRefreshTokenRepository,
			newPostRepository,
			newTagRepository,
			newMailDispatcher,
			newRateLimiter,
			token.NewCodec,
			service.NewAuthenticator,
			service.NewTokenLifecycle,
			service.NewVerification,
			service.NewUsers,
			service.NewPosts,
			service.NewTags,
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewPostHandler,
			handler.NewTagHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, runMigrations, bootstrap.EnsureAdmin, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newAccountRepository(pool *pgxpool.Pool) repository.AccountRepository {
	return repository.NewPostgresAccountRepo(pool)
}

func newRefreshTokenRepository(pool *pgxpool.Pool) repository.RefreshTokenRepository {
	return repository.NewPostgresRefreshTokenRepo(pool)
}

func newPostRepository(pool *pgxpool.Pool) repository.PostRepository {
	return repository.NewPostgresPostRepo(pool)
}

func newTagRepository(pool *pgxpool.Pool) repository.TagRepository {
	return repository.NewPostgresTagRepo(pool)
}

// newMailDispatcher publishes verification messages to redis when a broker is
// configured and falls back to logging them otherwise.
func newMailDispatcher(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (mail.Dispatcher, error) {
	if cfg.RedisAddr == "" {
		logger.Warn("no redis broker configured, verification mail will only be logged")
		return mail.NewLogDispatcher(logger), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return mail.NewRedisDispatcher(client, cfg.MailQueue), nil
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newAuthMiddleware(codec *token.Codec, cfg config.Config) *middleware.Auth {
	return &middleware.Auth{Codec: codec, Cfg: cfg}
}

func runMigrations(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repository.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("database migrations applied")
			return nil
		},
	})
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
