package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/smallpress/blog-backend/internal/config"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer runs a gin.Engine and drains in-flight requests on stop.
type HTTPServer struct {
	Engine          *gin.Engine
	shutdownTimeout time.Duration
}

// NewHTTPServer wraps the router. Shutdown waits at most
// cfg.ShutdownTimeout for open connections before giving up.
func NewHTTPServer(router *gin.Engine, cfg config.Config) *HTTPServer {
	router.HandleMethodNotAllowed = true
	router.ForwardedByClientIP = true

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &HTTPServer{Engine: router, shutdownTimeout: timeout}
}

// Run serves on addr until ctx is done, then drains and returns.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Engine,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
