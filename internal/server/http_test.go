package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/smallpress/blog-backend/internal/config"
	"github.com/smallpress/blog-backend/internal/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewHTTPServer(t *testing.T) {
	router := gin.New()
	srv := server.NewHTTPServer(router, config.Config{ShutdownTimeout: time.Second})

	require.Same(t, router, srv.Engine)
	require.True(t, router.HandleMethodNotAllowed)
	require.True(t, router.ForwardedByClientIP)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	router := gin.New()
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	srv := server.NewHTTPServer(router, config.Config{ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, "127.0.0.1:0")
	}()

	// Give the listener a moment to come up, then ask for shutdown.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not drain within the shutdown window")
	}
}
