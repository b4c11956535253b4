// Package service implements the blog's application services: credential
// authentication, access/refresh token lifecycle with rotation and theft
// detection, email verification, and the account/post/tag operations built
// on top of them.
package service

import (
	"time"

	"go.uber.org/zap"
)

const tracerName = "github.com/smallpress/blog-backend/internal/service"

// audit emits a structured audit record for security-relevant events.
func audit(logger *zap.Logger, event string, attrs ...any) {
	if logger == nil {
		logger = zap.L()
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}
