// Package mail hands verification messages to the delivery pipeline. The
// core only enqueues; an external worker owns SMTP transport, retries, and
// templating.
package mail

import (
	"context"

	"go.uber.org/zap"
)

// Message is one queued verification email.
type Message struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Dispatcher enqueues verification messages for asynchronous delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

// LogDispatcher records messages instead of delivering them. It backs
// development environments without a broker.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	if logger == nil {
		logger = zap.L()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, msg Message) error {
	d.logger.Info("verification mail (not delivered)",
		zap.String("email", msg.Email),
		zap.String("token", msg.Token),
	)
	return nil
}
