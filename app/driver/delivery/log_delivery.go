package delivery

import (
	"context"
	"log/slog"
)

// LogDelivery is the development stand-in for the real reset-token delivery
// channel. It records that a delivery happened without ever logging the
// token itself.
type LogDelivery struct {
	logger *slog.Logger
}

// NewLogDelivery creates a log-only delivery channel
func NewLogDelivery(logger *slog.Logger) *LogDelivery {
	return &LogDelivery{
		logger: logger.With("component", "reset_delivery"),
	}
}

// Deliver implements port.ResetDelivery
func (d *LogDelivery) Deliver(ctx context.Context, email, token string) error {
	// The plaintext token must not appear in logs; only its length does.
	d.logger.Info("reset token dispatched", "email", email, "token_length", len(token))
	return nil
}
