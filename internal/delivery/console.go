package delivery

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleChannel writes emails to the log instead of sending them.
type ConsoleChannel struct {
	from   string
	logger *zap.Logger
}

var _ Channel = (*ConsoleChannel)(nil)

func NewConsoleChannel(from string, logger *zap.Logger) *ConsoleChannel {
	return &ConsoleChannel{from: from, logger: logger}
}

func (c *ConsoleChannel) Name() string { return "email" }

func (c *ConsoleChannel) Send(_ context.Context, msg *Message) error {
	if msg.To.Email == "" {
		return ErrSkipped
	}
	c.logger.Info("Email",
		zap.String("from", c.from),
		zap.String("to", msg.To.Email),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.PlainText()),
		zap.Int("html_bytes", len(msg.HTML)),
	)
	return nil
}

// NoopChannel stands in for an unconfigured email provider.
type NoopChannel struct {
	logger *zap.Logger
}

var _ Channel = (*NoopChannel)(nil)

func NewNoopChannel(logger *zap.Logger) *NoopChannel {
	return &NoopChannel{logger: logger}
}

func (c *NoopChannel) Name() string { return "email" }

func (c *NoopChannel) Send(_ context.Context, msg *Message) error {
	c.logger.Warn("Skipping email, provider not configured",
		zap.String("to", msg.To.Email),
		zap.String("subject", msg.Subject),
	)
	return ErrSkipped
}
