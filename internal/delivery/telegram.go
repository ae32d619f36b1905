package delivery

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramSender is the part of *bot.Bot used for delivery.
type TelegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramChannel mirrors notices into the chat a user linked to their account.
type TelegramChannel struct {
	sender TelegramSender
}

var _ Channel = (*TelegramChannel)(nil)

func NewTelegramChannel(sender TelegramSender) *TelegramChannel {
	return &TelegramChannel{sender: sender}
}

func (c *TelegramChannel) Name() string { return "telegram" }

func (c *TelegramChannel) Send(ctx context.Context, msg *Message) error {
	if msg.To.TelegramChatID == nil || msg.Text == "" {
		return ErrSkipped
	}

	_, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *msg.To.TelegramChatID,
		Text:   msg.PlainText(),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
