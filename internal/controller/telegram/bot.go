package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/service"
)

const (
	startText = "👋 Hi! This bot forwards your course notifications.\n\n" +
		"Open your profile on the course site, copy the /link command and send it here."
	helpText = "📚 Commands:\n\n" +
		"/link <token> - Connect this chat to your course account\n" +
		"/help - Show this help\n\n" +
		"To stop notifications, unlink Telegram from your profile page."
	linkUsageText   = "Usage: /link <token>\n\nGet a token from your profile page."
	linkInvalidText = "❌ This link token is invalid or has expired. Request a new one from your profile page."
	linkFailedText  = "❌ Something went wrong. Please try again later."
)

// UserLinker stores the chat a user linked.
type UserLinker interface {
	SetTelegramChat(ctx context.Context, userID int64, chatID *int64) (*model.User, error)
}

// LinkTokenParser resolves a link token into a user id.
type LinkTokenParser interface {
	ParseLinkToken(token string) (int64, error)
}

type BotController struct {
	sender delivery.TelegramSender
	users  UserLinker
	tokens LinkTokenParser
	logger *zap.Logger
}

func NewBotController(
	sender delivery.TelegramSender,
	users UserLinker,
	tokens LinkTokenParser,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		sender: sender,
		users:  users,
		tokens: tokens,
		logger: logger.Named("telegram"),
	}
}

// RegisterHandlers registers the bot commands and the command menu.
func (c *BotController) RegisterHandlers(ctx context.Context, b *bot.Bot) error {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.HandleHelp)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/link", bot.MatchTypePrefix, c.HandleLink)

	_, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: []models.BotCommand{
			{Command: "link", Description: "🔗 Connect your course account"},
			{Command: "help", Description: "❓ Help"},
		},
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}
	return nil
}

// HandleStart greets a new chat.
func (c *BotController) HandleStart(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.sendMessage(ctx, update.Message.Chat.ID, startText)
}

func (c *BotController) HandleHelp(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	c.sendMessage(ctx, update.Message.Chat.ID, helpText)
}

// HandleLink connects the chat to the account named by the link token.
func (c *BotController) HandleLink(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	fields := strings.Fields(update.Message.Text)
	if len(fields) != 2 || fields[0] != "/link" {
		c.sendMessage(ctx, chatID, linkUsageText)
		return
	}

	userID, err := c.tokens.ParseLinkToken(fields[1])
	if err != nil {
		c.logger.Info("Rejected link token", zap.Int64("chat_id", chatID), zap.Error(err))
		c.sendMessage(ctx, chatID, linkInvalidText)
		return
	}

	user, err := c.users.SetTelegramChat(ctx, userID, &chatID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.sendMessage(ctx, chatID, linkInvalidText)
			return
		}
		c.logger.Error("Failed to link chat", zap.Int64("user_id", userID), zap.Error(err))
		c.sendMessage(ctx, chatID, linkFailedText)
		return
	}

	c.logger.Info("Chat linked", zap.Int64("user_id", user.ID), zap.Int64("chat_id", chatID))
	c.sendMessage(ctx, chatID, "✅ Connected to "+user.Name+". Course notifications will appear here.")
}

// sendMessage sends text and logs on failure.
func (c *BotController) sendMessage(ctx context.Context, chatID int64, text string) {
	_, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		c.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
