// Package bot adapts the intake pipeline to Telegram. The adapter owns
// nothing but transport: it resolves the profile user behind a chat,
// loads the session context, hands the message to the phase machine and
// saves the context back.
package bot

import (
	"context"
	"fmt"

	"github.com/aduro-health/intake-assistant/internal/intake"
	"github.com/aduro-health/intake-assistant/internal/logger"
	"github.com/aduro-health/intake-assistant/internal/services"
	"github.com/aduro-health/intake-assistant/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

const helpText = `I can help you with:
• Setting up your health profile
• Recording your CGM readings
• Creating personalized meal plans

Commands:
/start - Start or restart your intake
/help - Show this message

Just answer my questions and I'll guide you through the rest.`

type Bot struct {
	api      *tgbotapi.BotAPI
	profiles *services.ProfileService
	machine  *intake.Orchestrator
	sessions session.Manager
}

func NewBot(token string, profiles *services.ProfileService, machine *intake.Orchestrator, sessions session.Manager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	return &Bot{
		api:      api,
		profiles: profiles,
		machine:  machine,
		sessions: sessions,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				logger.Error("Error handling update", "error", err)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	userID, err := b.profiles.RegisterTelegramUser(ctx, message.From.ID)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	if message.IsCommand() {
		return b.handleCommand(ctx, message, userID)
	}

	conv, err := b.sessions.Load(ctx, userID)
	if err != nil {
		logger.Error("Failed to load session, starting fresh", "user_id", userID, "error", err)
	}
	if conv == nil {
		conv = intake.NewConversationContext(userID)
		conv.SessionID = uuid.NewString()
	}

	response := b.machine.Handle(ctx, message.Text, conv)

	if err := b.sessions.Save(ctx, userID, conv); err != nil {
		logger.Error("Failed to save session", "user_id", userID, "error", err)
	}

	return b.reply(message.Chat.ID, response)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message, userID uint) error {
	switch message.Command() {
	case "start":
		conv := intake.NewConversationContext(userID)
		conv.SessionID = uuid.NewString()
		response := b.machine.Handle(ctx, "", conv)
		if err := b.sessions.Save(ctx, userID, conv); err != nil {
			logger.Error("Failed to save session", "user_id", userID, "error", err)
		}
		return b.reply(message.Chat.ID, response)
	case "help":
		return b.reply(message.Chat.ID, helpText)
	default:
		return b.reply(message.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) reply(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
