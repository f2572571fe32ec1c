package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/dialog"
	"github.com/glebk/sati-bot/internal/domain"
)

// Handler receives the decoded inbound events.
type Handler interface {
	HandleCommand(ctx context.Context, cmd dialog.Command) error
	HandleText(ctx context.Context, msg dialog.Text) error
	HandleCallback(ctx context.Context, cb dialog.Callback) error
}

// Bot represents the Telegram bot
type Bot struct {
	api     *tgbotapi.BotAPI
	handler Handler
	logger  *zap.Logger
}

// NewAPI authorizes against Telegram with token.
func NewAPI(token string, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Authorized on account", zap.String("username", api.Self.UserName))
	return api, nil
}

// New creates a new Bot instance
func New(api *tgbotapi.BotAPI, handler Handler, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		api:     api,
		handler: handler,
		logger:  logger,
	}
}

// Start polls for updates and handles them one at a time until ctx is done.
// It returns early when storage becomes unavailable.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handleUpdate(ctx, update); err != nil {
				if errors.Is(err, domain.ErrStorageUnavailable) {
					b.logger.Error("Storage unavailable, stopping bot", zap.Error(err))
					return err
				}
				b.logger.Error("Error handling update",
					zap.Int("update_id", update.UpdateID),
					zap.Error(err))
			}
		}
	}
}

// handleUpdate decodes one update and passes it to the handler.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
	return nil
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil {
		return nil
	}

	if message.IsCommand() {
		return b.handler.HandleCommand(ctx, dialog.Command{
			From:      toUser(message.From),
			ChatID:    message.Chat.ID,
			MessageID: message.MessageID,
			Name:      message.Command(),
			Args:      message.CommandArguments(),
		})
	}

	if message.Text == "" {
		return nil
	}
	return b.handler.HandleText(ctx, dialog.Text{
		From:      toUser(message.From),
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	})
}

// handleCallbackQuery handles inline button presses
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query.Message == nil || query.From == nil {
		return nil
	}
	return b.handler.HandleCallback(ctx, dialog.Callback{
		ID:   query.ID,
		From: toUser(query.From),
		Message: dialog.MessageRef{
			ChatID:    query.Message.Chat.ID,
			MessageID: query.Message.MessageID,
		},
		Data: query.Data,
	})
}

func toUser(u *tgbotapi.User) dialog.User {
	return dialog.User{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
