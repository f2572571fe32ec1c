package main

import (
	"go.uber.org/zap"

	"github.com/glebk/sati-bot/internal/dialog"
)

// logMessenger stands in for Telegram when the bot runs offline.
type logMessenger struct {
	logger *zap.Logger
	nextID int
}

func newLogMessenger(logger *zap.Logger) *logMessenger {
	return &logMessenger{logger: logger}
}

func (m *logMessenger) Send(chatID int64, msg dialog.Message) (dialog.MessageRef, error) {
	m.nextID++
	m.logger.Info("Send", zap.Int64("chat_id", chatID), zap.String("text", msg.Text))
	return dialog.MessageRef{ChatID: chatID, MessageID: m.nextID}, nil
}

func (m *logMessenger) Edit(ref dialog.MessageRef, msg dialog.Message) error {
	m.logger.Info("Edit",
		zap.Int64("chat_id", ref.ChatID),
		zap.Int("message_id", ref.MessageID),
		zap.String("text", msg.Text))
	return nil
}

func (m *logMessenger) ClearButtons(ref dialog.MessageRef) error {
	return nil
}

func (m *logMessenger) Answer(callbackID, text string) error {
	return nil
}

func (m *logMessenger) SendFile(chatID int64, path, caption string) error {
	m.logger.Info("SendFile", zap.Int64("chat_id", chatID), zap.String("path", path))
	return nil
}
