package bot

import (
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/glebk/sati-bot/internal/dialog"
)

// sender is the part of *tgbotapi.BotAPI the messenger uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger delivers dialog messages through the Telegram Bot API.
// All text is sent in HTML parse mode.
type Messenger struct {
	api sender
}

// NewMessenger creates a new Messenger
func NewMessenger(api *tgbotapi.BotAPI) *Messenger {
	return &Messenger{api: api}
}

// Send sends a new message. Inline buttons take the place of any reply
// keyboard change, since a message carries one markup.
func (m *Messenger) Send(chatID int64, msg dialog.Message) (dialog.MessageRef, error) {
	out := tgbotapi.NewMessage(chatID, msg.Text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyToMessageID = msg.ReplyTo

	switch {
	case len(msg.Buttons) > 0:
		out.ReplyMarkup = inlineKeyboard(msg.Buttons)
	case len(msg.Menu) > 0:
		out.ReplyMarkup = replyKeyboard(msg.Menu)
	case msg.RemoveMenu:
		out.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	sent, err := m.api.Send(out)
	if err != nil {
		return dialog.MessageRef{}, fmt.Errorf("failed to send message: %w", err)
	}
	return dialog.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// Edit replaces the text of a sent message. Without buttons, the inline
// keyboard is removed.
func (m *Messenger) Edit(ref dialog.MessageRef, msg dialog.Message) error {
	var edit tgbotapi.EditMessageTextConfig
	if len(msg.Buttons) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(ref.ChatID, ref.MessageID, msg.Text, inlineKeyboard(msg.Buttons))
	} else {
		edit = tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, msg.Text)
	}
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := m.api.Send(edit); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// ClearButtons removes the inline keyboard of a sent message.
func (m *Messenger) ClearButtons(ref dialog.MessageRef) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(ref.ChatID, ref.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := m.api.Request(edit); err != nil {
		return fmt.Errorf("failed to clear buttons: %w", err)
	}
	return nil
}

// Answer acknowledges a button press, optionally with a short notice.
func (m *Messenger) Answer(callbackID, text string) error {
	if _, err := m.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// SendFile uploads a local file as a document.
func (m *Messenger) SendFile(chatID int64, path, caption string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := m.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

func inlineKeyboard(rows [][]dialog.Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

func replyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, text := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(text))
		}
		keyboard = append(keyboard, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	return tgbotapi.NewReplyKeyboard(keyboard...)
}
