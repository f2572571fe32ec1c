package bot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebk/sati-bot/internal/dialog"
)

type fakeSender struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	err       error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requested = append(f.requested, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestSendWithButtons(t *testing.T) {
	api := &fakeSender{}
	m := &Messenger{api: api}

	ref, err := m.Send(7, dialog.Message{
		Text:    "<b>pick</b>",
		Buttons: [][]dialog.Button{{{Text: "1", Data: "diss:1"}, {Text: "2", Data: "diss:2"}}},
		Menu:    dialog.MainMenu,
		ReplyTo: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, dialog.MessageRef{ChatID: 7, MessageID: 1}, ref)

	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Equal(t, 4, msg.ReplyToMessageID)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.NotNil(t, markup.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "diss:2", *markup.InlineKeyboard[0][1].CallbackData)
}

func TestSendMenuAndRemove(t *testing.T) {
	api := &fakeSender{}
	m := &Messenger{api: api}

	_, err := m.Send(7, dialog.Message{Text: "help", Menu: dialog.MainMenu})
	require.NoError(t, err)
	_, err = m.Send(7, dialog.Message{Text: "bye", RemoveMenu: true})
	require.NoError(t, err)

	menu, ok := api.sent[0].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, menu.Keyboard, len(dialog.MainMenu))
	assert.Equal(t, "/log", menu.Keyboard[0][0].Text)

	_, ok = api.sent[1].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, ok)
}

func TestSendError(t *testing.T) {
	m := &Messenger{api: &fakeSender{err: errors.New("403 Forbidden")}}

	_, err := m.Send(7, dialog.Message{Text: "x"})
	assert.ErrorContains(t, err, "403 Forbidden")
}

func TestEdit(t *testing.T) {
	api := &fakeSender{}
	m := &Messenger{api: api}
	ref := dialog.MessageRef{ChatID: 7, MessageID: 40}

	require.NoError(t, m.Edit(ref, dialog.Message{Text: "plain"}))
	require.NoError(t, m.Edit(ref, dialog.Message{Text: "with", Buttons: [][]dialog.Button{{{Text: "ok", Data: "confirm"}}}}))

	plain := api.sent[0].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, "plain", plain.Text)
	assert.Equal(t, 40, plain.MessageID)
	assert.Equal(t, tgbotapi.ModeHTML, plain.ParseMode)
	assert.Nil(t, plain.ReplyMarkup)

	with := api.sent[1].(tgbotapi.EditMessageTextConfig)
	require.NotNil(t, with.ReplyMarkup)
	assert.Len(t, with.ReplyMarkup.InlineKeyboard, 1)
}

func TestClearButtonsAndAnswer(t *testing.T) {
	api := &fakeSender{}
	m := &Messenger{api: api}

	require.NoError(t, m.ClearButtons(dialog.MessageRef{ChatID: 7, MessageID: 40}))
	require.NoError(t, m.Answer("q1", "saved"))

	require.Len(t, api.requested, 2)
	cleared := api.requested[0].(tgbotapi.EditMessageReplyMarkupConfig)
	require.NotNil(t, cleared.ReplyMarkup)
	assert.Empty(t, cleared.ReplyMarkup.InlineKeyboard)

	answer := api.requested[1].(tgbotapi.CallbackConfig)
	assert.Equal(t, "q1", answer.CallbackQueryID)
	assert.Equal(t, "saved", answer.Text)
}

func TestSendFile(t *testing.T) {
	api := &fakeSender{}
	m := &Messenger{api: api}

	path := filepath.Join(t.TempDir(), "sati_logs.csv")
	require.NoError(t, os.WriteFile(path, []byte("timestamp_iso\n"), 0o644))

	require.NoError(t, m.SendFile(7, path, "Export: sati_logs.csv"))
	doc := api.sent[0].(tgbotapi.DocumentConfig)
	assert.Equal(t, "Export: sati_logs.csv", doc.Caption)
	assert.Equal(t, tgbotapi.FilePath(path), doc.File)

	err := m.SendFile(7, filepath.Join(t.TempDir(), "missing.csv"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
