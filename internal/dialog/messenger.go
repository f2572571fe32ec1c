package dialog

import (
	"strconv"
	"strings"
)

// Button is an inline button carrying an opaque callback payload.
type Button struct {
	Text string
	Data string
}

// Message is an outbound chat message. Text is HTML.
type Message struct {
	Text    string
	Buttons [][]Button
	// Menu replaces the persistent reply keyboard with these rows of commands.
	Menu [][]string
	// RemoveMenu hides the persistent reply keyboard.
	RemoveMenu bool
	// ReplyTo quotes the given message when non-zero.
	ReplyTo int
}

// MessageRef identifies a delivered message so it can be edited later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Messenger delivers messages to the chat transport.
type Messenger interface {
	Send(chatID int64, msg Message) (MessageRef, error)
	Edit(ref MessageRef, msg Message) error
	ClearButtons(ref MessageRef) error
	Answer(callbackID, text string) error
	SendFile(chatID int64, path, caption string) error
}

// User is the sender of an inbound event.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName is @username when set, otherwise the full name, otherwise the id.
func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return strconv.FormatInt(u.ID, 10)
}

// Command is a slash command such as /log.
type Command struct {
	From      User
	ChatID    int64
	MessageID int
	Name      string
	Args      string
}

// Text is a free-text message.
type Text struct {
	From      User
	ChatID    int64
	MessageID int
	Text      string
}

// Callback is a button press on a previously sent message.
type Callback struct {
	ID      string
	From    User
	Message MessageRef
	Data    string
}
