package bot

import (
	"context"

	"github.com/m3rciful/fishbot/core/telegram/keyboard"
)

// Event is one incoming user action: a typed message or a button press.
type Event struct {
	ChatID int64
	// MessageID identifies the message the user reacted to; it is the
	// delete/edit target for handlers that replace their own output.
	MessageID int
	// Text is the typed message body, empty for button presses.
	Text string
	// Callback is the button payload, empty for typed messages.
	Callback string
	// UserName is the sender's display name, used for customer records.
	UserName string
}

// Reply returns the user's effective input: the callback payload when the
// action was a button press, the message text otherwise. ok is false when
// the event carries neither.
func (e Event) Reply() (string, bool) {
	if e.Callback != "" {
		return e.Callback, true
	}
	if e.Text != "" {
		return e.Text, true
	}
	return "", false
}

// Transport is the outbound side of the chat platform. Every action takes
// an optional button layout attached as an inline keyboard.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, layout [][]keyboard.InlineBtn) error
	SendPhoto(ctx context.Context, chatID int64, path, caption string, layout [][]keyboard.InlineBtn) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, layout [][]keyboard.InlineBtn) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}
