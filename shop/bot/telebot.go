package bot

import (
	"context"
	"strconv"
	"strings"

	tghelpers "github.com/m3rciful/fishbot/core/telegram/helpers"
	"github.com/m3rciful/fishbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// EventFromContext extracts the user action from an incoming telebot update.
// A callback press wins over the message it was attached to: the message
// text there is the bot's own output, not user input.
func EventFromContext(c tele.Context) Event {
	var ev Event
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		ev.UserName = strings.TrimSpace(sender.FirstName + " " + sender.LastName)
	}
	if msg := c.Message(); msg != nil {
		ev.MessageID = msg.ID
		ev.Text = msg.Text
	}
	if cb := c.Callback(); cb != nil {
		ev.Callback = strings.TrimPrefix(cb.Data, "\f")
		ev.Text = ""
	}
	return ev
}

// Handler returns the telebot entry point feeding every update into the
// state machine. Register it for /start, text messages, and callbacks.
func (b *Bot) Handler() tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			// Stop the button spinner before any slow API calls.
			_ = c.Respond()
		}
		ctx := tghelpers.BuildContext(c)
		return b.HandleUpdate(ctx, EventFromContext(c))
	}
}

// NewTelebotTransport adapts a telebot bot to the Transport interface.
func NewTelebotTransport(bot *tele.Bot) Transport {
	return &telebotTransport{bot: bot}
}

type telebotTransport struct {
	bot *tele.Bot
}

func (t *telebotTransport) SendMessage(_ context.Context, chatID int64, text string, layout [][]keyboard.InlineBtn) error {
	return t.send(tele.ChatID(chatID), text, layout)
}

func (t *telebotTransport) SendPhoto(_ context.Context, chatID int64, path, caption string, layout [][]keyboard.InlineBtn) error {
	photo := &tele.Photo{File: tele.FromDisk(path), Caption: caption}
	return t.send(tele.ChatID(chatID), photo, layout)
}

func (t *telebotTransport) EditMessage(_ context.Context, chatID int64, messageID int, text string, layout [][]keyboard.InlineBtn) error {
	target := storedMessage(chatID, messageID)
	if markup := keyboard.Markup(layout); markup != nil {
		_, err := t.bot.Edit(target, text, markup)
		return err
	}
	_, err := t.bot.Edit(target, text)
	return err
}

func (t *telebotTransport) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	return t.bot.Delete(storedMessage(chatID, messageID))
}

func (t *telebotTransport) send(to tele.Recipient, what any, layout [][]keyboard.InlineBtn) error {
	if markup := keyboard.Markup(layout); markup != nil {
		_, err := t.bot.Send(to, what, markup)
		return err
	}
	_, err := t.bot.Send(to, what)
	return err
}

func storedMessage(chatID int64, messageID int) tele.StoredMessage {
	return tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	}
}
