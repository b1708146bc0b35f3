// Package keyboard builds inline keyboard layouts for the bot.
package keyboard

import (
	"errors"

	tele "gopkg.in/telebot.v4"
)

// ErrInvalidColumns is returned when a grid is requested with a non-positive
// column count.
var ErrInvalidColumns = errors.New("keyboard: columns must be >= 1")

// InlineBtn describes an inline button: visible label plus opaque callback payload.
type InlineBtn struct {
	Text string
	Data string
}

// Grid partitions buttons into consecutive rows of up to columns buttons,
// preserving input order. Footer buttons, if any, are appended as one
// additional full-width row. An empty input with no footer yields an empty
// layout.
func Grid(buttons []InlineBtn, columns int, footer ...InlineBtn) ([][]InlineBtn, error) {
	if columns <= 0 {
		return nil, ErrInvalidColumns
	}

	rows := make([][]InlineBtn, 0, len(buttons)/columns+2)
	for i := 0; i < len(buttons); i += columns {
		end := i + columns
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end:end])
	}
	if len(footer) > 0 {
		rows = append(rows, footer)
	}
	return rows, nil
}

// Markup converts layout rows into a Telegram inline keyboard markup.
// A nil or empty layout yields a nil markup so callers can pass it through
// unconditionally.
func Markup(rows [][]InlineBtn) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Text, Data: b.Data})
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}
