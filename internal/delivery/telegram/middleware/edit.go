package middleware

import (
	"strings"

	"gopkg.in/telebot.v3"
)

// EditOrSend edits the message behind a callback, or sends a new one when
// there is nothing to edit. An unchanged message is not an error.
func EditOrSend(c telebot.Context, text string, opts ...interface{}) error {
	if c.Callback() != nil {
		err := c.Edit(text, opts...)
		if err == nil || NotModified(err) {
			return nil
		}
	}
	return c.Send(text, opts...)
}

// EditMessage edits msg in place, ignoring "message is not modified".
func EditMessage(bot *telebot.Bot, msg telebot.Editable, text string, opts ...interface{}) (*telebot.Message, error) {
	m, err := bot.Edit(msg, text, opts...)
	if NotModified(err) {
		return nil, nil
	}
	return m, err
}

func NotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not modified")
}
