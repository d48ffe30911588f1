package keyboards

import (
	"strconv"

	"gopkg.in/telebot.v3"

	"employee-bot/internal/app/intake"
	"employee-bot/internal/validator"
)

// Choices offers the options of a choice field, one per row.
func Choices(f validator.Field, options []string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(options)+1)
	field := strconv.Itoa(int(f))
	for i, o := range options {
		rows = append(rows, markup.Row(markup.Data(o, "reg_choice", field, strconv.Itoa(i))))
	}
	rows = append(rows, markup.Row(cancel(markup)))
	markup.Inline(rows...)
	return markup
}

// Cancel is the markup for free-text questions.
func Cancel() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(cancel(markup)))
	return markup
}

// Review lets the operator fix any field of the page and move on.
func Review(p intake.Prompt) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	fields := validator.Fields(p.Page)
	for i := 0; i < len(fields); i += 2 {
		row := telebot.Row{editButton(markup, fields[i])}
		if i+1 < len(fields) {
			row = append(row, editButton(markup, fields[i+1]))
		}
		rows = append(rows, row)
	}
	var nav telebot.Row
	if p.CanBack {
		nav = append(nav, markup.Data("◀ Back", "reg_back"))
	}
	if p.CanNext {
		nav = append(nav, markup.Data("Next ▶", "reg_next"))
	}
	if p.CanSubmit {
		nav = append(nav, markup.Data("✅ Submit", "reg_submit"))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, markup.Row(cancel(markup)))
	markup.Inline(rows...)
	return markup
}

func editButton(markup *telebot.ReplyMarkup, f validator.Field) telebot.Btn {
	return markup.Data("✏ "+f.String(), "reg_edit", strconv.Itoa(int(f)))
}

func cancel(markup *telebot.ReplyMarkup) telebot.Btn {
	return markup.Data("✖ Cancel", "reg_cancel")
}
