package keyboards

import (
	"fmt"
	"strconv"

	"gopkg.in/telebot.v3"

	"employee-bot/internal/domain"
)

const PageSize = 8

// EmployeeList shows one page of employees as buttons opening their cards,
// with paging when the list is longer than PageSize.
func EmployeeList(records []domain.EmployeeRecord, page int) (string, *telebot.ReplyMarkup) {
	markup := &telebot.ReplyMarkup{}
	if len(records) == 0 {
		return "No employees found.", markup
	}

	pages := (len(records) + PageSize - 1) / PageSize
	page = min(max(page, 0), pages-1)
	start := page * PageSize
	end := min(start+PageSize, len(records))

	rows := make([]telebot.Row, 0, end-start+1)
	for _, r := range records[start:end] {
		label := fmt.Sprintf("%s · %s", r.Employment.EmployeeName, r.Employment.Designation)
		rows = append(rows, markup.Row(markup.Data(label, "emp_show", strconv.FormatInt(r.ID, 10))))
	}
	if pages > 1 {
		var nav telebot.Row
		if page > 0 {
			nav = append(nav, markup.Data("←", "emp_page", strconv.Itoa(page-1)))
		}
		if page < pages-1 {
			nav = append(nav, markup.Data("→", "emp_page", strconv.Itoa(page+1)))
		}
		rows = append(rows, nav)
	}
	markup.Inline(rows...)
	title := fmt.Sprintf("Employees: %d", len(records))
	if pages > 1 {
		title += fmt.Sprintf(" (page %d/%d)", page+1, pages)
	}
	return title, markup
}

// EmployeeCard is the markup under an employee's details.
func EmployeeCard(id int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	sid := strconv.FormatInt(id, 10)
	markup.Inline(
		markup.Row(markup.Data("🗑 Delete", "emp_del", sid)),
		markup.Row(markup.Data("« Back to list", "emp_list")),
	)
	return markup
}
