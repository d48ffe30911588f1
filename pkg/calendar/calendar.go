// Package calendar renders an inline date picker suited to birth dates:
// a day grid with month and year steps, and a year grid for long jumps.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"
)

// DateLayout is the format picked dates are stored in.
const DateLayout = "2006-01-02"

const yearsPerPage = 12

// CalendarController handles the cal_* callbacks.
type CalendarController struct {
	OnDate func(time.Time, telebot.Context) error
	// YearsBack is how far before the current year the picker opens.
	YearsBack int
	Now       func() time.Time
}

func (cc *CalendarController) now() time.Time {
	if cc.Now != nil {
		return cc.Now()
	}
	return time.Now()
}

// ShowCalendar sends the picker opened at January, YearsBack years ago.
func (cc *CalendarController) ShowCalendar(c telebot.Context) error {
	title, markup := MonthMarkup(cc.now().Year()-cc.YearsBack, 1)
	return send(c, title, markup)
}

// Handle serves one cal_* callback. key and payload come from the router.
func (cc *CalendarController) Handle(c telebot.Context, key, payload string) error {
	switch key {
	case "cal_day":
		date, err := time.Parse(DateLayout, payload)
		if err != nil {
			return c.Send("Invalid date")
		}
		if cc.OnDate == nil {
			return nil
		}
		return cc.OnDate(date, c)
	case "cal_month":
		year, month, err := splitMonth(payload)
		if err != nil {
			return c.Send("Invalid month")
		}
		title, markup := MonthMarkup(year, month)
		return send(c, title, markup)
	case "cal_years":
		start, err := strconv.Atoi(payload)
		if err != nil {
			return c.Send("Invalid year")
		}
		title, markup := YearsMarkup(start)
		return send(c, title, markup)
	case "cal_noop":
		return nil
	}
	return nil
}

// MonthMarkup builds the day grid for month of year. month may be out of
// 1..12 and is normalized.
func MonthMarkup(year, month int) (string, *telebot.ReplyMarkup) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), int(first.Month())

	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	week := telebot.Row{}
	for d := 1; d <= daysInMonth(year, month); d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
		week = append(week, markup.Data(strconv.Itoa(d), "cal_day", date.Format(DateLayout)))
		if len(week) == 7 {
			rows = append(rows, week)
			week = telebot.Row{}
		}
	}
	if len(week) > 0 {
		rows = append(rows, week)
	}
	rows = append(rows, telebot.Row{
		markup.Data("«", "cal_month", monthData(year-1, month)),
		markup.Data("<", "cal_month", monthData(year, month-1)),
		markup.Data(">", "cal_month", monthData(year, month+1)),
		markup.Data("»", "cal_month", monthData(year+1, month)),
	})
	rows = append(rows, telebot.Row{
		markup.Data("Pick year", "cal_years", strconv.Itoa(pageStart(year))),
	})
	markup.Inline(rows...)
	return fmt.Sprintf("Select date of birth: %s %d", first.Month(), year), markup
}

// YearsMarkup builds a grid of yearsPerPage years starting at start.
// Choosing a year opens January of it.
func YearsMarkup(start int) (string, *telebot.ReplyMarkup) {
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	row := telebot.Row{}
	for y := start; y < start+yearsPerPage; y++ {
		row = append(row, markup.Data(strconv.Itoa(y), "cal_month", monthData(y, 1)))
		if len(row) == 4 {
			rows = append(rows, row)
			row = telebot.Row{}
		}
	}
	rows = append(rows, telebot.Row{
		markup.Data("<", "cal_years", strconv.Itoa(start-yearsPerPage)),
		markup.Data(">", "cal_years", strconv.Itoa(start+yearsPerPage)),
	})
	markup.Inline(rows...)
	return fmt.Sprintf("Select year: %d-%d", start, start+yearsPerPage-1), markup
}

func send(c telebot.Context, title string, markup *telebot.ReplyMarkup) error {
	if c.Callback() != nil {
		return c.Edit(title, markup)
	}
	return c.Send(title, markup)
}

// monthData encodes year and month as "yyyy-mm", normalizing overflow.
func monthData(year, month int) string {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return t.Format("2006-01")
}

func splitMonth(data string) (year, month int, err error) {
	parts := strings.Split(data, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad month %q", data)
	}
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, err
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, err
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("bad month %q", data)
	}
	return year, month, nil
}

func pageStart(year int) int {
	return year - (year % yearsPerPage)
}

func daysInMonth(year, month int) int {
	t := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}
