package keyboards

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"employee-bot/internal/app/intake"
	"employee-bot/internal/domain"
	"employee-bot/internal/validator"
)

func flatten(m *telebot.ReplyMarkup) []telebot.InlineButton {
	var out []telebot.InlineButton
	for _, row := range m.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

func uniques(m *telebot.ReplyMarkup) []string {
	var out []string
	for _, b := range flatten(m) {
		out = append(out, b.Unique)
	}
	return out
}

func TestChoices(t *testing.T) {
	m := Choices(validator.Gender, domain.Genders)
	btns := flatten(m)
	require.Len(t, btns, 4)
	assert.Equal(t, "Female", btns[1].Text)
	assert.Equal(t, "reg_choice", btns[1].Unique)
	assert.Equal(t, fmt.Sprintf("%d|1", int(validator.Gender)), btns[1].Data)
	assert.Equal(t, "reg_cancel", btns[3].Unique)
}

func TestReviewNavigation(t *testing.T) {
	m := Review(intake.Prompt{Kind: intake.Review, Page: validator.PagePersonal, CanNext: true})
	u := uniques(m)
	assert.Contains(t, u, "reg_next")
	assert.NotContains(t, u, "reg_back")
	assert.NotContains(t, u, "reg_submit")

	edits := 0
	for _, b := range flatten(m) {
		if b.Unique == "reg_edit" {
			edits++
		}
	}
	assert.Equal(t, 5, edits)

	m = Review(intake.Prompt{Kind: intake.Review, Page: validator.PageBanking, CanBack: true, CanSubmit: true})
	u = uniques(m)
	assert.Contains(t, u, "reg_back")
	assert.Contains(t, u, "reg_submit")
	assert.NotContains(t, u, "reg_next")
}

func staff(n int) []domain.EmployeeRecord {
	out := make([]domain.EmployeeRecord, n)
	for i := range out {
		out[i].ID = int64(i + 1)
		out[i].Employment.EmployeeName = fmt.Sprintf("Employee %02d", i+1)
		out[i].Employment.Designation = "Engineer"
	}
	return out
}

func TestEmployeeListEmpty(t *testing.T) {
	title, m := EmployeeList(nil, 0)
	assert.Equal(t, "No employees found.", title)
	assert.Empty(t, m.InlineKeyboard)
}

func TestEmployeeListPaging(t *testing.T) {
	title, m := EmployeeList(staff(3), 0)
	assert.Equal(t, "Employees: 3", title)
	btns := flatten(m)
	require.Len(t, btns, 3)
	assert.Equal(t, "emp_show", btns[0].Unique)
	assert.Equal(t, "1", btns[0].Data)
	assert.Equal(t, "Employee 01 · Engineer", btns[0].Text)

	title, m = EmployeeList(staff(20), 1)
	assert.Equal(t, "Employees: 20 (page 2/3)", title)
	u := uniques(m)
	assert.Equal(t, PageSize+2, len(u))
	assert.Equal(t, "emp_page", u[len(u)-1])

	title, _ = EmployeeList(staff(20), 99)
	assert.Equal(t, "Employees: 20 (page 3/3)", title)
}

func TestEmployeeCard(t *testing.T) {
	btns := flatten(EmployeeCard(12))
	require.Len(t, btns, 2)
	assert.Equal(t, "emp_del", btns[0].Unique)
	assert.Equal(t, "12", btns[0].Data)
	assert.Equal(t, "emp_list", btns[1].Unique)
}
