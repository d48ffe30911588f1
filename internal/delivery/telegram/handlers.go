package telegram

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
	tbmw "gopkg.in/telebot.v3/middleware"

	"employee-bot/internal/app/service"
	"employee-bot/internal/delivery/telegram/flows"
	"employee-bot/internal/delivery/telegram/router"
	"employee-bot/pkg/calendar"
)

var (
	btnAdd    = telebot.Btn{Text: "➕ Add employee"}
	btnList   = telebot.Btn{Text: "👥 Employees"}
	btnSearch = telebot.Btn{Text: "🔍 Search"}
)

type Handler struct {
	Bot          *telebot.Bot
	Router       *router.CallbackRouter
	Calendar     *calendar.CalendarController
	Registration *flows.Registration
	Directory    *flows.Directory
	AllowedUsers []int64
	Log          *zap.Logger
}

// NewHandler wires the flows over the given services. ctx bounds every
// repository call and list subscription made on behalf of chats.
func NewHandler(ctx context.Context, bot *telebot.Bot, employees *service.EmployeeService, async *service.AsyncService, allowed []int64, log *zap.Logger) *Handler {
	log = log.Named("telegram")
	cal := &calendar.CalendarController{YearsBack: 25}
	r := router.New(log)
	r.CalDelegate = cal.Handle
	return &Handler{
		Bot:          bot,
		Router:       r,
		Calendar:     cal,
		Registration: flows.NewRegistration(ctx, employees, async, cal, log),
		Directory:    flows.NewDirectory(ctx, bot, employees, async, log),
		AllowedUsers: allowed,
		Log:          log,
	}
}

func (h *Handler) Register() {
	h.Bot.Use(tbmw.Recover(func(err error, c telebot.Context) {
		h.Log.Error("handler panic", zap.Int("update", c.Update().ID), zap.Error(err))
	}))
	if len(h.AllowedUsers) > 0 {
		h.Bot.Use(tbmw.Whitelist(h.AllowedUsers...))
	}
	h.Bot.Use(tbmw.AutoRespond())

	h.Bot.Handle("/start", h.handleStart)
	h.Bot.Handle("/add", h.Registration.Start)
	h.Bot.Handle("/employees", h.Directory.ShowList)
	h.Bot.Handle("/search", h.Directory.StartSearch)
	h.Bot.Handle("/cancel", h.Registration.Cancel)
	h.Bot.Handle(telebot.OnText, h.handleText)
	h.Bot.Handle(telebot.OnPhoto, h.Registration.HandleDocument)
	h.Bot.Handle(telebot.OnDocument, h.Registration.HandleDocument)

	h.Registration.Register(h.Router)
	h.Directory.Register(h.Router)
	h.Router.Attach(h.Bot)
}

// Close stops the per-chat list subscriptions.
func (h *Handler) Close() {
	h.Directory.Close()
}

func (h *Handler) handleText(c telebot.Context) error {
	chatID := c.Chat().ID
	switch c.Text() {
	case btnAdd.Text:
		return h.Registration.Start(c)
	case btnList.Text:
		return h.Directory.ShowList(c)
	case btnSearch.Text:
		return h.Directory.StartSearch(c)
	}
	if h.Directory.Searching(chatID) {
		return h.Directory.HandleSearch(c)
	}
	if h.Registration.Active(chatID) {
		return h.Registration.HandleText(c)
	}
	return c.Send("Use the menu below.", menu())
}

func (h *Handler) handleStart(c telebot.Context) error {
	h.Log.Info("start", zap.Int64("chat", c.Chat().ID))
	return c.Send("Welcome! Register employees or browse the directory.", menu())
}

func menu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(btnAdd.Text)),
		markup.Row(markup.Text(btnList.Text), markup.Text(btnSearch.Text)),
	)
	return markup
}
