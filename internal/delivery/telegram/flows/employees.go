package flows

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"employee-bot/internal/app/controller"
	"employee-bot/internal/app/service"
	"employee-bot/internal/delivery/telegram/keyboards"
	"employee-bot/internal/delivery/telegram/middleware"
	"employee-bot/internal/delivery/telegram/router"
	"employee-bot/internal/domain"
)

// Directory shows the employee list of each chat and keeps the last list
// message up to date as storage changes.
type Directory struct {
	Bot       *telebot.Bot
	Employees *service.EmployeeService
	Async     *service.AsyncService
	Log       *zap.Logger

	ctx       context.Context
	mu        sync.Mutex
	views     map[int64]*listView
	searching map[int64]bool
}

type listView struct {
	list *controller.List

	mu   sync.Mutex
	msg  telebot.Editable
	page int
}

func NewDirectory(ctx context.Context, bot *telebot.Bot, employees *service.EmployeeService, async *service.AsyncService, log *zap.Logger) *Directory {
	return &Directory{
		Bot:       bot,
		Employees: employees,
		Async:     async,
		Log:       log.Named("directory"),
		ctx:       ctx,
		views:     make(map[int64]*listView),
		searching: make(map[int64]bool),
	}
}

func (d *Directory) Register(r *router.CallbackRouter) {
	r.Register("emp_show", d.onShow)
	r.Register("emp_del", d.onDelete)
	r.Register("emp_list", func(c telebot.Context, _ string) error {
		return d.showInPlace(c, 0)
	})
	r.Register("emp_page", func(c telebot.Context, payload string) error {
		page, _ := strconv.Atoi(payload)
		return d.showInPlace(c, page)
	})
}

// ShowList sends the full, unfiltered list.
func (d *Directory) ShowList(c telebot.Context) error {
	v, err := d.view(c.Chat().ID)
	if err != nil {
		return c.Send(controller.Message(err))
	}
	v.list.Search("")
	return d.sendList(c, v)
}

func (d *Directory) StartSearch(c telebot.Context) error {
	d.mu.Lock()
	d.searching[c.Chat().ID] = true
	d.mu.Unlock()
	return c.Send("Enter part of the employee name:")
}

func (d *Directory) Searching(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searching[chatID]
}

// HandleSearch filters the chat's list by the message text.
func (d *Directory) HandleSearch(c telebot.Context) error {
	d.mu.Lock()
	delete(d.searching, c.Chat().ID)
	d.mu.Unlock()

	v, err := d.view(c.Chat().ID)
	if err != nil {
		return c.Send(controller.Message(err))
	}
	v.list.Search(strings.TrimSpace(c.Text()))
	return d.sendList(c, v)
}

func (d *Directory) onShow(c telebot.Context, payload string) error {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(d.ctx, requestTimeout)
	defer cancel()
	detail := controller.NewDetail(d.Employees)
	rec, err := service.Do(ctx, d.Async, func() (domain.EmployeeRecord, error) {
		return detail.Load(ctx, id)
	})
	if err != nil {
		return middleware.EditOrSend(c, controller.Message(err), backMarkup())
	}
	return middleware.EditOrSend(c, controller.Describe(rec), keyboards.EmployeeCard(id))
}

func (d *Directory) onDelete(c telebot.Context, payload string) error {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return nil
	}
	v, err := d.view(c.Chat().ID)
	if err != nil {
		return middleware.EditOrSend(c, controller.Message(err))
	}
	ctx, cancel := context.WithTimeout(d.ctx, requestTimeout)
	defer cancel()
	err = d.Async.Run(ctx, func() error {
		return v.list.Delete(ctx, id)
	})
	if err != nil {
		v.list.ClearFailure()
		return middleware.EditOrSend(c, controller.Message(err), backMarkup())
	}
	d.Log.Info("employee deleted from chat", zap.Int64("id", id), zap.Int64("chat", c.Chat().ID))
	return d.showInPlace(c, 0)
}

// showInPlace turns the callback's message into the list.
func (d *Directory) showInPlace(c telebot.Context, page int) error {
	v, err := d.view(c.Chat().ID)
	if err != nil {
		return middleware.EditOrSend(c, controller.Message(err))
	}
	v.mu.Lock()
	v.page = page
	if m := c.Message(); m != nil {
		v.msg = m
	}
	v.mu.Unlock()
	title, markup := d.listText(v)
	return middleware.EditOrSend(c, title, markup)
}

func (d *Directory) sendList(c telebot.Context, v *listView) error {
	v.mu.Lock()
	v.page = 0
	v.mu.Unlock()
	title, markup := d.listText(v)
	msg, err := d.Bot.Send(c.Recipient(), title, markup)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.msg = msg
	v.mu.Unlock()
	return nil
}

func (d *Directory) listText(v *listView) (string, *telebot.ReplyMarkup) {
	v.mu.Lock()
	page := v.page
	v.mu.Unlock()
	st := v.list.State()
	title, markup := keyboards.EmployeeList(v.list.Visible(), page)
	if st.SearchQuery != "" {
		title = fmt.Sprintf("Search %q\n%s", st.SearchQuery, title)
	}
	if st.Failure != nil {
		title = "⚠ " + st.Failure.Message + "\n" + title
	}
	return title, markup
}

// rerender edits the last list message of chatID after a state change.
func (d *Directory) rerender(chatID int64, v *listView) {
	v.mu.Lock()
	msg := v.msg
	v.mu.Unlock()
	if msg == nil {
		return
	}
	title, markup := d.listText(v)
	if _, err := middleware.EditMessage(d.Bot, msg, title, markup); err != nil {
		d.Log.Debug("list refresh failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

// view returns the chat's active list, activating one on first use.
func (d *Directory) view(chatID int64) (*listView, error) {
	d.mu.Lock()
	v, ok := d.views[chatID]
	d.mu.Unlock()
	if ok {
		return v, nil
	}

	v = &listView{list: controller.NewList(d.Employees, d.Log)}
	ctx, cancel := context.WithTimeout(d.ctx, requestTimeout)
	defer cancel()
	err := d.Async.Run(ctx, func() error {
		return v.list.Activate(d.ctx)
	})
	if err != nil {
		// Activate may still be running on the pool; a closed list drops
		// the subscription once it does.
		v.list.Close()
		return nil, err
	}
	v.list.OnChange(func(controller.ListState) { d.rerender(chatID, v) })

	d.mu.Lock()
	if existing, ok := d.views[chatID]; ok {
		d.mu.Unlock()
		v.list.Close()
		return existing, nil
	}
	d.views[chatID] = v
	d.mu.Unlock()
	return v, nil
}

// Close ends every list subscription.
func (d *Directory) Close() {
	d.mu.Lock()
	views := d.views
	d.views = make(map[int64]*listView)
	d.mu.Unlock()
	for _, v := range views {
		v.list.Close()
	}
}

func backMarkup() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("« Back to list", "emp_list")))
	return markup
}
