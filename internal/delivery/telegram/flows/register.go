package flows

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"employee-bot/internal/app/controller"
	"employee-bot/internal/app/intake"
	"employee-bot/internal/app/service"
	"employee-bot/internal/delivery/telegram/keyboards"
	"employee-bot/internal/delivery/telegram/middleware"
	"employee-bot/internal/delivery/telegram/router"
	"employee-bot/internal/validator"
	"employee-bot/internal/wizard"
	"employee-bot/pkg/calendar"
)

const requestTimeout = 10 * time.Second

// Registration runs one intake session per chat.
type Registration struct {
	Employees *service.EmployeeService
	Async     *service.AsyncService
	Calendar  *calendar.CalendarController
	Log       *zap.Logger

	ctx      context.Context
	mu       sync.Mutex
	sessions map[int64]*intake.Session
}

func NewRegistration(ctx context.Context, employees *service.EmployeeService, async *service.AsyncService, cal *calendar.CalendarController, log *zap.Logger) *Registration {
	f := &Registration{
		Employees: employees,
		Async:     async,
		Calendar:  cal,
		Log:       log.Named("registration"),
		ctx:       ctx,
		sessions:  make(map[int64]*intake.Session),
	}
	cal.OnDate = f.onDate
	return f
}

func (f *Registration) Register(r *router.CallbackRouter) {
	r.Register("reg_choice", f.onChoice)
	r.Register("reg_edit", f.onEdit)
	r.Register("reg_next", func(c telebot.Context, _ string) error {
		return f.move(c, (*intake.Session).Next)
	})
	r.Register("reg_back", func(c telebot.Context, _ string) error {
		return f.move(c, (*intake.Session).Back)
	})
	r.Register("reg_submit", f.onSubmit)
	r.Register("reg_cancel", func(c telebot.Context, _ string) error {
		return f.Cancel(c)
	})
}

// Start begins a new registration, replacing any unfinished one.
func (f *Registration) Start(c telebot.Context) error {
	s := intake.NewSession()
	f.mu.Lock()
	f.sessions[c.Chat().ID] = s
	f.mu.Unlock()
	f.Log.Info("registration started", zap.String("session", s.ID), zap.Int64("chat", c.Chat().ID))
	return f.render(c, s, s.Prompt(), "")
}

func (f *Registration) Active(chatID int64) bool {
	_, ok := f.session(chatID)
	return ok
}

func (f *Registration) Cancel(c telebot.Context) error {
	f.mu.Lock()
	s, ok := f.sessions[c.Chat().ID]
	delete(f.sessions, c.Chat().ID)
	f.mu.Unlock()
	if !ok {
		return middleware.EditOrSend(c, "Nothing to cancel.")
	}
	f.Log.Info("registration cancelled", zap.String("session", s.ID))
	return middleware.EditOrSend(c, "Registration cancelled.")
}

// HandleText answers the awaited field with the message text.
func (f *Registration) HandleText(c telebot.Context) error {
	s, ok := f.session(c.Chat().ID)
	if !ok {
		return nil
	}
	p := s.Prompt()
	switch p.Kind {
	case intake.AskDocument:
		return c.Send("Please send a photo or a file of the bank document.")
	case intake.Review:
		return f.render(c, s, p, "Use the buttons below.")
	}
	p, err := s.Answer(c.Text())
	if err != nil {
		return f.render(c, s, p, err.Error())
	}
	return f.render(c, s, p, "")
}

// HandleDocument stores the file id of a photo or document as the bank
// document reference.
func (f *Registration) HandleDocument(c telebot.Context) error {
	s, ok := f.session(c.Chat().ID)
	if !ok {
		return nil
	}
	if p := s.Prompt(); p.Field != validator.Document {
		return f.render(c, s, p, "A document is not expected yet.")
	}
	msg := c.Message()
	var ref string
	switch {
	case msg.Photo != nil:
		ref = msg.Photo.FileID
	case msg.Document != nil:
		ref = msg.Document.FileID
	}
	p, err := s.Answer(ref)
	if err != nil {
		return f.render(c, s, p, err.Error())
	}
	return f.render(c, s, p, "")
}

func (f *Registration) onDate(date time.Time, c telebot.Context) error {
	s, ok := f.session(c.Chat().ID)
	if !ok {
		return middleware.EditOrSend(c, "This registration has ended.")
	}
	if p := s.Prompt(); p.Field != validator.DateOfBirth {
		return f.render(c, s, p, "")
	}
	p, err := s.Answer(date.Format(calendar.DateLayout))
	if err != nil {
		return f.render(c, s, p, err.Error())
	}
	return f.render(c, s, p, "")
}

func (f *Registration) onChoice(c telebot.Context, payload string) error {
	s, ok := f.session(c.Chat().ID)
	if !ok {
		return middleware.EditOrSend(c, "This registration has ended.")
	}
	parts := strings.Split(payload, "|")
	if len(parts) != 2 {
		return nil
	}
	field, err1 := strconv.Atoi(parts[0])
	idx, err2 := strconv.Atoi(parts[1])
	p := s.Prompt()
	opts := intake.Options(validator.Field(field))
	if err1 != nil || err2 != nil || p.Field != validator.Field(field) || idx < 0 || idx >= len(opts) {
		return f.render(c, s, p, "")
	}
	p, err := s.Answer(opts[idx])
	if err != nil {
		return f.render(c, s, p, err.Error())
	}
	return f.render(c, s, p, "")
}

func (f *Registration) onEdit(c telebot.Context, payload string) error {
	s, ok := f.session(c.Chat().ID)
	if !ok {
		return middleware.EditOrSend(c, "This registration has ended.")
	}
	field, err := strconv.Atoi(payload)
	if err != nil {
		return nil
	}
	p, err := s.Edit(validator.Field(field))
	if err != nil {
		return f.render(c, s, p, "That field is on another page.")
	}
	return f.render(c, s, p, "")
}

func (f *Registration) move(c telebot.Context, step func(*intake.Session) (intake.Prompt, error)) error {
	s, ok := f.session(c.Chat().ID)
	if !ok {
		return middleware.EditOrSend(c, "This registration has ended.")
	}
	p, err := step(s)
	if errors.Is(err, wizard.ErrPageIncomplete) {
		return f.render(c, s, p, "Complete this page first.")
	}
	return f.render(c, s, p, "")
}

func (f *Registration) onSubmit(c telebot.Context, _ string) error {
	chatID := c.Chat().ID
	s, ok := f.claim(chatID)
	if !ok {
		return middleware.EditOrSend(c, "This registration has ended.")
	}
	rec, err := s.Submit()
	if err != nil {
		f.restore(chatID, s)
		return f.render(c, s, s.Prompt(), "Complete this page first.")
	}

	ctx, cancel := context.WithTimeout(f.ctx, requestTimeout)
	defer cancel()
	reg := controller.NewRegistration(f.Employees)
	_, err = service.Do(ctx, f.Async, func() (int64, error) {
		return reg.Submit(ctx, rec)
	})
	if err != nil {
		f.Log.Warn("submit failed", zap.String("session", s.ID), zap.Error(err))
		f.restore(chatID, s)
		return f.render(c, s, s.Prompt(), controller.Message(err))
	}

	st := reg.State()
	f.Log.Info("registration submitted", zap.String("session", s.ID), zap.Int64("id", st.ID))
	return middleware.EditOrSend(c, fmt.Sprintf("%s (ID %d)", st.Added, st.ID))
}

// claim takes the chat's session out of the map so a repeated submit
// finds nothing to store.
func (f *Registration) claim(chatID int64) (*intake.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[chatID]
	if ok {
		delete(f.sessions, chatID)
	}
	return s, ok
}

// restore puts back a claimed session unless a new one was started.
func (f *Registration) restore(chatID int64, s *intake.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, started := f.sessions[chatID]; !started {
		f.sessions[chatID] = s
	}
}

func (f *Registration) session(chatID int64) (*intake.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[chatID]
	return s, ok
}

func (f *Registration) render(c telebot.Context, s *intake.Session, p intake.Prompt, note string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d/3 %s]\n", int(p.Page)+1, p.Page)
	if note != "" {
		b.WriteString("⚠ " + note + "\n")
	}

	switch p.Kind {
	case intake.Review:
		b.WriteString(p.Question + ":\n\n")
		b.WriteString(intake.Summary(s.State().Group(p.Page)))
		return middleware.EditOrSend(c, b.String(), keyboards.Review(p))
	case intake.AskDate:
		if note != "" || p.Failure != "" {
			if err := c.Send(strings.TrimSpace(b.String() + p.Failure)); err != nil {
				return err
			}
		}
		return f.Calendar.ShowCalendar(c)
	}

	b.WriteString(p.Question)
	if p.Current != "" && p.Kind == intake.AskText {
		fmt.Fprintf(&b, " (now: %s)", p.Current)
	}
	if p.Failure != "" {
		b.WriteString("\n⚠ " + p.Failure)
	}
	if p.Kind == intake.AskChoice {
		return middleware.EditOrSend(c, b.String(), keyboards.Choices(p.Field, p.Options))
	}
	return middleware.EditOrSend(c, b.String(), keyboards.Cancel())
}
