package flows

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"employee-bot/internal/app/intake"
	"employee-bot/internal/app/service"
	"employee-bot/internal/domain"
	"employee-bot/internal/repository/sqlite"
	"employee-bot/internal/validator"
	"employee-bot/pkg/calendar"
	"employee-bot/pkg/workerpool"
)

const chatID = int64(42)

// fakeContext records what a handler sends or edits. Methods the flows do
// not call are left to the nil embedded interface.
type fakeContext struct {
	telebot.Context

	chat     *telebot.Chat
	text     string
	msg      *telebot.Message
	callback *telebot.Callback

	mu      sync.Mutex
	replies []string
	markups []*telebot.ReplyMarkup
}

func newContext() *fakeContext {
	return &fakeContext{chat: &telebot.Chat{ID: chatID}}
}

func (c *fakeContext) Chat() *telebot.Chat { return c.chat }

func (c *fakeContext) Recipient() telebot.Recipient { return c.chat }

func (c *fakeContext) Text() string { return c.text }

func (c *fakeContext) Message() *telebot.Message { return c.msg }

func (c *fakeContext) Callback() *telebot.Callback { return c.callback }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.record(what, opts)
	return nil
}

func (c *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	c.record(what, opts)
	return nil
}

func (c *fakeContext) record(what interface{}, opts []interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, fmt.Sprint(what))
	var markup *telebot.ReplyMarkup
	for _, o := range opts {
		if m, ok := o.(*telebot.ReplyMarkup); ok {
			markup = m
		}
	}
	c.markups = append(c.markups, markup)
}

func (c *fakeContext) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.replies) == 0 {
		return ""
	}
	return c.replies[len(c.replies)-1]
}

func (c *fakeContext) lastMarkup() *telebot.ReplyMarkup {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.markups) == 0 {
		return nil
	}
	return c.markups[len(c.markups)-1]
}

func newServices(t *testing.T) (*service.EmployeeService, *service.AsyncService, *sql.DB) {
	t.Helper()
	db, err := sqlite.Open(sqlite.DriverPure, filepath.Join(t.TempDir(), "employees.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(db))

	pool := workerpool.NewWorkerPool(2, 4)
	t.Cleanup(pool.Close)
	return service.NewEmployeeService(sqlite.NewEmployeeStore(db), nil), service.NewAsyncService(pool), db
}

func newRegistration(t *testing.T) (*Registration, *service.EmployeeService, *sql.DB) {
	t.Helper()
	employees, async, db := newServices(t)
	cal := &calendar.CalendarController{YearsBack: 25}
	return NewRegistration(context.Background(), employees, async, cal, zap.NewNop()), employees, db
}

var textAnswers = map[validator.Field]string{
	validator.FirstName:      "Alex",
	validator.LastName:       "Doe",
	validator.Phone:          "9876543210",
	validator.EmployeeNumber: "EMP001",
	validator.EmployeeName:   "Alex Doe",
	validator.Designation:    "Engineer",
	validator.BankName:       "State Bank",
	validator.BranchName:     "MG Road",
	validator.AccountNumber:  "123456789012",
	validator.IFSCCode:       "SBIN0001234",
}

var choiceAnswers = map[validator.Field]string{
	validator.Gender:      domain.GenderFemale,
	validator.AccountType: domain.AccountSaving,
	validator.Experience:  domain.Experience2Years,
}

func prompt(t *testing.T, f *Registration) intake.Prompt {
	t.Helper()
	s, ok := f.session(chatID)
	require.True(t, ok, "no registration in progress")
	return s.Prompt()
}

// fillAll drives the chat through every page up to the final review,
// using the same handler a real update would reach.
func fillAll(t *testing.T, f *Registration, c *fakeContext) {
	t.Helper()
	for i := 0; i < 50; i++ {
		p := prompt(t, f)
		switch p.Kind {
		case intake.Review:
			if p.CanSubmit {
				return
			}
			require.True(t, p.CanNext, "page %s is not complete", p.Page)
			require.NoError(t, f.move(c, (*intake.Session).Next))
		case intake.AskChoice:
			idx := -1
			for j, o := range p.Options {
				if o == choiceAnswers[p.Field] {
					idx = j
				}
			}
			require.NoError(t, f.onChoice(c, fmt.Sprintf("%d|%d", p.Field, idx)))
		case intake.AskDate:
			require.NoError(t, f.onDate(time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), c))
		case intake.AskDocument:
			c.msg = &telebot.Message{Photo: &telebot.Photo{File: telebot.File{FileID: "photo-1"}}}
			require.NoError(t, f.HandleDocument(c))
		default:
			c.text = textAnswers[p.Field]
			require.NoError(t, f.HandleText(c))
		}
	}
	t.Fatal("registration did not reach the final review")
}

func TestRegistrationStoresEmployee(t *testing.T) {
	f, employees, _ := newRegistration(t)
	c := newContext()

	require.NoError(t, f.Start(c))
	assert.Contains(t, c.last(), "Enter first name")
	assert.True(t, f.Active(chatID))

	fillAll(t, f, c)
	require.NoError(t, f.onSubmit(c, ""))
	assert.Contains(t, c.last(), "Employee Added Successfully")
	assert.False(t, f.Active(chatID))

	recs, err := employees.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	got := recs[0]
	assert.Equal(t, "Alex Doe", got.Employment.EmployeeName)
	assert.Equal(t, domain.GenderFemale, got.Personal.Gender)
	assert.Equal(t, "1990-01-02", got.Personal.DateOfBirth)
	assert.Equal(t, domain.Experience2Years, got.Employment.Experience)
	assert.Equal(t, "photo-1", got.ImageRef)
	assert.Equal(t, "photo-1", got.Banking.DocumentRef)
}

func TestRegistrationReasksFailedAnswer(t *testing.T) {
	f, _, _ := newRegistration(t)
	c := newContext()
	require.NoError(t, f.Start(c))

	c.text = "Al"
	require.NoError(t, f.HandleText(c))
	assert.Contains(t, c.last(), "First name must be at least 3 characters")
	assert.Equal(t, validator.FirstName, prompt(t, f).Field)

	c.text = "Alex"
	require.NoError(t, f.HandleText(c))
	assert.Equal(t, validator.LastName, prompt(t, f).Field)
}

func TestRegistrationSubmitsOnce(t *testing.T) {
	f, employees, _ := newRegistration(t)
	c := newContext()
	require.NoError(t, f.Start(c))
	fillAll(t, f, c)

	taps := []*fakeContext{newContext(), newContext(), newContext()}
	var wg sync.WaitGroup
	for _, tap := range taps {
		wg.Add(1)
		go func(tap *fakeContext) {
			defer wg.Done()
			assert.NoError(t, f.onSubmit(tap, ""))
		}(tap)
	}
	wg.Wait()

	recs, err := employees.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	added := 0
	for _, tap := range taps {
		if strings.Contains(tap.last(), "Employee Added Successfully") {
			added++
		} else {
			assert.Equal(t, "This registration has ended.", tap.last())
		}
	}
	assert.Equal(t, 1, added)
}

func TestRegistrationKeepsSessionWhenStoreFails(t *testing.T) {
	f, _, db := newRegistration(t)
	c := newContext()
	require.NoError(t, f.Start(c))
	fillAll(t, f, c)

	require.NoError(t, db.Close())
	require.NoError(t, f.onSubmit(c, ""))
	assert.Contains(t, c.last(), "Failed to add employee")
	assert.True(t, f.Active(chatID))
	assert.True(t, prompt(t, f).CanSubmit)
}

func TestRegistrationEditStaysOnCurrentPage(t *testing.T) {
	f, _, _ := newRegistration(t)
	c := newContext()
	require.NoError(t, f.Start(c))

	for prompt(t, f).Page == validator.PagePersonal {
		p := prompt(t, f)
		switch p.Kind {
		case intake.Review:
			require.NoError(t, f.move(c, (*intake.Session).Next))
		case intake.AskChoice:
			c.text = choiceAnswers[p.Field]
			require.NoError(t, f.HandleText(c))
		case intake.AskDate:
			require.NoError(t, f.onDate(time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), c))
		default:
			c.text = textAnswers[p.Field]
			require.NoError(t, f.HandleText(c))
		}
	}

	require.NoError(t, f.onEdit(c, fmt.Sprint(int(validator.FirstName))))
	assert.Contains(t, c.last(), "That field is on another page.")
	assert.Equal(t, validator.EmployeeNumber, prompt(t, f).Field)

	s, _ := f.session(chatID)
	assert.Equal(t, "Alex", s.State().Group(validator.PagePersonal).Value(validator.FirstName))
}

func TestRegistrationDocumentCapture(t *testing.T) {
	f, _, _ := newRegistration(t)
	c := newContext()
	require.NoError(t, f.Start(c))

	c.msg = &telebot.Message{Document: &telebot.Document{File: telebot.File{FileID: "doc-9"}}}
	require.NoError(t, f.HandleDocument(c))
	assert.Contains(t, c.last(), "A document is not expected yet.")
	assert.Equal(t, validator.FirstName, prompt(t, f).Field)

	fillAll(t, f, c)
	s, _ := f.session(chatID)
	require.NoError(t, f.move(c, (*intake.Session).Back))
	require.NoError(t, f.move(c, (*intake.Session).Next))
	assert.Equal(t, "photo-1", s.State().Group(validator.PageBanking).Value(validator.Document))
}

func TestRegistrationCancel(t *testing.T) {
	f, _, _ := newRegistration(t)
	c := newContext()

	require.NoError(t, f.Cancel(c))
	assert.Equal(t, "Nothing to cancel.", c.last())

	require.NoError(t, f.Start(c))
	require.NoError(t, f.Cancel(c))
	assert.Equal(t, "Registration cancelled.", c.last())
	assert.False(t, f.Active(chatID))

	require.NoError(t, f.onSubmit(c, ""))
	assert.Equal(t, "This registration has ended.", c.last())
}

// botAPI is a minimal Bot API server that answers every call with a
// message and remembers the texts it was asked to send or edit.
type botAPI struct {
	mu    sync.Mutex
	calls []string
	texts []string
}

func (a *botAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	text, _ := payload["text"].(string)

	a.mu.Lock()
	a.calls = append(a.calls, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	a.texts = append(a.texts, text)
	id := len(a.calls)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"ok": true,
		"result": map[string]interface{}{
			"message_id": id,
			"chat":       map[string]interface{}{"id": chatID},
			"text":       text,
		},
	})
}

func (a *botAPI) lastText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.texts) == 0 {
		return ""
	}
	return a.texts[len(a.texts)-1]
}

func newDirectory(t *testing.T) (*Directory, *service.EmployeeService, *botAPI) {
	t.Helper()
	api := &botAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	bot, err := telebot.NewBot(telebot.Settings{Token: "test", URL: srv.URL, Offline: true})
	require.NoError(t, err)

	employees, async, _ := newServices(t)
	d := NewDirectory(context.Background(), bot, employees, async, zap.NewNop())
	t.Cleanup(d.Close)
	return d, employees, api
}

func employee(name string) domain.EmployeeRecord {
	return domain.EmployeeRecord{
		Personal: domain.PersonalInfo{
			FirstName: "Alex", LastName: "Doe", Phone: "9876543210",
			Gender: domain.GenderMale, DateOfBirth: "1990-01-01",
		},
		Employment: domain.EmploymentInfo{
			EmployeeNumber: "EMP001", EmployeeName: name, Designation: "Engineer",
			AccountType: domain.AccountSaving, Experience: domain.Experience1Year,
		},
		Banking: domain.BankingInfo{
			BankName: "State Bank", BranchName: "MG Road", AccountNumber: "123456789012",
			IFSCCode: "SBIN0001234",
		},
	}
}

func buttonLabels(m *telebot.ReplyMarkup) []string {
	var out []string
	if m == nil {
		return out
	}
	for _, row := range m.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

func TestDirectoryListFollowsStorage(t *testing.T) {
	d, employees, api := newDirectory(t)
	ctx := context.Background()
	_, err := employees.Add(ctx, employee("John Doe"))
	require.NoError(t, err)

	c := newContext()
	require.NoError(t, d.ShowList(c))
	assert.Equal(t, "Employees: 1", api.lastText())

	_, err = employees.Add(ctx, employee("Jane Smith"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return api.lastText() == "Employees: 2"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDirectorySearch(t *testing.T) {
	d, employees, api := newDirectory(t)
	ctx := context.Background()
	for _, name := range []string{"John Doe", "Jane Smith"} {
		_, err := employees.Add(ctx, employee(name))
		require.NoError(t, err)
	}

	c := newContext()
	require.NoError(t, d.StartSearch(c))
	assert.True(t, d.Searching(chatID))

	c.text = "jo"
	require.NoError(t, d.HandleSearch(c))
	assert.False(t, d.Searching(chatID))
	assert.Equal(t, "Search \"jo\"\nEmployees: 1", api.lastText())

	v, err := d.view(chatID)
	require.NoError(t, err)
	title, markup := d.listText(v)
	assert.Contains(t, title, "Employees: 1")
	assert.Equal(t, []string{"John Doe · Engineer"}, buttonLabels(markup))
}

func TestDirectoryShowAndDelete(t *testing.T) {
	d, employees, _ := newDirectory(t)
	ctx := context.Background()
	id, err := employees.Add(ctx, employee("John Doe"))
	require.NoError(t, err)

	c := newContext()
	c.callback = &telebot.Callback{}
	require.NoError(t, d.onShow(c, fmt.Sprint(id)))
	assert.Contains(t, c.last(), "John Doe (ID")
	assert.Contains(t, buttonLabels(c.lastMarkup()), "🗑 Delete")

	require.NoError(t, d.onDelete(c, fmt.Sprint(id)))
	_, err = employees.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	v, err := d.view(chatID)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		title, _ := d.listText(v)
		return title == "No employees found."
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, d.onDelete(c, fmt.Sprint(id)))
	assert.Equal(t, "Failed to delete employee", c.last())
	assert.Contains(t, buttonLabels(c.lastMarkup()), "« Back to list")

	require.NoError(t, d.onShow(c, fmt.Sprint(id)))
	assert.Equal(t, "Employee not found", c.last())
}
