// Package intake drives a registration wizard as a question and answer
// conversation. It knows nothing about the chat or terminal rendering it.
package intake

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"employee-bot/internal/domain"
	"employee-bot/internal/form"
	"employee-bot/internal/validator"
	"employee-bot/internal/wizard"
)

var (
	ErrNotAwaiting = errors.New("no field is waiting for an answer")
	ErrOtherPage   = wizard.ErrOtherPage
)

type Kind int

const (
	AskText Kind = iota
	AskChoice
	AskDate
	AskDocument
	// Review shows the filled page and offers navigation.
	Review
)

// Prompt is what the operator should be shown next.
type Prompt struct {
	Kind     Kind
	Page     validator.Page
	Field    validator.Field
	Question string
	Options  []string
	Current  string
	// Failure is the validation message for the last answer to Field.
	Failure string

	CanBack   bool
	CanNext   bool
	CanSubmit bool
}

// Session is one operator's registration in progress.
type Session struct {
	ID string

	wiz      *wizard.Controller
	mu       sync.Mutex
	awaiting validator.Field
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString(), wiz: wizard.NewController()}
}

func (s *Session) State() wizard.State {
	return s.wiz.State()
}

// Prompt returns the first unanswered or failing field of the current
// page, or a review of the page once every field has passed.
func (s *Session) Prompt() Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt()
}

func (s *Session) prompt() Prompt {
	st := s.wiz.State()
	if s.awaiting == 0 {
		s.awaiting = pending(st.Current())
	}
	if s.awaiting != 0 {
		return ask(st.Current(), s.awaiting)
	}
	return review(st)
}

// Answer stores text as the value of the awaited field. A failing answer
// keeps the field awaited and the returned prompt carries the message.
func (s *Session) Answer(text string) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaiting == 0 {
		s.awaiting = pending(s.wiz.State().Current())
	}
	if s.awaiting == 0 {
		return s.prompt(), ErrNotAwaiting
	}
	f := s.awaiting
	if err := s.wiz.Change(f, resolveChoice(f, text)); err != nil {
		return s.prompt(), err
	}
	if _, failed := s.wiz.State().Current().Failure(f); !failed {
		s.awaiting = 0
	}
	return s.prompt(), nil
}

// Awaiting reports the field the next Answer goes to, if any.
func (s *Session) Awaiting() (validator.Field, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting, s.awaiting != 0
}

// Edit asks f again. f must belong to the current page.
func (s *Session) Edit(f validator.Field) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !f.Valid() || f.Page() != s.wiz.State().Page() {
		return s.prompt(), ErrOtherPage
	}
	s.awaiting = f
	return s.prompt(), nil
}

func (s *Session) Next() (Prompt, error) {
	return s.move(s.wiz.Next)
}

func (s *Session) Back() (Prompt, error) {
	return s.move(s.wiz.Back)
}

func (s *Session) move(fn func() error) (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(); err != nil {
		return s.prompt(), err
	}
	s.awaiting = 0
	return s.prompt(), nil
}

// Submit composes the record. The session should be dropped once the
// record has been stored.
func (s *Session) Submit() (domain.EmployeeRecord, error) {
	return s.wiz.Submit()
}

func pending(g form.Group) validator.Field {
	for _, f := range g.Fields() {
		if !g.Touched(f) {
			return f
		}
		if _, failed := g.Failure(f); failed {
			return f
		}
	}
	return 0
}

func ask(g form.Group, f validator.Field) Prompt {
	p := Prompt{
		Kind:     kindOf(f),
		Page:     g.Page(),
		Field:    f,
		Question: question(f),
		Options:  Options(f),
		Current:  g.Value(f),
	}
	if fail, ok := g.Failure(f); ok {
		p.Failure = fail.Message
	}
	return p
}

func review(st wizard.State) Prompt {
	valid := st.CurrentPageValid()
	return Prompt{
		Kind:      Review,
		Page:      st.Page(),
		Question:  "Check the " + strings.ToLower(st.Page().String()) + " details",
		CanBack:   st.Page() != validator.PagePersonal,
		CanNext:   !st.IsLastPage() && valid,
		CanSubmit: st.IsLastPage() && valid,
	}
}

func kindOf(f validator.Field) Kind {
	switch f {
	case validator.Gender, validator.AccountType, validator.Experience:
		return AskChoice
	case validator.DateOfBirth:
		return AskDate
	case validator.Document:
		return AskDocument
	}
	return AskText
}

// Options lists the allowed values of a choice field.
func Options(f validator.Field) []string {
	switch f {
	case validator.Gender:
		return domain.Genders
	case validator.AccountType:
		return domain.AccountTypes
	case validator.Experience:
		return domain.Experiences
	}
	return nil
}

func question(f validator.Field) string {
	switch kindOf(f) {
	case AskChoice:
		return "Select " + strings.ToLower(f.String())
	case AskDate:
		return "Select date of birth"
	case AskDocument:
		return "Send a photo or file of the bank document"
	}
	return "Enter " + strings.ToLower(f.String())
}

// resolveChoice maps a 1-based option number or a case-insensitive option
// name to the option itself. Anything else is passed through for the
// validator to reject.
func resolveChoice(f validator.Field, text string) string {
	opts := Options(f)
	if opts == nil {
		return text
	}
	t := strings.TrimSpace(text)
	if n, err := strconv.Atoi(t); err == nil && n >= 1 && n <= len(opts) {
		return opts[n-1]
	}
	for _, o := range opts {
		if strings.EqualFold(o, t) {
			return o
		}
	}
	return text
}

// Summary renders one page as "Label: value" lines.
func Summary(g form.Group) string {
	var b strings.Builder
	for _, f := range g.Fields() {
		v := g.Value(f)
		if f == validator.Document && v != "" {
			v = "attached"
		}
		b.WriteString(f.String())
		b.WriteString(": ")
		b.WriteString(v)
		if fail, ok := g.Failure(f); ok {
			b.WriteString(" (" + fail.Message + ")")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
