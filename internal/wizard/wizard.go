// Package wizard sequences the three registration pages and composes the
// final employee record.
package wizard

import (
	"errors"

	"employee-bot/internal/domain"
	"employee-bot/internal/form"
	"employee-bot/internal/validator"
)

var (
	ErrPageIncomplete = errors.New("current page is not complete")
	ErrFirstPage      = errors.New("already on the first page")
	ErrLastPage       = errors.New("already on the last page")
	ErrNotLastPage    = errors.New("submit is only allowed on the last page")
	ErrOtherPage      = errors.New("field is not on the current page")
)

const lastPage = validator.PageBanking

// Event is one input to Reduce: form.FieldChanged, Next or Back.
type Event interface{}

type (
	Next struct{}
	Back struct{}
)

// State is an immutable wizard snapshot.
type State struct {
	page       validator.Page
	personal   form.Group
	employment form.Group
	banking    form.Group
}

func New() State {
	return State{
		page:       validator.PagePersonal,
		personal:   form.NewGroup(validator.PagePersonal),
		employment: form.NewGroup(validator.PageEmployment),
		banking:    form.NewGroup(validator.PageBanking),
	}
}

func (s State) Page() validator.Page { return s.page }

// Group returns the state of page p.
func (s State) Group(p validator.Page) form.Group {
	switch p {
	case validator.PageEmployment:
		return s.employment
	case validator.PageBanking:
		return s.banking
	default:
		return s.personal
	}
}

func (s State) Current() form.Group {
	return s.Group(s.page)
}

func (s State) CurrentPageValid() bool {
	return s.Current().Complete()
}

func (s State) IsLastPage() bool {
	return s.page == lastPage
}

// Reduce applies ev to s. On error s is returned unchanged.
func Reduce(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case form.FieldChanged:
		// An earlier page is only editable after Back, so Next gates it again.
		if !e.Field.Valid() || e.Field.Page() != s.page {
			return s, ErrOtherPage
		}
		switch e.Field.Page() {
		case validator.PagePersonal:
			s.personal = form.Reduce(s.personal, e)
		case validator.PageEmployment:
			s.employment = form.Reduce(s.employment, e)
		default:
			s.banking = form.Reduce(s.banking, e)
		}
		return s, nil
	case Next:
		if s.page >= lastPage {
			return s, ErrLastPage
		}
		if !s.CurrentPageValid() {
			return s, ErrPageIncomplete
		}
		s.page++
		return s, nil
	case Back:
		if s.page <= validator.PagePersonal {
			return s, ErrFirstPage
		}
		s.page--
		return s, nil
	}
	return s, errors.New("unknown wizard event")
}

// Submit composes the record held by s. Every page must be complete.
func Submit(s State) (domain.EmployeeRecord, error) {
	if s.page != lastPage {
		return domain.EmployeeRecord{}, ErrNotLastPage
	}
	if !s.personal.Complete() || !s.employment.Complete() || !s.banking.Complete() {
		return domain.EmployeeRecord{}, ErrPageIncomplete
	}
	banking := s.banking.BankingInfo()
	return domain.EmployeeRecord{
		Personal:   s.personal.PersonalInfo(),
		Employment: s.employment.EmploymentInfo(),
		Banking:    banking,
		ImageRef:   banking.DocumentRef,
	}, nil
}
