// Package form holds the state of one wizard page: the raw value of each
// field and the outcome of the last validation run on it.
//
// A Group is an immutable snapshot; Reduce returns a new one.
package form

import "employee-bot/internal/validator"

// FieldChanged is emitted by the UI each time the operator edits a field.
type FieldChanged struct {
	Field validator.Field
	Value string
}

type Group struct {
	page     validator.Page
	fields   []validator.Field
	values   map[validator.Field]string
	failures map[validator.Field]validator.Failure
}

func NewGroup(page validator.Page) Group {
	return Group{
		page:     page,
		fields:   validator.Fields(page),
		values:   map[validator.Field]string{},
		failures: map[validator.Field]validator.Failure{},
	}
}

// Reduce applies ev to g. Only the changed field is re-validated; failures
// of the other fields are carried over untouched. Events for fields that
// belong to another page return g unchanged.
func Reduce(g Group, ev FieldChanged) Group {
	if !ev.Field.Valid() || ev.Field.Page() != g.page {
		return g
	}
	next := g.clone()
	next.values[ev.Field] = ev.Value
	if fail := validator.Validate(ev.Field, ev.Value); fail != nil {
		next.failures[ev.Field] = *fail
	} else {
		delete(next.failures, ev.Field)
	}
	return next
}

func (g Group) clone() Group {
	c := Group{
		page:     g.page,
		fields:   g.fields,
		values:   make(map[validator.Field]string, len(g.values)+1),
		failures: make(map[validator.Field]validator.Failure, len(g.failures)+1),
	}
	for k, v := range g.values {
		c.values[k] = v
	}
	for k, v := range g.failures {
		c.failures[k] = v
	}
	return c
}

func (g Group) Page() validator.Page { return g.page }

func (g Group) Fields() []validator.Field {
	out := make([]validator.Field, len(g.fields))
	copy(out, g.fields)
	return out
}

func (g Group) Value(f validator.Field) string {
	return g.values[f]
}

// Touched reports whether f has received at least one change event.
func (g Group) Touched(f validator.Field) bool {
	_, ok := g.values[f]
	return ok
}

// Failure returns the failure recorded by the last edit of f. A touched
// field without failure passed validation.
func (g Group) Failure(f validator.Field) (validator.Failure, bool) {
	fail, ok := g.failures[f]
	return fail, ok
}

// Failures returns the current failures in form order.
func (g Group) Failures() []validator.FieldFailure {
	var out []validator.FieldFailure
	for _, f := range g.fields {
		if fail, ok := g.failures[f]; ok {
			out = append(out, validator.FieldFailure{Field: f, Failure: fail})
		}
	}
	return out
}

// Complete is true when every field holds a value and no field carries a
// failure. It is evaluated on each call.
func (g Group) Complete() bool {
	for _, f := range g.fields {
		if _, failed := g.failures[f]; failed {
			return false
		}
		v := g.values[f]
		if f == validator.Document {
			if v == "" {
				return false
			}
			continue
		}
		if validator.Blank(v) {
			return false
		}
	}
	return true
}
