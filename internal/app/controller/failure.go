// Package controller holds the screen-level state behind the employee list,
// detail and registration views.
package controller

import (
	"employee-bot/internal/domain"
)

// asFailure converts any error into an operator-facing failure. Context
// errors and pool shutdowns arrive unwrapped and are reported as
// persistence failures with the given message.
func asFailure(err error, message string) *domain.OperationFailure {
	if f, ok := domain.FailureOf(err); ok {
		return f
	}
	return domain.NewFailure(domain.KindPersistence, message, err)
}

// Message is the text shown to the operator for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if f, ok := domain.FailureOf(err); ok {
		return f.Message
	}
	return err.Error()
}
