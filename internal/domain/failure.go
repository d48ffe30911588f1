package domain

import "errors"

type ErrorKind string

const (
	KindPersistence   ErrorKind = "persistence_failure"
	KindNotFound      ErrorKind = "not_found"
	KindCorruptRecord ErrorKind = "corrupt_record"
)

var (
	ErrPersistence   = errors.New("persistence failure")
	ErrNotFound      = errors.New("not found")
	ErrCorruptRecord = errors.New("corrupt record")
)

// OperationFailure is the error returned by every repository operation.
// Message is shown to the operator, Detail carries the underlying cause.
type OperationFailure struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Err     error
}

func NewFailure(kind ErrorKind, message string, err error) *OperationFailure {
	f := &OperationFailure{Kind: kind, Message: message, Err: err}
	if err != nil {
		f.Detail = err.Error()
	}
	return f
}

func (f *OperationFailure) Error() string {
	if f.Detail == "" {
		return f.Message
	}
	return f.Message + ": " + f.Detail
}

func (f *OperationFailure) Unwrap() error {
	return f.Err
}

// Is matches the kind sentinels, so errors.Is(err, ErrNotFound) works
// regardless of the wrapped cause.
func (f *OperationFailure) Is(target error) bool {
	switch f.Kind {
	case KindPersistence:
		return target == ErrPersistence
	case KindNotFound:
		return target == ErrNotFound
	case KindCorruptRecord:
		return target == ErrCorruptRecord
	}
	return false
}

// FailureOf extracts the OperationFailure from err, if any.
func FailureOf(err error) (*OperationFailure, bool) {
	var f *OperationFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
