package domain

import (
	"context"
	"errors"
)

// ErrRowNotFound is returned by an EmployeeStore when no row has the id.
var ErrRowNotFound = errors.New("row not found")

// StoredRow is one encoded record as kept by the backend.
type StoredRow struct {
	ID   int64
	Blob string
}

// EmployeeStore is the storage backend behind the employee repository:
// a table of encoded records keyed by an auto-incrementing id.
type EmployeeStore interface {
	Insert(ctx context.Context, blob string) (int64, error)
	Put(ctx context.Context, id int64, blob string) error
	Get(ctx context.Context, id int64) (StoredRow, error)
	List(ctx context.Context) ([]StoredRow, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}
