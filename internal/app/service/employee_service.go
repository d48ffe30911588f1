package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"employee-bot/internal/codec"
	"employee-bot/internal/domain"
	"employee-bot/internal/validator"
)

const (
	msgAddFailed    = "Failed to add employee"
	msgUpdateFailed = "Failed to update employee"
	msgListFailed   = "Failed to get all employees"
	msgNotFound     = "Employee not found"
	msgGetFailed    = "Failed to get employee"
	msgCorrupt      = "Employee record is corrupt"
	msgDeleteFailed = "Failed to delete employee"
)

// EmployeeService is the employee repository. Every error it returns is a
// *domain.OperationFailure.
type EmployeeService struct {
	Repo domain.EmployeeStore
	log  *zap.Logger

	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewEmployeeService(repo domain.EmployeeStore, log *zap.Logger) *EmployeeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmployeeService{
		Repo: repo,
		log:  log.Named("employees"),
		subs: make(map[chan struct{}]struct{}),
	}
}

// Add persists rec under a freshly assigned id and returns it. rec.ID is
// ignored.
func (s *EmployeeService) Add(ctx context.Context, rec domain.EmployeeRecord) (int64, error) {
	rec.ID = 0
	blob, err := codec.Encode(rec)
	if err != nil {
		return 0, s.fail(domain.KindPersistence, msgAddFailed, err)
	}
	id, err := s.Repo.Insert(ctx, blob)
	if err != nil {
		return 0, s.fail(domain.KindPersistence, msgAddFailed, err)
	}
	s.log.Info("employee added", zap.Int64("id", id), zap.String("name", rec.Employment.EmployeeName))
	s.Refresh()
	return id, nil
}

// Update overwrites the record stored under id, creating it if needed.
func (s *EmployeeService) Update(ctx context.Context, id int64, rec domain.EmployeeRecord) error {
	rec.ID = id
	blob, err := codec.Encode(rec)
	if err != nil {
		return s.fail(domain.KindPersistence, msgUpdateFailed, err)
	}
	if err := s.Repo.Put(ctx, id, blob); err != nil {
		return s.fail(domain.KindPersistence, msgUpdateFailed, err)
	}
	s.log.Info("employee updated", zap.Int64("id", id))
	s.Refresh()
	return nil
}

// GetAll checks that storage is reachable and returns a feed of full
// snapshots.
func (s *EmployeeService) GetAll(ctx context.Context) (*Feed, error) {
	if err := s.Repo.Ping(ctx); err != nil {
		return nil, s.fail(domain.KindPersistence, msgListFailed, err)
	}
	return &Feed{svc: s}, nil
}

// List returns every stored record ordered by id.
func (s *EmployeeService) List(ctx context.Context) ([]domain.EmployeeRecord, error) {
	rows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, s.fail(domain.KindPersistence, msgListFailed, err)
	}
	out := make([]domain.EmployeeRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeRow(row)
		if err != nil {
			return nil, s.fail(domain.KindCorruptRecord, msgListFailed, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *EmployeeService) GetByID(ctx context.Context, id int64) (domain.EmployeeRecord, error) {
	row, err := s.Repo.Get(ctx, id)
	if errors.Is(err, domain.ErrRowNotFound) {
		return domain.EmployeeRecord{}, s.fail(domain.KindNotFound, msgNotFound, fmt.Errorf("id %d", id))
	}
	if err != nil {
		return domain.EmployeeRecord{}, s.fail(domain.KindPersistence, msgGetFailed, err)
	}
	rec, err := decodeRow(row)
	if err != nil {
		return domain.EmployeeRecord{}, s.fail(domain.KindCorruptRecord, msgCorrupt, err)
	}
	return rec, nil
}

// Delete removes the record with id. The record is looked up first, so an
// unknown id is reported as not found.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	_, err := s.Repo.Get(ctx, id)
	if errors.Is(err, domain.ErrRowNotFound) {
		return s.fail(domain.KindNotFound, msgDeleteFailed, fmt.Errorf("id %d", id))
	}
	if err != nil {
		return s.fail(domain.KindPersistence, msgDeleteFailed, err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return s.fail(domain.KindPersistence, msgDeleteFailed, err)
	}
	s.log.Info("employee deleted", zap.Int64("id", id))
	s.Refresh()
	return nil
}

// InvalidRecordError rejects an import batch. Index is the position of the
// first offending record.
type InvalidRecordError struct {
	Index    int
	Failures []validator.FieldFailure
}

func (e *InvalidRecordError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Field.String()+": "+f.Failure.Message)
	}
	return fmt.Sprintf("record %d is invalid: %s", e.Index, strings.Join(msgs, "; "))
}

// Import validates every record before writing any of them. Records with an
// id are upserted, the rest are added.
func (s *EmployeeService) Import(ctx context.Context, records []domain.EmployeeRecord) (added, updated int, err error) {
	for i, rec := range records {
		if failures := validator.ValidateRecord(rec); len(failures) > 0 {
			return 0, 0, &InvalidRecordError{Index: i, Failures: failures}
		}
	}
	for _, rec := range records {
		if rec.Persisted() {
			if err := s.Update(ctx, rec.ID, rec); err != nil {
				return added, updated, err
			}
			updated++
			continue
		}
		if _, err := s.Add(ctx, rec); err != nil {
			return added, updated, err
		}
		added++
	}
	return added, updated, nil
}

// Refresh wakes every feed subscriber. Pending wake-ups coalesce.
func (s *EmployeeService) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *EmployeeService) watch() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *EmployeeService) unwatch(ch chan struct{}) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
}

func (s *EmployeeService) fail(kind domain.ErrorKind, msg string, err error) *domain.OperationFailure {
	f := domain.NewFailure(kind, msg, err)
	s.log.Warn(msg, zap.String("kind", string(kind)), zap.Error(err))
	return f
}

func decodeRow(row domain.StoredRow) (domain.EmployeeRecord, error) {
	rec, err := codec.Decode(row.Blob)
	if err != nil {
		return domain.EmployeeRecord{}, fmt.Errorf("id %d: %w", row.ID, err)
	}
	rec.ID = row.ID
	return rec, nil
}
