package controller

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"employee-bot/internal/app/service"
	"employee-bot/internal/domain"
)

// ErrListClosed is returned by Activate once Close has been called.
var ErrListClosed = errors.New("employee list is closed")

type ListState struct {
	Loading       bool
	DeleteLoading bool
	Failure       *domain.OperationFailure
	Employees     []domain.EmployeeRecord
	SearchQuery   string
}

// List keeps the employee list in sync with storage while active.
type List struct {
	repo *service.EmployeeService
	log  *zap.Logger

	mu        sync.Mutex
	state     ListState
	listeners []func(ListState)
	cancel    context.CancelFunc
	done      chan struct{}
	closed    bool
}

func NewList(repo *service.EmployeeService, log *zap.Logger) *List {
	if log == nil {
		log = zap.NewNop()
	}
	return &List{repo: repo, log: log.Named("list")}
}

// Activate subscribes to the employee feed and waits for the first
// snapshot. Later snapshots are applied in the background until ctx is done
// or Close is called. A second Activate replaces the first subscription.
func (l *List) Activate(ctx context.Context) error {
	if l.isClosed() {
		return ErrListClosed
	}
	l.stop()
	l.update(func(s *ListState) {
		s.Loading = true
		s.Failure = nil
	})

	feed, err := l.repo.GetAll(ctx)
	if err != nil {
		l.update(func(s *ListState) {
			s.Loading = false
			s.Failure = asFailure(err, "Failed to get all employees")
		})
		return err
	}

	subCtx, cancel := context.WithCancel(ctx)
	snapshots := feed.Subscribe(subCtx)
	first, ok := <-snapshots
	if !ok {
		cancel()
		l.update(func(s *ListState) { s.Loading = false })
		return ctx.Err()
	}
	l.apply(first)

	done := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		// Close ran while the first snapshot was loading.
		l.mu.Unlock()
		cancel()
		for range snapshots {
		}
		return ErrListClosed
	}
	l.cancel, l.done = cancel, done
	l.mu.Unlock()

	go func() {
		defer close(done)
		for snap := range snapshots {
			l.apply(snap)
		}
	}()
	return first.Err
}

func (l *List) apply(snap service.Snapshot) {
	if snap.Err != nil {
		l.log.Warn("employee feed failed", zap.Error(snap.Err))
	}
	l.update(func(s *ListState) {
		s.Loading = false
		if snap.Err != nil {
			s.Failure = asFailure(snap.Err, "Failed to get all employees")
			return
		}
		s.Employees = snap.Records
	})
}

func (l *List) Search(term string) {
	l.update(func(s *ListState) { s.SearchQuery = term })
}

// Visible returns the employees matching the current query, sorted by name.
func (l *List) Visible() []domain.EmployeeRecord {
	st := l.State()
	return Filter(st.Employees, st.SearchQuery)
}

// Filter keeps records whose employee name contains query, ignoring case,
// and sorts the result by employee name. An empty query keeps everything.
func Filter(records []domain.EmployeeRecord, query string) []domain.EmployeeRecord {
	q := strings.ToLower(query)
	out := make([]domain.EmployeeRecord, 0, len(records))
	for _, r := range records {
		if q == "" || strings.Contains(strings.ToLower(r.Employment.EmployeeName), q) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Employment.EmployeeName < out[j].Employment.EmployeeName
	})
	return out
}

// Delete removes one employee. The list itself is refreshed by the feed.
func (l *List) Delete(ctx context.Context, id int64) error {
	l.update(func(s *ListState) {
		s.DeleteLoading = true
		s.Failure = nil
	})
	err := l.repo.Delete(ctx, id)
	l.update(func(s *ListState) {
		s.DeleteLoading = false
		if err != nil {
			s.Failure = asFailure(err, "Failed to delete employee")
		}
	})
	return err
}

func (l *List) ClearFailure() {
	l.update(func(s *ListState) { s.Failure = nil })
}

func (l *List) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// OnChange registers fn to receive every new state.
func (l *List) OnChange(fn func(ListState)) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// Close ends the feed subscription and waits for it to drain. An
// Activate still in flight gives up its subscription as soon as it
// returns.
func (l *List) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.stop()
}

func (l *List) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *List) stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *List) update(fn func(*ListState)) {
	l.mu.Lock()
	fn(&l.state)
	st := l.state
	listeners := append([]func(ListState){}, l.listeners...)
	l.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}
