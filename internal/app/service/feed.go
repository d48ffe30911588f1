package service

import (
	"context"

	"employee-bot/internal/domain"
)

// Snapshot is one complete view of storage. Exactly one of Records and Err
// is meaningful.
type Snapshot struct {
	Records []domain.EmployeeRecord
	Err     error
}

// Feed streams full snapshots of all employees. It can be subscribed to any
// number of times.
type Feed struct {
	svc *EmployeeService
}

// Subscribe emits the current snapshot, then a fresh one after every
// change, until ctx is done. The channel is closed on return.
func (f *Feed) Subscribe(ctx context.Context) <-chan Snapshot {
	out := make(chan Snapshot)
	changed := f.svc.watch()
	go func() {
		defer close(out)
		defer f.svc.unwatch(changed)
		for {
			recs, err := f.svc.List(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Snapshot{Records: recs, Err: err}:
			case <-ctx.Done():
				return
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
