package controller

import (
	"context"
	"sync"

	"employee-bot/internal/app/service"
	"employee-bot/internal/domain"
)

type DetailState struct {
	Loading  bool
	Failure  *domain.OperationFailure
	Employee *domain.EmployeeRecord
}

type Detail struct {
	repo *service.EmployeeService

	mu    sync.Mutex
	state DetailState
}

func NewDetail(repo *service.EmployeeService) *Detail {
	return &Detail{repo: repo}
}

// Load fetches one employee, moving through Loading to either a found
// employee or a failure.
func (d *Detail) Load(ctx context.Context, id int64) (domain.EmployeeRecord, error) {
	d.set(DetailState{Loading: true})
	rec, err := d.repo.GetByID(ctx, id)
	if err != nil {
		d.set(DetailState{Failure: asFailure(err, "Employee not found")})
		return domain.EmployeeRecord{}, err
	}
	d.set(DetailState{Employee: &rec})
	return rec, nil
}

func (d *Detail) State() DetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Detail) ClearFailure() {
	d.mu.Lock()
	d.state.Failure = nil
	d.mu.Unlock()
}

func (d *Detail) set(st DetailState) {
	d.mu.Lock()
	d.state = st
	d.mu.Unlock()
}
