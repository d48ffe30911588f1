package controller

import (
	"context"
	"sync"

	"employee-bot/internal/app/service"
	"employee-bot/internal/domain"
)

const AddedMessage = "Employee Added Successfully"

type RegistrationState struct {
	Loading bool
	Failure *domain.OperationFailure
	// Added is set to AddedMessage after a successful submit.
	Added string
	ID    int64
}

// Registration persists records produced by a completed wizard.
type Registration struct {
	repo *service.EmployeeService

	mu    sync.Mutex
	state RegistrationState
}

func NewRegistration(repo *service.EmployeeService) *Registration {
	return &Registration{repo: repo}
}

func (r *Registration) Submit(ctx context.Context, rec domain.EmployeeRecord) (int64, error) {
	r.set(RegistrationState{Loading: true})
	id, err := r.repo.Add(ctx, rec)
	if err != nil {
		r.set(RegistrationState{Failure: asFailure(err, "Failed to add employee")})
		return 0, err
	}
	r.set(RegistrationState{Added: AddedMessage, ID: id})
	return id, nil
}

func (r *Registration) State() RegistrationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Registration) set(st RegistrationState) {
	r.mu.Lock()
	r.state = st
	r.mu.Unlock()
}
