package wizard

import (
	"sync"

	"employee-bot/internal/domain"
	"employee-bot/internal/form"
	"employee-bot/internal/validator"
)

// Controller owns one wizard State. It is discarded after a successful
// submit rather than reset.
type Controller struct {
	mu        sync.Mutex
	state     State
	listeners []func(State)
}

func NewController() *Controller {
	return &Controller{state: New()}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive every new snapshot.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Controller) Dispatch(ev Event) error {
	c.mu.Lock()
	next, err := Reduce(c.state, ev)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

func (c *Controller) Change(f validator.Field, value string) error {
	return c.Dispatch(form.FieldChanged{Field: f, Value: value})
}

func (c *Controller) Next() error { return c.Dispatch(Next{}) }

func (c *Controller) Back() error { return c.Dispatch(Back{}) }

func (c *Controller) Submit() (domain.EmployeeRecord, error) {
	return Submit(c.State())
}
