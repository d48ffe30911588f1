package service

import (
	"context"

	"employee-bot/pkg/workerpool"
)

// AsyncService moves blocking repository calls off the bot's update
// goroutines onto the shared worker pool.
type AsyncService struct {
	Pool *workerpool.WorkerPool
}

func NewAsyncService(pool *workerpool.WorkerPool) *AsyncService {
	return &AsyncService{Pool: pool}
}

// SubmitAsync runs fn on the pool and waits for its result.
func (a *AsyncService) SubmitAsync(ctx context.Context, fn func() (any, error)) (any, error) {
	resCh := make(chan workerpool.Result, 1)
	if err := a.Pool.Submit(ctx, workerpool.Task{
		Fn:      fn,
		ResultC: resCh,
	}); err != nil {
		return nil, err
	}
	select {
	case res := <-resCh:
		return res.Value, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.Pool.Done():
		return nil, workerpool.ErrClosed
	}
}

// Run is SubmitAsync for calls that only return an error.
func (a *AsyncService) Run(ctx context.Context, fn func() error) error {
	_, err := a.SubmitAsync(ctx, func() (any, error) {
		return nil, fn()
	})
	return err
}

// Do is the typed form of SubmitAsync.
func Do[T any](ctx context.Context, a *AsyncService, fn func() (T, error)) (T, error) {
	v, err := a.SubmitAsync(ctx, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
