package state

import (
	"context"
	"fmt"
	"time"
)

// Dispatch Dispatches the function to run on the router goroutine without waiting for it to complete.
// Returns ErrStopped if the router shut down before accepting the function.
func (e *Env) Dispatch(fun func(*RouterState) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.Cancel(fmt.Errorf("panic: %v", r))
			err = ErrStopped
		}
	}()
	if e.Context.Err() != nil {
		return ErrStopped
	}
	select {
	case e.DispatchChannel <- fun:
		return nil
	case <-e.Context.Done():
		return ErrStopped
	}
}

// DispatchWait Dispatches the function to run on the router goroutine and wait for it to complete
func (e *Env) DispatchWait(ctx context.Context, fun func(*RouterState) (any, error)) (any, error) {
	ret := make(chan Pair[any, error], 1)
	err := e.Dispatch(func(s *RouterState) error {
		res, err := fun(s)
		ret <- Pair[any, error]{res, err}
		return nil
	})
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ret:
		return res.V1, res.V2
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-e.Context.Done():
		return nil, ErrStopped
	}
}

func (e *Env) repeatedTask(fun func(*RouterState) error, delay time.Duration) {
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	for {
		select {
		case <-e.Context.Done():
			return
		case <-ticker.C:
			if e.Dispatch(fun) != nil {
				return
			}
		}
	}
}

// RepeatTask dispatches fun every delay until the router stops
func (e *Env) RepeatTask(fun func(*RouterState) error, delay time.Duration) {
	go e.repeatedTask(fun, delay)
}
