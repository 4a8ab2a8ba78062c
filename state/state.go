package state

import (
	"context"
	"log/slog"
)

// Env can be read from any Goroutine
type Env struct {
	DispatchChannel chan<- func(s *RouterState) error
	Context         context.Context
	Cancel          context.CancelCauseFunc
	Log             *slog.Logger
}

func NewEnv(ctx context.Context, dispatch chan<- func(s *RouterState) error, log *slog.Logger) *Env {
	ctx, cancel := context.WithCancelCause(ctx)
	return &Env{
		DispatchChannel: dispatch,
		Context:         ctx,
		Cancel:          cancel,
		Log:             log,
	}
}
