package core

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
)

const (
	StateInit    = "init"
	StateRunning = "running"
	StateStopped = "stopped"

	EventStart = "start"
	EventStop  = "stop"
)

// newLifecycle builds the router lifecycle. Callbacks only log, they must never
// call back into the machine.
func newLifecycle(log *slog.Logger) *fsm.FSM {
	return fsm.NewFSM(
		StateInit,
		fsm.Events{
			{Name: EventStart, Src: []string{StateInit}, Dst: StateRunning},
			{Name: EventStop, Src: []string{StateInit, StateRunning}, Dst: StateStopped},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				log.Debug("lifecycle transition", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}

// VisualizeLifecycle renders the router lifecycle as a Graphviz graph
func VisualizeLifecycle() string {
	return fsm.Visualize(newLifecycle(slog.New(slog.DiscardHandler)))
}
