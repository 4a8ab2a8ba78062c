package core

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/google/go-cmp/cmp"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records everything the algorithm asks of the router
type RouterHarness struct {
	actions []HarnessEvent
}

func (h *RouterHarness) BroadcastVector(vec *state.DistanceVector) {
	h.actions = append(h.actions, MakeEvent("BROADCAST_VECTOR", vec))
}

func (h *RouterHarness) Log(event RouterEvent, desc string, args ...any) {
	x := make([]any, 0)
	x = append(x, event)
	x = append(x, desc)
	x = append(x, args...)
	h.actions = append(h.actions, MakeEvent("LOG", x...))
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	slices.Sort(out)
	return strings.Join(out, "\n")
}

// GetActions returns and clears the recorded non-log actions
func (h *RouterHarness) GetActions() HarnessEvents {
	x := make([]HarnessEvent, 0)
	for _, action := range h.actions {
		if action.Message != "LOG" {
			x = append(x, action)
		}
	}

	h.actions = make([]HarnessEvent, 0)
	return x
}

// GetLogs returns the router events logged since the last GetActions call
func (h *RouterHarness) GetLogs() []RouterEvent {
	x := make([]RouterEvent, 0)
	for _, action := range h.actions {
		if action.Message == "LOG" {
			x = append(x, action.Args[0].(RouterEvent))
		}
	}
	return x
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message == msg {
			if len(event.Args) >= len(args) {
				match := true
				for i, arg := range args {
					if !cmp.Equal(event.Args[i], arg) {
						match = false
						break
					}
				}
				if match {
					return true
				}
			}
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

// MakeRouter builds a router state with neighbours given as id, cost pairs
func MakeRouter(id state.NodeId, all []state.NodeId, neighs ...state.Pair[state.NodeId, state.Cost]) *state.RouterState {
	rs := state.NewRouterState(nil, id)
	rs.AllNodes = all
	for _, n := range neighs {
		rs.Neighbours = append(rs.Neighbours, &state.Neighbour{
			Id:   n.V1,
			Cost: n.V2,
		})
	}
	return rs
}

func Vec(origin state.NodeId, costs map[state.NodeId]state.Cost) *state.DistanceVector {
	return state.NewDistanceVector(origin, costs)
}

func (h *RouterHarness) NeighVector(t *testing.T, rs *state.RouterState, origin state.NodeId, costs map[state.NodeId]state.Cost) {
	t.Helper()
	err := HandleNeighbourVector(rs, h, Vec(origin, costs))
	if err != nil {
		t.Fatal(err)
	}
}
