package core

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
)

type RouterEvent int

// trace events

const (
	VectorInitialized RouterEvent = iota
	VectorChanged
	VectorUnchanged
	NeighbourVectorStored
)

// warn events

const (
	UnknownNeighbour RouterEvent = iota + 1000
	InvalidVector
)

func (e RouterEvent) String() string {
	switch e {
	case VectorInitialized:
		return "VectorInitialized"
	case VectorChanged:
		return "VectorChanged"
	case VectorUnchanged:
		return "VectorUnchanged"
	case NeighbourVectorStored:
		return "NeighbourVectorStored"
	case UnknownNeighbour:
		return "UnknownNeighbour"
	case InvalidVector:
		return "InvalidVector"
	}
	return fmt.Sprintf("RouterEvent(%d)", int(e))
}

// Router is an interface that defines the underlying router operations
type Router interface {
	// BroadcastVector sends vec to every neighbour. It must not block on the receivers.
	BroadcastVector(vec *state.DistanceVector)
	Log(event RouterEvent, desc string, args ...any)
}

// InitVector builds the starting vector from the link costs alone and announces it.
// Every node in AllNodes that is neither the router itself nor a neighbour is unreachable.
func InitVector(s *state.RouterState, r Router) {
	costs := make(map[state.NodeId]state.Cost, len(s.AllNodes))
	for _, node := range s.AllNodes {
		costs[node] = state.INF
	}
	clear(s.NextHop)
	for _, neigh := range s.Neighbours {
		costs[neigh.Id] = neigh.Cost
		s.NextHop[neigh.Id] = neigh.Id
	}
	s.Vector = state.NewDistanceVector(s.Id, costs)
	r.Log(VectorInitialized, "initial vector", "vector", s.Vector)
	r.BroadcastVector(s.Vector)
}

// HandleNeighbourVector stores the latest vector of a neighbour and recomputes.
// Links may be wired in one direction only, so a vector from a router that is not
// a neighbour is logged and ignored without starting a round.
func HandleNeighbourVector(s *state.RouterState, r Router, vec *state.DistanceVector) error {
	if vec == nil {
		r.Log(InvalidVector, "nil vector received")
		return fmt.Errorf("%w: nil vector", state.ErrInvalidConfig)
	}
	if vec.Origin == "" {
		r.Log(InvalidVector, "vector without origin", "vector", vec)
		return fmt.Errorf("%w: vector has no origin", state.ErrInvalidConfig)
	}
	neigh := s.GetNeighbour(vec.Origin)
	if neigh == nil {
		r.Log(UnknownNeighbour, "ignoring vector from a router that is not a neighbour", "from", vec.Origin)
		return nil
	}
	neigh.Last = vec
	r.Log(NeighbourVectorStored, "stored neighbour vector", "from", vec.Origin, "vector", vec)
	ComputeVector(s, r)
	return nil
}

// ComputeVector runs one Bellman-Ford step over the last vectors heard from each neighbour.
// Neighbours are scanned in registration order, so the first neighbour to reach the minimum
// becomes the next hop. Returns true if the vector changed and was broadcast.
func ComputeVector(s *state.RouterState, r Router) bool {
	s.Rounds++
	costs := make(map[state.NodeId]state.Cost, len(s.AllNodes))
	for _, dst := range s.AllNodes {
		if dst == s.Id {
			continue
		}
		best := state.INF
		var hop state.NodeId
		for _, neigh := range s.Neighbours {
			c := state.INF
			if neigh.Id == dst {
				c = neigh.Cost
			} else if neigh.Last != nil {
				c = state.AddCost(neigh.Cost, neigh.Last.Get(dst))
			}
			if c < best {
				best = c
				hop = neigh.Id
			}
		}
		costs[dst] = best
		if best < state.INF {
			s.NextHop[dst] = hop
		} else {
			delete(s.NextHop, dst)
		}
	}
	vec := state.NewDistanceVector(s.Id, costs)
	if vec.Equal(s.Vector) {
		r.Log(VectorUnchanged, "vector unchanged", "round", s.Rounds)
		return false
	}
	old := s.Vector
	s.Vector = vec
	r.Log(VectorChanged, "vector changed", "round", s.Rounds, "old", old, "new", vec)
	r.BroadcastVector(vec)
	return true
}
