package state

import (
	"slices"
)

type Neighbour struct {
	Id   NodeId
	Cost Cost            // link cost, fixed once the node is running
	Last *DistanceVector // latest vector heard from the neighbour, nil until one arrives
}

// RouterState access must be done only on the goroutine that owns the router
type RouterState struct {
	*Env
	Id       NodeId
	AllNodes []NodeId
	// Neighbours are kept in registration order, which is also the tie break order
	Neighbours []*Neighbour
	Vector     *DistanceVector
	NextHop    map[NodeId]NodeId
	Rounds     uint64
}

func NewRouterState(env *Env, id NodeId) *RouterState {
	return &RouterState{
		Env:        env,
		Id:         id,
		Neighbours: make([]*Neighbour, 0),
		Vector:     NewDistanceVector(id, nil),
		NextHop:    make(map[NodeId]NodeId),
	}
}

func (s *RouterState) GetNeighbour(node NodeId) *Neighbour {
	nIdx := slices.IndexFunc(s.Neighbours, func(neighbour *Neighbour) bool {
		return neighbour.Id == node
	})
	if nIdx == -1 {
		return nil
	}
	return s.Neighbours[nIdx]
}

func (s *RouterState) IsNeighbour(node NodeId) bool {
	return s.GetNeighbour(node) != nil
}

// Snapshot copies the observable parts of the state. The result shares only
// immutable vectors with the router.
func (s *RouterState) Snapshot() RouterSnapshot {
	snap := RouterSnapshot{
		Id:         s.Id,
		AllNodes:   slices.Clone(s.AllNodes),
		Vector:     s.Vector,
		Neighbours: make([]NeighbourSnapshot, 0, len(s.Neighbours)),
		NextHop:    make(map[NodeId]NodeId, len(s.NextHop)),
		Rounds:     s.Rounds,
	}
	for _, n := range s.Neighbours {
		snap.Neighbours = append(snap.Neighbours, NeighbourSnapshot{
			Id:   n.Id,
			Cost: n.Cost,
			Last: n.Last,
		})
	}
	for k, v := range s.NextHop {
		snap.NextHop[k] = v
	}
	return snap
}

type NeighbourSnapshot struct {
	Id   NodeId
	Cost Cost
	Last *DistanceVector
}

// RouterSnapshot is a read-only view of a router after a completed round
type RouterSnapshot struct {
	Id         NodeId
	AllNodes   []NodeId
	Vector     *DistanceVector
	Neighbours []NeighbourSnapshot
	NextHop    map[NodeId]NodeId
	Rounds     uint64
	Changed    bool // the round replaced the vector
}

// Route returns the next hop and total cost towards dst. The next hop of the
// router itself is itself; an unreachable destination has no next hop.
func (r RouterSnapshot) Route(dst NodeId) (NodeId, Cost, bool) {
	if dst == r.Id {
		return r.Id, 0, true
	}
	cost := r.Vector.Get(dst)
	nh, ok := r.NextHop[dst]
	if !ok || cost >= INF {
		return "", INF, false
	}
	return nh, cost, true
}
