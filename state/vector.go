package state

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type NodeId string

// Cost is a path or link cost. INF marks an unreachable destination.
type Cost uint32

func (c Cost) String() string {
	if c >= INF {
		return "inf"
	}
	return fmt.Sprint(uint32(c))
}

// AddCost adds two costs, saturating at INF.
func AddCost(a, b Cost) Cost {
	if a >= INF || b >= INF {
		return INF
	}
	return min(INF, a+b)
}

// DistanceVector is an immutable snapshot of the best known cost from Origin
// to every node. It is safe to share between goroutines once constructed.
type DistanceVector struct {
	Origin NodeId
	costs  map[NodeId]Cost
}

// NewDistanceVector copies costs into a new vector. The origin entry is always 0.
func NewDistanceVector(origin NodeId, costs map[NodeId]Cost) *DistanceVector {
	c := make(map[NodeId]Cost, len(costs)+1)
	for k, v := range costs {
		c[k] = min(v, INF)
	}
	c[origin] = 0
	return &DistanceVector{
		Origin: origin,
		costs:  c,
	}
}

// Get returns the cost to node, or INF if the vector has no entry for it.
func (v *DistanceVector) Get(node NodeId) Cost {
	if v == nil {
		return INF
	}
	c, ok := v.costs[node]
	if !ok {
		return INF
	}
	return c
}

// Has reports whether node has an entry, reachable or not.
func (v *DistanceVector) Has(node NodeId) bool {
	if v == nil {
		return false
	}
	_, ok := v.costs[node]
	return ok
}

func (v *DistanceVector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.costs)
}

// Equal compares origin and every entry.
func (v *DistanceVector) Equal(o *DistanceVector) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.Origin == o.Origin && maps.Equal(v.costs, o.costs)
}

// Nodes returns the destinations in sorted order.
func (v *DistanceVector) Nodes() []NodeId {
	if v == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(v.costs))
}

// Costs returns a copy of the underlying map.
func (v *DistanceVector) Costs() map[NodeId]Cost {
	if v == nil {
		return nil
	}
	return maps.Clone(v.costs)
}

func (v *DistanceVector) String() string {
	if v == nil {
		return "[ unknown ]"
	}
	sb := strings.Builder{}
	sb.WriteString("[ ")
	for _, n := range v.Nodes() {
		sb.WriteString(fmt.Sprintf("%s=%s ", n, v.costs[n]))
	}
	sb.WriteString("]")
	return sb.String()
}
