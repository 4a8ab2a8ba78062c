package core

import (
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type costs = map[state.NodeId]state.Cost

func neigh(id state.NodeId, cost state.Cost) state.Pair[state.NodeId, state.Cost] {
	return state.Pair[state.NodeId, state.Cost]{V1: id, V2: cost}
}

var triangle = []state.NodeId{"x", "y", "z"}

func TestInitVector(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("x", triangle, neigh("y", 2), neigh("z", 7))
	InitVector(rs, h)

	want := Vec("x", costs{"y": 2, "z": 7})
	assert.True(t, want.Equal(rs.Vector), rs.Vector.String())
	assert.Equal(t, map[state.NodeId]state.NodeId{"y": "y", "z": "z"}, rs.NextHop)
	out := h.GetActions()
	out.AssertContains(t, "BROADCAST_VECTOR", want)
}

func TestInitVectorNonNeighbours(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("u", []state.NodeId{"u", "v", "w", "x"}, neigh("v", 3))
	InitVector(rs, h)

	assert.Equal(t, state.Cost(0), rs.Vector.Get("u"))
	assert.Equal(t, state.Cost(3), rs.Vector.Get("v"))
	assert.Equal(t, state.INF, rs.Vector.Get("w"))
	assert.Equal(t, state.INF, rs.Vector.Get("x"))
	assert.True(t, rs.Vector.Has("w"))
}

func TestDisconnectedPair(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("p", []state.NodeId{"p", "q"})
	InitVector(rs, h)

	assert.True(t, Vec("p", costs{"q": state.INF}).Equal(rs.Vector), rs.Vector.String())
	assert.Empty(t, rs.NextHop)
	assert.False(t, ComputeVector(rs, h))
}

func TestTriangleX(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("x", triangle, neigh("y", 2), neigh("z", 7))
	InitVector(rs, h)
	h.GetActions()

	// y advertises its initial vector, z is now reachable through y
	h.NeighVector(t, rs, "y", costs{"x": 2, "z": 1})
	want := Vec("x", costs{"y": 2, "z": 3})
	assert.True(t, want.Equal(rs.Vector), rs.Vector.String())
	assert.Equal(t, state.NodeId("y"), rs.NextHop["z"])
	assert.Equal(t, state.NodeId("y"), rs.NextHop["y"])
	out := h.GetActions()
	out.AssertContains(t, "BROADCAST_VECTOR", want)

	// z's initial vector does not improve anything
	h.NeighVector(t, rs, "z", costs{"x": 7, "y": 1})
	assert.True(t, want.Equal(rs.Vector), rs.Vector.String())
	assert.Contains(t, h.GetLogs(), VectorUnchanged)
	out = h.GetActions()
	out.AssertNotContains(t, "BROADCAST_VECTOR")
	assert.Equal(t, uint64(2), rs.Rounds)
}

func TestTriangleZ(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("z", triangle, neigh("x", 7), neigh("y", 1))
	InitVector(rs, h)

	h.NeighVector(t, rs, "x", costs{"y": 2, "z": 7})
	h.NeighVector(t, rs, "y", costs{"x": 2, "z": 1})

	assert.True(t, Vec("z", costs{"x": 3, "y": 1}).Equal(rs.Vector), rs.Vector.String())
	assert.Equal(t, state.NodeId("y"), rs.NextHop["x"])
}

func TestTieBreakRegistrationOrder(t *testing.T) {
	all := []state.NodeId{"a", "b", "c", "d"}
	tests := []struct {
		name   string
		neighs []state.Pair[state.NodeId, state.Cost]
		want   state.NodeId
	}{
		{"b first", []state.Pair[state.NodeId, state.Cost]{neigh("b", 1), neigh("c", 1)}, "b"},
		{"c first", []state.Pair[state.NodeId, state.Cost]{neigh("c", 1), neigh("b", 1)}, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &RouterHarness{}
			rs := MakeRouter("a", all, tt.neighs...)
			InitVector(rs, h)
			h.NeighVector(t, rs, "b", costs{"a": 1, "d": 1})
			h.NeighVector(t, rs, "c", costs{"a": 1, "d": 1})

			assert.Equal(t, state.Cost(2), rs.Vector.Get("d"))
			assert.Equal(t, tt.want, rs.NextHop["d"])
		})
	}
}

func TestDirectLinkVersusDetour(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("a", []state.NodeId{"a", "b", "c"}, neigh("b", 10), neigh("c", 1))
	InitVector(rs, h)

	h.NeighVector(t, rs, "c", costs{"a": 1, "b": 2})
	assert.Equal(t, state.Cost(3), rs.Vector.Get("b"))
	assert.Equal(t, state.NodeId("c"), rs.NextHop["b"])
}

func TestUnreachableSaturates(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("a", []state.NodeId{"a", "b", "c"}, neigh("b", 5))
	InitVector(rs, h)

	h.NeighVector(t, rs, "b", costs{"a": 5, "c": state.INF})
	assert.Equal(t, state.INF, rs.Vector.Get("c"))
	_, ok := rs.NextHop["c"]
	assert.False(t, ok)
}

func TestHandleNeighbourVectorErrors(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("x", triangle, neigh("y", 2))
	InitVector(rs, h)

	err := HandleNeighbourVector(rs, h, nil)
	assert.ErrorIs(t, err, state.ErrInvalidConfig)

	err = HandleNeighbourVector(rs, h, Vec("", costs{"x": 1}))
	assert.ErrorIs(t, err, state.ErrInvalidConfig)

	// rejected vectors leave the state untouched
	assert.Equal(t, uint64(0), rs.Rounds)
	assert.Nil(t, rs.GetNeighbour("y").Last)
}

func TestHandleVectorFromNonNeighbour(t *testing.T) {
	h := &RouterHarness{}
	rs := MakeRouter("x", triangle, neigh("y", 2))
	InitVector(rs, h)
	before := rs.Vector
	h.GetActions()

	// z links to x, but x never added z back
	require.NoError(t, HandleNeighbourVector(rs, h, Vec("z", costs{"x": 7, "y": 1})))
	assert.Contains(t, h.GetLogs(), UnknownNeighbour)
	h.GetActions().AssertNotContains(t, "BROADCAST_VECTOR")

	assert.Equal(t, uint64(0), rs.Rounds)
	assert.Same(t, before, rs.Vector)
	assert.Equal(t, state.INF, rs.Vector.Get("z"))
	assert.Nil(t, rs.GetNeighbour("y").Last)
	assert.Nil(t, rs.GetNeighbour("z"))
}

var orderAll = []state.NodeId{"u", "v", "w", "x", "y"}

func makeOrderRouter() *state.RouterState {
	return MakeRouter("u", orderAll, neigh("v", 3), neigh("x", 1), neigh("w", 7))
}

func TestOrderIndependence(t *testing.T) {
	final := map[state.NodeId]*state.DistanceVector{
		"v": Vec("v", costs{"u": 2, "w": 1, "x": 1, "y": 3}),
		"w": Vec("w", costs{"u": 3, "v": 1, "x": 2, "y": 4}),
		"x": Vec("x", costs{"u": 1, "v": 1, "w": 2, "y": 2}),
	}
	orders := [][]state.NodeId{
		{"v", "w", "x"},
		{"x", "w", "v"},
		{"w", "x", "v"},
	}

	var first *state.DistanceVector
	for _, order := range orders {
		h := &RouterHarness{}
		rs := makeOrderRouter()
		InitVector(rs, h)
		for _, id := range order {
			require.NoError(t, HandleNeighbourVector(rs, h, final[id]))
		}
		if first == nil {
			first = rs.Vector
			continue
		}
		assert.True(t, first.Equal(rs.Vector), "order %v gave %s, expected %s", order, rs.Vector, first)
	}
	assert.True(t, Vec("u", costs{"v": 2, "w": 3, "x": 1, "y": 3}).Equal(first), first.String())
}

// interleave merges the per sender sequences, taking the next vector from
// the sender named at each step of pick
func interleave(seqs map[state.NodeId][]*state.DistanceVector, pick []state.NodeId) []*state.DistanceVector {
	next := make(map[state.NodeId]int, len(seqs))
	out := make([]*state.DistanceVector, 0, len(pick))
	for _, id := range pick {
		out = append(out, seqs[id][next[id]])
		next[id]++
	}
	return out
}

func TestOrderIndependenceSequences(t *testing.T) {
	// every neighbour sends its initial vector, then its converged one
	seqs := map[state.NodeId][]*state.DistanceVector{
		"v": {
			Vec("v", costs{"u": 2, "w": 3, "x": 1, "y": state.INF}),
			Vec("v", costs{"u": 2, "w": 1, "x": 1, "y": 3}),
		},
		"w": {
			Vec("w", costs{"u": 5, "v": 3, "x": 3, "y": 1}),
			Vec("w", costs{"u": 3, "v": 1, "x": 2, "y": 4}),
		},
		"x": {
			Vec("x", costs{"u": 1, "v": 2, "w": 3, "y": 1}),
			Vec("x", costs{"u": 1, "v": 1, "w": 2, "y": 2}),
		},
	}
	picks := [][]state.NodeId{
		{"v", "v", "w", "w", "x", "x"},
		{"x", "w", "v", "x", "w", "v"},
		{"w", "x", "x", "v", "w", "v"},
		{"x", "x", "v", "w", "v", "w"},
		{"v", "w", "w", "x", "v", "x"},
	}
	wantVec := Vec("u", costs{"v": 2, "w": 3, "x": 1, "y": 3})
	wantHop := map[state.NodeId]state.NodeId{"v": "x", "w": "x", "x": "x", "y": "x"}

	for _, pick := range picks {
		h := &RouterHarness{}
		rs := makeOrderRouter()
		InitVector(rs, h)
		for _, vec := range interleave(seqs, pick) {
			require.NoError(t, HandleNeighbourVector(rs, h, vec))
		}
		assert.True(t, wantVec.Equal(rs.Vector), "order %v gave %s", pick, rs.Vector)
		assert.Equal(t, wantHop, rs.NextHop, "order %v", pick)
	}
}
