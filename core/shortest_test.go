package core

import (
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestShortestPathsBook(t *testing.T) {
	dist := ShortestPaths(state.BookTopology())
	want := map[state.NodeId]map[state.NodeId]state.Cost{
		"x": {"x": 0, "y": 2, "z": 3},
		"y": {"x": 2, "y": 0, "z": 1},
		"z": {"x": 3, "y": 1, "z": 0},
	}
	if diff := cmp.Diff(want, dist); diff != "" {
		t.Fatalf("shortest paths mismatch (-want +got):\n%s", diff)
	}
}

func TestShortestPathsDisconnected(t *testing.T) {
	dist := ShortestPaths(&state.TopologyCfg{Nodes: []state.NodeId{"p", "q"}})
	assert.Equal(t, state.INF, dist["p"]["q"])
	assert.Equal(t, state.Cost(0), dist["q"]["q"])
}

func bookSnapshots() map[state.NodeId]state.RouterSnapshot {
	return map[state.NodeId]state.RouterSnapshot{
		"x": {Id: "x", Vector: Vec("x", costs{"y": 2, "z": 3}), NextHop: map[state.NodeId]state.NodeId{"y": "y", "z": "y"}},
		"y": {Id: "y", Vector: Vec("y", costs{"x": 2, "z": 1}), NextHop: map[state.NodeId]state.NodeId{"x": "x", "z": "z"}},
		"z": {Id: "z", Vector: Vec("z", costs{"x": 3, "y": 1}), NextHop: map[state.NodeId]state.NodeId{"x": "y", "y": "y"}},
	}
}

func TestVerify(t *testing.T) {
	cfg := state.BookTopology()
	assert.NoError(t, Verify(cfg, bookSnapshots()))

	wrongCost := bookSnapshots()
	x := wrongCost["x"]
	x.Vector = Vec("x", costs{"y": 2, "z": 7})
	wrongCost["x"] = x
	assert.ErrorContains(t, Verify(cfg, wrongCost), "x -> z")

	// right costs, but the direct link costs 7
	wrongHop := bookSnapshots()
	wrongHop["x"].NextHop["z"] = "z"
	assert.ErrorContains(t, Verify(cfg, wrongHop), "path through next hops")

	loop := bookSnapshots()
	loop["y"].NextHop["z"] = "x"
	assert.Error(t, Verify(cfg, loop))

	missing := bookSnapshots()
	delete(missing, "y")
	assert.ErrorContains(t, Verify(cfg, missing), "no snapshot for y")
}

func TestVerifyVectorEntries(t *testing.T) {
	cfg := state.BookTopology()

	short := bookSnapshots()
	y := short["y"]
	y.Vector = Vec("y", costs{"x": 2})
	short["y"] = y
	assert.ErrorContains(t, Verify(cfg, short), "y -> z: no entry in vector")

	extra := bookSnapshots()
	z := extra["z"]
	z.Vector = Vec("z", costs{"x": 3, "y": 1, "w": state.INF})
	extra["z"] = z
	assert.ErrorContains(t, Verify(cfg, extra), "z: vector has 4 entries, expected 3")
}
