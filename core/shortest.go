package core

import (
	"errors"
	"fmt"

	"github.com/encodeous/dvsim/state"
)

// ShortestPaths computes all-pairs shortest path costs with Floyd-Warshall
func ShortestPaths(cfg *state.TopologyCfg) map[state.NodeId]map[state.NodeId]state.Cost {
	dist := make(map[state.NodeId]map[state.NodeId]state.Cost, len(cfg.Nodes))
	for _, a := range cfg.Nodes {
		dist[a] = make(map[state.NodeId]state.Cost, len(cfg.Nodes))
		for _, b := range cfg.Nodes {
			dist[a][b] = state.INF
		}
		dist[a][a] = 0
	}
	for _, e := range cfg.Edges() {
		dist[e.V1][e.V2] = min(dist[e.V1][e.V2], e.V3)
		dist[e.V2][e.V1] = min(dist[e.V2][e.V1], e.V3)
	}
	for _, k := range cfg.Nodes {
		for _, i := range cfg.Nodes {
			for _, j := range cfg.Nodes {
				if c := state.AddCost(dist[i][k], dist[k][j]); c < dist[i][j] {
					dist[i][j] = c
				}
			}
		}
	}
	return dist
}

// Verify checks converged snapshots against the shortest paths of cfg. Every vector
// must hold exactly one entry per node and match, and following next hops from any router must reach the destination
// at exactly the advertised cost.
func Verify(cfg *state.TopologyCfg, snaps map[state.NodeId]state.RouterSnapshot) error {
	dist := ShortestPaths(cfg)
	linkCost := make(map[state.Pair[state.NodeId, state.NodeId]]state.Cost)
	for _, e := range cfg.Edges() {
		linkCost[state.Pair[state.NodeId, state.NodeId]{V1: e.V1, V2: e.V2}] = e.V3
	}

	errs := make([]error, 0)
	for _, src := range cfg.Nodes {
		snap, ok := snaps[src]
		if !ok {
			errs = append(errs, fmt.Errorf("no snapshot for %s", src))
			continue
		}
		if snap.Vector.Get(src) != 0 {
			errs = append(errs, fmt.Errorf("%s: cost to itself is %s", src, snap.Vector.Get(src)))
		}
		if snap.Vector.Len() != len(cfg.Nodes) {
			errs = append(errs, fmt.Errorf("%s: vector has %d entries, expected %d", src, snap.Vector.Len(), len(cfg.Nodes)))
		}
		for _, dst := range cfg.Nodes {
			if !snap.Vector.Has(dst) {
				errs = append(errs, fmt.Errorf("%s -> %s: no entry in vector", src, dst))
				continue
			}
			want := dist[src][dst]
			if got := snap.Vector.Get(dst); got != want {
				errs = append(errs, fmt.Errorf("%s -> %s: cost %s, expected %s", src, dst, got, want))
				continue
			}
			if src == dst || want >= state.INF {
				continue
			}
			if err := walk(cfg, snaps, linkCost, src, dst, want); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func walk(cfg *state.TopologyCfg, snaps map[state.NodeId]state.RouterSnapshot, linkCost map[state.Pair[state.NodeId, state.NodeId]]state.Cost, src, dst state.NodeId, want state.Cost) error {
	cur := src
	total := state.Cost(0)
	for range len(cfg.Nodes) {
		if cur == dst {
			break
		}
		nh, _, ok := snaps[cur].Route(dst)
		if !ok {
			return fmt.Errorf("%s -> %s: %s has no next hop", src, dst, cur)
		}
		c, ok := linkCost[state.MakeSortedPair(cur, nh)]
		if !ok {
			return fmt.Errorf("%s -> %s: next hop %s is not a neighbour of %s", src, dst, nh, cur)
		}
		total = state.AddCost(total, c)
		cur = nh
	}
	if cur != dst {
		return fmt.Errorf("%s -> %s: next hops do not reach the destination", src, dst)
	}
	if total != want {
		return fmt.Errorf("%s -> %s: path through next hops costs %s, expected %s", src, dst, total, want)
	}
	return nil
}
