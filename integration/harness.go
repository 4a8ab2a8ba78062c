//go:build integration

package integration

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
)

type Signal chan bool

func NewSignal() Signal {
	return make(chan bool)
}
func (s Signal) Trigger() {
	select {
	case <-s:
	default:
		close(s)
	}
}
func (s Signal) Triggered() bool {
	select {
	case <-s:
		return true
	default:
		return false
	}
}
func (s Signal) Wait() {
	<-s
}

// RandomTopology builds a connected topology: a random spanning tree plus extra random links
func RandomTopology(seed uint64, nodes, extra int, maxCost state.Cost) *state.TopologyCfg {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cfg := &state.TopologyCfg{
		Name: fmt.Sprintf("random-%d", seed),
	}
	for i := range nodes {
		cfg.Nodes = append(cfg.Nodes, state.NodeId(fmt.Sprintf("r%d", i)))
	}
	cost := func() state.Cost {
		return state.Cost(rng.IntN(int(maxCost)) + 1)
	}
	linked := make([]state.Pair[state.NodeId, state.NodeId], 0)
	addLink := func(a, b state.NodeId) {
		p := state.MakeSortedPair(a, b)
		if a == b || slices.Contains(linked, p) {
			return
		}
		linked = append(linked, p)
		cfg.Links = append(cfg.Links, state.LinkCfg{A: a, B: b, Cost: cost()})
	}
	for i := 1; i < nodes; i++ {
		addLink(cfg.Nodes[i], cfg.Nodes[rng.IntN(i)])
	}
	for range extra {
		addLink(cfg.Nodes[rng.IntN(nodes)], cfg.Nodes[rng.IntN(nodes)])
	}
	cfg.StartOrder = slices.Clone(cfg.Nodes)
	rng.Shuffle(len(cfg.StartOrder), func(i, j int) {
		cfg.StartOrder[i], cfg.StartOrder[j] = cfg.StartOrder[j], cfg.StartOrder[i]
	})
	return cfg
}

// VirtualHarness runs a network and records every round snapshot of every router
type VirtualHarness struct {
	Cfg     *state.TopologyCfg
	Net     *core.Network
	Optimal Signal

	mu      sync.Mutex
	history map[state.NodeId][]state.RouterSnapshot
	wg      sync.WaitGroup
}

func NewVirtualHarness(cfg *state.TopologyCfg) (*VirtualHarness, error) {
	network, err := core.NewNetwork(cfg, 30*time.Millisecond, slog.New(slog.DiscardHandler))
	if err != nil {
		return nil, err
	}
	vh := &VirtualHarness{
		Cfg:     cfg,
		Net:     network,
		Optimal: NewSignal(),
		history: make(map[state.NodeId][]state.RouterSnapshot),
	}
	dist := core.ShortestPaths(cfg)
	latest := make(map[state.NodeId]*state.DistanceVector)
	for _, id := range cfg.Nodes {
		node := network.Node(id)
		ch := make(chan interface{}, 256)
		if err = node.Subscribe(ch); err != nil {
			return nil, err
		}
		vh.wg.Add(1)
		go func() {
			defer vh.wg.Done()
			for {
				select {
				case v := <-ch:
					snap := v.(state.RouterSnapshot)
					vh.mu.Lock()
					vh.history[id] = append(vh.history[id], snap)
					latest[id] = snap.Vector
					if vh.optimal(dist, latest) {
						vh.Optimal.Trigger()
					}
					vh.mu.Unlock()
				case <-node.Done():
					return
				}
			}
		}()
	}
	return vh, nil
}

func (vh *VirtualHarness) optimal(dist map[state.NodeId]map[state.NodeId]state.Cost, latest map[state.NodeId]*state.DistanceVector) bool {
	for _, src := range vh.Cfg.Nodes {
		vec, ok := latest[src]
		if !ok {
			return false
		}
		for _, dst := range vh.Cfg.Nodes {
			if vec.Get(dst) != dist[src][dst] {
				return false
			}
		}
	}
	return true
}

// Run starts the network and waits for it to converge
func (vh *VirtualHarness) Run(timeout time.Duration) (map[state.NodeId]state.RouterSnapshot, error) {
	if err := vh.Net.Start(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := vh.Net.WaitConverged(ctx); err != nil {
		return nil, err
	}
	return vh.Net.Snapshots(ctx)
}

func (vh *VirtualHarness) Stop() error {
	err := vh.Net.Stop()
	vh.wg.Wait()
	return err
}

func (vh *VirtualHarness) History(id state.NodeId) []state.RouterSnapshot {
	vh.mu.Lock()
	defer vh.mu.Unlock()
	return slices.Clone(vh.history[id])
}
