package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/encodeous/dvsim/state"
	"golang.org/x/sync/errgroup"
)

// Network drives a whole topology: it builds the routers, registers every id
// with every router, wires both directions of each link and starts them.
type Network struct {
	Cfg     *state.TopologyCfg
	Tracker *Tracker
	nodes   map[state.NodeId]*Node
	log     *slog.Logger
}

func NewNetwork(cfg *state.TopologyCfg, quiet time.Duration, log *slog.Logger, opts ...NodeOption) (*Network, error) {
	err := state.TopologyValidator(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	n := &Network{
		Cfg:     cfg,
		Tracker: NewTracker(quiet),
		nodes:   make(map[state.NodeId]*Node, len(cfg.Nodes)),
		log:     log,
	}
	base := []NodeOption{WithLogger(log), WithTracker(n.Tracker)}
	for _, id := range cfg.Nodes {
		n.nodes[id] = NewNode(id, append(base, opts...)...)
	}
	for _, id := range cfg.Nodes {
		err = n.nodes[id].RegisterAllNodes(cfg.Nodes)
		if err != nil {
			return nil, err
		}
	}
	// both directions of every link, neighbours in link order
	for _, id := range cfg.Nodes {
		for _, neigh := range cfg.GetNeighbours(id) {
			if err = n.nodes[id].AddNeighbour(n.nodes[neigh.V1], neigh.V2); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func (n *Network) Node(id state.NodeId) *Node {
	return n.nodes[id]
}

// Start starts every router in the configured order. If one fails, the whole network is stopped.
func (n *Network) Start() error {
	for _, id := range n.Cfg.GetStartOrder() {
		n.log.Debug("starting router", "node", id)
		if err := n.nodes[id].Start(); err != nil {
			_ = n.Stop()
			return fmt.Errorf("failed to start %s: %w", id, err)
		}
	}
	return nil
}

// WaitConverged blocks until no router has completed a round within the quiet
// period and no vector is in flight. Fails if any router stops on its own.
func (n *Network) WaitConverged(ctx context.Context) error {
	ticker := time.NewTicker(state.MonitorTick)
	defer ticker.Stop()
	for {
		for _, id := range n.Cfg.Nodes {
			node := n.nodes[id]
			select {
			case <-node.Done():
				if err := node.Err(); err != nil {
					return fmt.Errorf("%s: %w: %w", id, state.ErrStopped, err)
				}
				return fmt.Errorf("%s: %w", id, state.ErrStopped)
			default:
			}
		}
		if n.Tracker.Quiescent() {
			n.log.Debug("network converged", "rounds", n.Tracker.Rounds())
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for convergence: %w (active %v, pending %d)", ctx.Err(), n.Tracker.Active(), n.Tracker.Pending())
		case <-ticker.C:
		}
	}
}

// Snapshots queries every router through its own loop
func (n *Network) Snapshots(ctx context.Context) (map[state.NodeId]state.RouterSnapshot, error) {
	snaps := make(map[state.NodeId]state.RouterSnapshot, len(n.nodes))
	for _, id := range n.Cfg.Nodes {
		snap, err := n.nodes[id].Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		snaps[id] = snap
	}
	return snaps, nil
}

// Stop stops every router concurrently and returns the errors that stopped any of them early
func (n *Network) Stop() error {
	g := errgroup.Group{}
	for _, node := range n.nodes {
		g.Go(func() error {
			node.Stop()
			if err := node.Err(); err != nil {
				return fmt.Errorf("%s: %w", node.Id(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
