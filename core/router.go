package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/state"
	"github.com/looplab/fsm"
)

// Node is a single distance-vector router. Its RouterState is only touched by
// its own goroutine once Start has been called.
type Node struct {
	id        state.NodeId
	log       *slog.Logger
	lifecycle *fsm.FSM
	tracker   *Tracker
	trace     *RouterTrace
	report    time.Duration

	env      *state.Env
	dispatch chan func(*state.RouterState) error
	rs       *state.RouterState

	mu      sync.Mutex
	started bool
	links   []*Link
	wg      sync.WaitGroup

	stopOnce sync.Once
	done     chan struct{}
}

type NodeOption func(n *Node)

func WithLogger(log *slog.Logger) NodeOption {
	return func(n *Node) {
		n.log = log
	}
}

// WithTracker reports rounds and in-flight vectors to t
func WithTracker(t *Tracker) NodeOption {
	return func(n *Node) {
		n.tracker = t
	}
}

// WithReportInterval periodically logs the forwarding table while running
func WithReportInterval(d time.Duration) NodeOption {
	return func(n *Node) {
		n.report = d
	}
}

func NewNode(id state.NodeId, opts ...NodeOption) *Node {
	n := &Node{
		id:       id,
		log:      slog.Default(),
		dispatch: make(chan func(*state.RouterState) error, state.InboxSize),
		trace:    NewRouterTrace(),
		links:    make([]*Link, 0),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.With("node", id)
	n.lifecycle = newLifecycle(n.log)
	n.env = state.NewEnv(context.Background(), n.dispatch, n.log)
	n.rs = state.NewRouterState(n.env, id)
	return n
}

func (n *Node) Id() state.NodeId {
	return n.id
}

// State returns the lifecycle state: init, running or stopped
func (n *Node) State() string {
	return n.lifecycle.Current()
}

// Done is closed once the router has stopped and released its links
func (n *Node) Done() <-chan struct{} {
	return n.done
}

// Err returns the error that stopped the router, if it did not stop on request
func (n *Node) Err() error {
	cause := context.Cause(n.env.Context)
	if errors.Is(cause, state.ErrStopped) {
		return nil
	}
	return cause
}

func (n *Node) checkInit(op string) error {
	if !n.lifecycle.Is(StateInit) {
		return fmt.Errorf("%w: %s on %s in state %s", state.ErrInvalidConfig, op, n.id, n.lifecycle.Current())
	}
	return nil
}

// RegisterAllNodes sets the full set of routers in the network
func (n *Node) RegisterAllNodes(ids []state.NodeId) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.checkInit("register nodes"); err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: empty node list", state.ErrInvalidConfig)
	}
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty node id", state.ErrInvalidConfig)
		}
		if slices.Contains(ids[:i], id) {
			return fmt.Errorf("%w: duplicate node %s", state.ErrInvalidConfig, id)
		}
	}
	if !slices.Contains(ids, n.id) {
		return fmt.Errorf("%w: node list does not contain %s", state.ErrInvalidConfig, n.id)
	}
	n.rs.AllNodes = slices.Clone(ids)
	return nil
}

// AddNeighbour links this router to neigh. Only this direction is added.
func (n *Node) AddNeighbour(neigh *Node, cost state.Cost) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.checkInit("add neighbour"); err != nil {
		return err
	}
	if neigh == nil {
		return fmt.Errorf("%w: nil neighbour", state.ErrInvalidConfig)
	}
	if neigh.id == n.id {
		return fmt.Errorf("%w: %s cannot neighbour itself", state.ErrInvalidConfig, n.id)
	}
	if n.rs.IsNeighbour(neigh.id) {
		return fmt.Errorf("%w: %s is already a neighbour of %s", state.ErrInvalidConfig, neigh.id, n.id)
	}
	if err := state.CostValidator(cost); err != nil {
		return err
	}
	n.rs.Neighbours = append(n.rs.Neighbours, &state.Neighbour{
		Id:   neigh.id,
		Cost: cost,
	})
	seed := n.rs.Vector.Costs()
	seed[neigh.id] = cost
	n.rs.Vector = state.NewDistanceVector(n.id, seed)
	n.links = append(n.links, newLink(n.env.Context, n.id, neigh, n.log, n.tracker))
	return nil
}

// Start announces the initial vector and begins processing neighbour vectors
func (n *Node) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.env.Context.Err() != nil {
		return state.ErrStopped
	}
	if !n.lifecycle.Can(EventStart) {
		return fmt.Errorf("cannot start %s in state %s", n.id, n.lifecycle.Current())
	}
	if len(n.rs.AllNodes) == 0 {
		return fmt.Errorf("%w: %s has no registered nodes", state.ErrInvalidConfig, n.id)
	}
	for _, neigh := range n.rs.Neighbours {
		if !slices.Contains(n.rs.AllNodes, neigh.Id) {
			return fmt.Errorf("%w: neighbour %s of %s is not a registered node", state.ErrInvalidConfig, neigh.Id, n.id)
		}
	}
	if err := n.lifecycle.Event(n.env.Context, EventStart); err != nil {
		return err
	}
	n.started = true

	for _, link := range n.links {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			link.run()
		}()
	}
	InitVector(n.rs, n)
	n.tracker.touch(n.id, n.rs.Rounds)
	n.trace.Publish(n.rs.Snapshot())

	if n.report > 0 {
		n.env.RepeatTask(func(s *state.RouterState) error {
			s.Log.Info("forwarding table\n" + RenderForwardingTable(s.Snapshot()))
			return nil
		}, n.report)
	}
	go n.mainLoop()
	return nil
}

// Stop halts the router and its outgoing links. It is safe to call more than once.
func (n *Node) Stop() {
	n.env.Cancel(state.ErrStopped)
	n.mu.Lock()
	started := n.started
	n.mu.Unlock()
	if !started {
		n.cleanup()
	}
	<-n.done
}

func (n *Node) mainLoop() {
	n.log.Debug("started main loop")
	for {
		select {
		case fun := <-n.dispatch:
			start := time.Now()
			err := fun(n.rs)
			if err != nil {
				n.log.Error("error occurred during dispatch, stopping", "error", err)
				n.env.Cancel(err)
			}
			elapsed := time.Since(start)
			perf.DispatchLatency.Add(float64(elapsed.Microseconds()))
			if elapsed > state.SlowDispatch {
				n.log.Warn("dispatch took a long time!", "fun", runtime.FuncForPC(reflect.ValueOf(fun).Pointer()).Name(), "elapsed", elapsed, "len", len(n.dispatch))
			}
		case <-n.env.Context.Done():
			goto endLoop
		}
	}
endLoop:
	n.log.Debug("stopped main loop", "reason", context.Cause(n.env.Context).Error())
	n.cleanup()
}

func (n *Node) cleanup() {
	n.stopOnce.Do(func() {
		if n.lifecycle.Can(EventStop) {
			if err := n.lifecycle.Event(context.Background(), EventStop); err != nil {
				n.log.Error("lifecycle", "error", err)
			}
		}
		n.wg.Wait()
		if err := n.trace.Close(); err != nil {
			n.log.Error("error closing trace", "error", err)
		}
		n.log.Info("stopped", "reason", context.Cause(n.env.Context))
		close(n.done)
	})
}

// deliver hands vec to the router loop. The tracker is released once the vector has been processed.
func (n *Node) deliver(ctx context.Context, vec *state.DistanceVector, tracker *Tracker) error {
	fun := func(s *state.RouterState) error {
		defer tracker.done(1)
		perf.VectorsRecvPerSecond.Add(1)
		prev := s.Vector
		rounds := s.Rounds
		err := HandleNeighbourVector(s, n, vec)
		if err != nil {
			return err
		}
		if s.Rounds == rounds {
			return nil
		}
		n.completeRound(s, prev != s.Vector)
		return nil
	}
	if n.env.Context.Err() != nil {
		return state.ErrStopped
	}
	select {
	case n.dispatch <- fun:
		return nil
	case <-n.env.Context.Done():
		return state.ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Node) completeRound(s *state.RouterState, changed bool) {
	perf.RoundsPerSecond.Add(1)
	if changed {
		perf.VectorChangesPerSecond.Add(1)
	}
	snap := s.Snapshot()
	snap.Changed = changed
	if state.DBG_log_tables {
		n.log.Info("round complete\n" + RenderSnapshot(snap))
	}
	n.tracker.round(n.id, s.Rounds)
	n.trace.Publish(snap)
}

// Snapshot queries the router through its own loop
func (n *Node) Snapshot(ctx context.Context) (state.RouterSnapshot, error) {
	if !n.lifecycle.Is(StateRunning) {
		return state.RouterSnapshot{}, fmt.Errorf("%s: %w", n.id, state.ErrNotRunning)
	}
	res, err := n.env.DispatchWait(ctx, func(s *state.RouterState) (any, error) {
		return s.Snapshot(), nil
	})
	if err != nil {
		return state.RouterSnapshot{}, err
	}
	return res.(state.RouterSnapshot), nil
}

// Subscribe registers ch to receive a state.RouterSnapshot after every completed round
func (n *Node) Subscribe(ch chan<- interface{}) error {
	return n.trace.Register(ch)
}

func (n *Node) Unsubscribe(ch chan<- interface{}) {
	n.trace.Unregister(ch)
}

// BroadcastVector queues vec on every outgoing link
func (n *Node) BroadcastVector(vec *state.DistanceVector) {
	for _, link := range n.links {
		link.Send(vec)
	}
}

func (n *Node) Log(event RouterEvent, desc string, args ...any) {
	msg := fmt.Sprintf("%s %s", event.String(), desc)
	switch {
	case event >= UnknownNeighbour:
		n.log.Warn(msg, args...)
	case event == VectorChanged && state.DBG_log_vector_changes:
		n.log.Info(msg, args...)
	default:
		n.log.Debug(msg, args...)
	}
}
