package core

import (
	"sync"

	"github.com/dustin/go-broadcast"
	"github.com/encodeous/dvsim/state"
)

// RouterTrace fans out a snapshot after every completed round. Subscribers must
// keep receiving until the router is stopped, otherwise the router loop blocks.
type RouterTrace struct {
	broadcast.Broadcaster
	mu     sync.Mutex
	closed bool
}

func NewRouterTrace() *RouterTrace {
	return &RouterTrace{
		Broadcaster: broadcast.NewBroadcaster(state.TraceBufferSize),
	}
}

func (t *RouterTrace) Register(ch chan<- interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return state.ErrStopped
	}
	t.Broadcaster.Register(ch)
	return nil
}

func (t *RouterTrace) Unregister(ch chan<- interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.Broadcaster.Unregister(ch)
}

func (t *RouterTrace) Publish(snap state.RouterSnapshot) {
	t.Submit(snap)
}

func (t *RouterTrace) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.Broadcaster.Close()
}
