package core

import (
	"context"
	"log/slog"
	"sync"

	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/state"
)

// Link is one direction of a neighbour relationship. Vectors are delivered to
// the receiving router in the order they were sent.
type Link struct {
	To *Node

	ctx     context.Context
	log     *slog.Logger
	tracker *Tracker

	mu     sync.Mutex
	queue  []*state.DistanceVector
	notify chan struct{}
}

func newLink(ctx context.Context, from state.NodeId, to *Node, log *slog.Logger, tracker *Tracker) *Link {
	return &Link{
		To:      to,
		ctx:     ctx,
		log:     log.With("from", from, "to", to.Id()),
		tracker: tracker,
		queue:   make([]*state.DistanceVector, 0),
		notify:  make(chan struct{}, 1),
	}
}

// Send queues vec without blocking
func (l *Link) Send(vec *state.DistanceVector) {
	if l.ctx.Err() != nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, vec)
	depth := len(l.queue)
	l.mu.Unlock()

	l.tracker.sent()
	perf.VectorsSentPerSecond.Add(1)
	perf.LinkQueueDepth.Add(float64(depth))
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *Link) take() []*state.DistanceVector {
	l.mu.Lock()
	defer l.mu.Unlock()
	q := l.queue
	l.queue = make([]*state.DistanceVector, 0)
	return q
}

func (l *Link) run() {
	for {
		select {
		case <-l.ctx.Done():
			l.tracker.done(len(l.take()))
			return
		case <-l.notify:
		}
		batch := l.take()
		for i, vec := range batch {
			if state.DBG_log_links {
				l.log.Debug("delivering vector", "vector", vec)
			}
			err := l.To.deliver(l.ctx, vec, l.tracker)
			if err == nil {
				continue
			}
			l.tracker.done(1)
			if l.ctx.Err() != nil {
				l.tracker.done(len(batch) - i - 1 + len(l.take()))
				return
			}
			l.log.Debug("dropped vector", "error", err)
		}
	}
}
