package core

import (
	"sync/atomic"
	"time"

	"github.com/encodeous/dvsim/state"
	"github.com/jellydator/ttlcache/v3"
)

// Tracker observes a set of routers to detect quiescence. A router is active for
// the quiet period after each completed round, and every vector handed to a link
// is pending until the receiver finishes processing it or it is dropped.
type Tracker struct {
	pending atomic.Int64
	rounds  atomic.Uint64
	active  *ttlcache.Cache[state.NodeId, uint64]
}

func NewTracker(quiet time.Duration) *Tracker {
	return &Tracker{
		active: ttlcache.New[state.NodeId, uint64](
			ttlcache.WithTTL[state.NodeId, uint64](quiet),
			ttlcache.WithDisableTouchOnHit[state.NodeId, uint64](),
		),
	}
}

func (t *Tracker) sent() {
	if t == nil {
		return
	}
	t.pending.Add(1)
}

func (t *Tracker) done(n int) {
	if t == nil || n == 0 {
		return
	}
	t.pending.Add(int64(-n))
}

func (t *Tracker) touch(id state.NodeId, rounds uint64) {
	if t == nil {
		return
	}
	t.active.Set(id, rounds, ttlcache.DefaultTTL)
}

func (t *Tracker) round(id state.NodeId, rounds uint64) {
	if t == nil {
		return
	}
	t.rounds.Add(1)
	t.touch(id, rounds)
}

func (t *Tracker) Pending() int64 {
	return t.pending.Load()
}

// Rounds is the total number of rounds completed by all tracked routers
func (t *Tracker) Rounds() uint64 {
	return t.rounds.Load()
}

// Active lists the routers that completed a round within the quiet period
func (t *Tracker) Active() []state.NodeId {
	t.active.DeleteExpired()
	return t.active.Keys()
}

// Quiescent reports whether no router is active and no vector is in flight
func (t *Tracker) Quiescent() bool {
	t.active.DeleteExpired()
	return t.pending.Load() == 0 && t.active.Len() == 0
}
