// Package leader provides a best-effort single-active-writer guard for one
// process group. It is a local assertion that at most one monitor loop runs
// per shared-memory boundary, not a distributed consensus mechanism: there is
// no fencing and no liveness detection across hosts.
package leader

import "sync/atomic"

type Guard struct {
	active atomic.Bool
}

func New() *Guard { return &Guard{} }

// Acquire claims leadership. The first caller wins; every later caller gets
// false and should run as a passive follower serving only read endpoints.
func (g *Guard) Acquire() bool {
	return g.active.CompareAndSwap(false, true)
}

// Release gives leadership up, typically during shutdown.
func (g *Guard) Release() {
	g.active.Store(false)
}

// IsLeader reports whether leadership is currently held.
func (g *Guard) IsLeader() bool {
	return g.active.Load()
}
