// Package readiness carries the single readiness bit from the indexer to
// the admin endpoint. One writer flips it true exactly once; any number of
// readers poll it or wait on the notification channel.
package readiness

import (
	"sync"
	"sync/atomic"
)

type Gate struct {
	ready atomic.Bool
	once  sync.Once
	done  chan struct{}
}

func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Set marks the gate ready. The transition is monotonic; repeated calls are
// no-ops.
func (g *Gate) Set() {
	g.once.Do(func() {
		g.ready.Store(true)
		close(g.done)
	})
}

// Ready never blocks.
func (g *Gate) Ready() bool {
	return g.ready.Load()
}

// Done returns a channel that is closed when the gate becomes ready.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}
