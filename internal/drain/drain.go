// Package drain implements the cooperative graceful-shutdown protocol: one
// Signal owner broadcasts "begin shutdown" to any number of Watch holders
// and waits until every holder has released before declaring the process
// drained.
package drain

import (
	"context"
	"sync"
)

type Signal struct {
	mu       sync.Mutex
	begin    chan struct{}
	drained  chan struct{}
	signaled bool
	complete bool
	holds    int
}

func New() *Signal {
	return &Signal{
		begin:   make(chan struct{}),
		drained: make(chan struct{}),
	}
}

// Watch mints a watch-side holder. The hold is counted immediately, so a
// holder that has not yet observed the signal still blocks Drain. Watches
// must be minted before Drain is called.
func (s *Signal) Watch() *Watch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds++
	return &Watch{signal: s}
}

// Drain broadcasts the shutdown signal and blocks until every watch has
// released or ctx is done. The signal fires at most once per process;
// repeated calls observe the same completion.
func (s *Signal) Drain(ctx context.Context) error {
	s.mu.Lock()
	if !s.signaled {
		s.signaled = true
		close(s.begin)
	}
	s.completeLocked()
	s.mu.Unlock()

	select {
	case <-s.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Signal) completeLocked() {
	if s.signaled && s.holds == 0 && !s.complete {
		s.complete = true
		close(s.drained)
	}
}

type Watch struct {
	signal *Signal
	once   sync.Once
}

// Signaled returns the broadcast channel; it is closed when shutdown
// begins, including for watches minted after the fact.
func (w *Watch) Signaled() <-chan struct{} {
	return w.signal.begin
}

// Release marks this holder's in-flight work complete. Idempotent.
func (w *Watch) Release() {
	w.once.Do(func() {
		s := w.signal
		s.mu.Lock()
		s.holds--
		s.completeLocked()
		s.mu.Unlock()
	})
}

// ReleaseAfter runs fn to completion, then releases. Every holder that
// observes Signaled must eventually call Release or ReleaseAfter, or Drain
// waits forever.
func (w *Watch) ReleaseAfter(fn func()) {
	fn()
	w.Release()
}
