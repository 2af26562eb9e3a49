package gossip

import (
	"math/rand"
	"time"
)

// Heartbeat drives a peer's periodic gossip push, the same randomized-timer
// shape as the teacher's node.ControlTimer: a tick fires every period plus
// jitter up to period, Reset restarts the countdown, and Shutdown ends the
// Run loop. The jitter spreads pushes out so a full-mesh network does not
// synchronize every peer's outbound call burst to the same instant.
type Heartbeat struct {
	period     time.Duration
	tickCh     chan struct{}
	resetCh    chan struct{}
	shutdownCh chan struct{}
}

// NewHeartbeat builds a Heartbeat that ticks roughly every period (plus up
// to period of jitter). A zero period disables ticking; Run then blocks
// until Shutdown.
func NewHeartbeat(period time.Duration) *Heartbeat {
	return &Heartbeat{
		period:     period,
		tickCh:     make(chan struct{}),
		resetCh:    make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

func (h *Heartbeat) timer() <-chan time.Time {
	if h.period <= 0 {
		return nil
	}
	jitter := time.Duration(rand.Int63n(int64(h.period) + 1))
	return time.After(h.period + jitter)
}

// Run drives the tick loop until Shutdown is called. Callers run it in its
// own goroutine and read ticks from Tick().
func (h *Heartbeat) Run() {
	timer := h.timer()
	for {
		select {
		case <-timer:
			h.tickCh <- struct{}{}
			timer = h.timer()
		case <-h.resetCh:
			timer = h.timer()
		case <-h.shutdownCh:
			return
		}
	}
}

// Tick returns the channel a tick is delivered on.
func (h *Heartbeat) Tick() <-chan struct{} { return h.tickCh }

// Reset restarts the countdown to the next tick.
func (h *Heartbeat) Reset() {
	select {
	case h.resetCh <- struct{}{}:
	case <-h.shutdownCh:
	}
}

// Shutdown stops the Run loop. Calling it twice panics, the same contract
// as closing any channel twice.
func (h *Heartbeat) Shutdown() {
	close(h.shutdownCh)
}
