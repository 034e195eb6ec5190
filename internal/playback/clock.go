// Package playback owns the single authoritative timeline clock. All
// mutation of the shared state goes through the Clock's operations;
// renderers and UI controls read the state as a pure read model.
package playback

import (
	"math"
	"sync"
	"time"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/chain"
	"github.com/ivlev/svgmotion/internal/diag"
)

// restartWindowSeconds is how close to the end currentTime may sit
// before play() restarts from zero instead of resuming.
const restartWindowSeconds = 0.05

// minRate is the playback-rate floor guarding the anchor division.
const minRate = 0.1

// broadcastInterval throttles observer notification to ~15 Hz.
const broadcastInterval = 66 * time.Millisecond

// frameInterval is the cooperative tick cadence of the internal loop.
const frameInterval = 16 * time.Millisecond

// State is the session-scoped timeline state read by renderers.
// A fresh session starts idle; the state is never persisted.
type State struct {
	IsPlaying     bool
	HasPlayed     bool
	CurrentTime   float64 // seconds
	AnchorMs      float64
	HasAnchor     bool
	Rate          float64
	RestartEpoch  int
	ChainDelaysMs map[string]float64
	WorkspaceOpen bool
	CanvasPreview bool
}

// TimeControl is the host surface's native timeline API. It may be
// absent entirely; the clock degrades to bookkeeping-only ticks.
type TimeControl interface {
	SetCurrentTime(seconds float64)
}

// Observer receives throttled currentTime broadcasts. A backward jump
// signals a deliberate restart (stop, scrub or auto-restart), not
// corruption.
type Observer func(currentTime float64)

// Clock is the playback state machine.
type Clock struct {
	mu        sync.Mutex
	state     State
	doc       *anim.Document
	surface   TimeControl
	sink      diag.Sink
	observers []Observer

	now           func() time.Time
	lastBroadcast time.Time
	cancelTick    chan struct{}
	warnedNoCtrl  bool
}

// NewClock creates an idle clock over the document. surface may be
// nil.
func NewClock(doc *anim.Document, surface TimeControl, sink diag.Sink) *Clock {
	return &Clock{
		doc:     doc,
		surface: surface,
		sink:    sink,
		now:     time.Now,
		state:   State{Rate: 1},
	}
}

// Subscribe registers a currentTime observer.
func (c *Clock) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// State returns a copy of the current state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.ChainDelaysMs = cloneDelays(c.state.ChainDelaysMs)
	return s
}

// SetWorkspaceOpen records whether the editing workspace is active.
func (c *Clock) SetWorkspaceOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.WorkspaceOpen = open
}

// SetCanvasPreview toggles the full-canvas preview flag.
func (c *Clock) SetCanvasPreview(preview bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CanvasPreview = preview
}

// Play recomputes chain delays, applies the auto-restart-at-end
// policy and anchors the wall clock, then starts the tick loop.
func (c *Clock) Play() {
	c.mu.Lock()
	c.state.ChainDelaysMs = chain.Resolve(c.doc.Chains, c.doc.Index(), c.sink)

	if max, ok := c.maxDurationLocked(); ok && c.state.CurrentTime >= max-restartWindowSeconds {
		c.state.CurrentTime = 0
	}

	nowMs := float64(c.now().UnixNano()) / 1e6
	c.state.AnchorMs = nowMs - c.state.CurrentTime/c.state.Rate*1000
	c.state.HasAnchor = true
	c.state.IsPlaying = true
	c.state.HasPlayed = true
	c.stopTickLocked()
	cancel := make(chan struct{})
	c.cancelTick = cancel
	c.mu.Unlock()

	go c.tickLoop(cancel)
}

// Pause freezes currentTime at its last computed value.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

func (c *Clock) pauseLocked() {
	c.state.IsPlaying = false
	c.state.HasAnchor = false
	c.stopTickLocked()
}

// Stop returns to the idle state, increments the restart epoch so
// timed elements remount, and clears the delay map to force a full
// recompute on the next play.
func (c *Clock) Stop() {
	c.mu.Lock()
	c.state.IsPlaying = false
	c.state.HasPlayed = false
	c.state.CurrentTime = 0
	c.state.HasAnchor = false
	c.state.RestartEpoch++
	c.state.ChainDelaysMs = nil
	c.stopTickLocked()
	notify := c.broadcastLocked(true)
	c.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// Scrub jumps to a time and pauses. The target is clamped to the
// scheduled timeline span.
func (c *Clock) Scrub(seconds float64) {
	c.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if max, ok := c.maxDurationLocked(); ok && seconds > max {
		seconds = max
	}
	c.state.CurrentTime = seconds
	c.state.IsPlaying = false
	c.state.HasAnchor = false
	c.stopTickLocked()
	c.pushSurfaceLocked(seconds)
	notify := c.broadcastLocked(true)
	c.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// SetRate changes the playback rate, clamped to a small positive
// floor. currentTime itself is unaffected; the anchor is re-derived
// while playing so the derived time stays continuous.
func (c *Clock) SetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rate < minRate {
		rate = minRate
	}
	c.state.Rate = rate
	if c.state.IsPlaying {
		nowMs := float64(c.now().UnixNano()) / 1e6
		c.state.AnchorMs = nowMs - c.state.CurrentTime/rate*1000
	}
}

// Tick advances the derived time once. It returns false when the loop
// should stop scheduling further ticks. Exported so hosts driving
// their own frame loop can call it directly.
func (c *Clock) Tick() bool {
	c.mu.Lock()
	if !c.state.IsPlaying || !c.state.HasAnchor {
		c.mu.Unlock()
		return false
	}

	nowMs := float64(c.now().UnixNano()) / 1e6
	elapsed := (nowMs - c.state.AnchorMs) / 1000
	next := elapsed * c.state.Rate

	var notify func()
	cont := true
	max, finite := c.maxDurationLocked()
	if finite && next >= max {
		c.state.CurrentTime = max
		c.pushSurfaceLocked(max)
		notify = c.broadcastLocked(true)
		c.pauseLocked()
		cont = false
	} else {
		c.state.CurrentTime = next
		c.pushSurfaceLocked(next)
		notify = c.broadcastLocked(false)
	}
	c.mu.Unlock()
	if notify != nil {
		notify()
	}
	return cont
}

func (c *Clock) tickLoop(cancel chan struct{}) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if !c.Tick() {
				return
			}
		}
	}
}

func (c *Clock) stopTickLocked() {
	if c.cancelTick != nil {
		close(c.cancelTick)
		c.cancelTick = nil
	}
}

func (c *Clock) pushSurfaceLocked(seconds float64) {
	if c.surface == nil {
		if !c.warnedNoCtrl && c.sink != nil {
			c.sink.Emit(diag.Event{Kind: diag.KindNoTimeControl})
			c.warnedNoCtrl = true
		}
		return
	}
	c.surface.SetCurrentTime(seconds)
}

// broadcastLocked snapshots the throttled notification under the lock
// and returns the closure that delivers it. The caller invokes the
// closure after releasing the mutex so observers may re-enter the
// clock (read State, subscribe) without deadlocking.
func (c *Clock) broadcastLocked(force bool) func() {
	now := c.now()
	if !force && now.Sub(c.lastBroadcast) < broadcastInterval {
		return nil
	}
	c.lastBroadcast = now
	t := c.state.CurrentTime
	obs := make([]Observer, len(c.observers))
	copy(obs, c.observers)
	return func() {
		for _, o := range obs {
			o(t)
		}
	}
}

// maxDurationLocked is the longest finite total duration across
// scheduled animations, each shifted by its resolved chain delay.
// ok is false when no animation has a finite horizon.
func (c *Clock) maxDurationLocked() (float64, bool) {
	max := 0.0
	found := false
	for _, r := range c.doc.Animations {
		total := r.TotalDuration()
		if math.IsInf(total, 1) {
			continue
		}
		if delay, ok := c.state.ChainDelaysMs[r.ID]; ok {
			total += delay / 1000
		} else {
			total += anim.ParseClock(r.Begin, r.ID, c.sink)
		}
		if total > max {
			max = total
		}
		found = true
	}
	return max, found
}

func cloneDelays(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
