package playback

import (
	"testing"
	"time"

	"github.com/ivlev/svgmotion/internal/anim"
)

type fakeSurface struct {
	times []float64
}

func (f *fakeSurface) SetCurrentTime(seconds float64) {
	f.times = append(f.times, seconds)
}

func testDocument(dur float64) *anim.Document {
	r := anim.NewRecord("a", anim.KindAttribute)
	r.Dur = dur
	return &anim.Document{Animations: []*anim.Record{r}}
}

// frozenClock pins the wall clock so derived time is deterministic.
func frozenClock(doc *anim.Document, surface TimeControl) (*Clock, *time.Time) {
	c := NewClock(doc, surface, nil)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestPlayAnchorsAndResolves(t *testing.T) {
	doc := testDocument(5)
	doc.Chains = []*anim.Chain{
		{ID: "c1", Entries: []anim.ChainEntry{{AnimationID: "a", DelaySeconds: 1}}},
	}
	c, _ := frozenClock(doc, nil)

	c.Play()
	defer c.Pause()

	s := c.State()
	if !s.IsPlaying || !s.HasPlayed || !s.HasAnchor {
		t.Errorf("Expected a playing anchored state, got %+v", s)
	}
	if s.ChainDelaysMs["a"] != 1000 {
		t.Errorf("Play must resolve chain delays, got %v", s.ChainDelaysMs)
	}
}

func TestAutoRestartNearEnd(t *testing.T) {
	c, _ := frozenClock(testDocument(5), nil)

	c.Scrub(4.98)
	if got := c.State().CurrentTime; got != 4.98 {
		t.Fatalf("Scrub failed: %f", got)
	}

	c.Play()
	defer c.Pause()

	if got := c.State().CurrentTime; got != 0 {
		t.Errorf("Play within the restart window must reset to 0, got %f", got)
	}
}

func TestPlayResumesOutsideRestartWindow(t *testing.T) {
	c, _ := frozenClock(testDocument(5), nil)

	c.Scrub(3)
	c.Play()
	defer c.Pause()

	if got := c.State().CurrentTime; got != 3 {
		t.Errorf("Play away from the end must resume, got %f", got)
	}
}

func TestTickDerivesFromAnchor(t *testing.T) {
	surface := &fakeSurface{}
	c, now := frozenClock(testDocument(5), surface)

	c.Play()
	defer c.Pause()

	*now = now.Add(2 * time.Second)
	if !c.Tick() {
		t.Fatal("Tick mid-timeline must continue")
	}
	if got := c.State().CurrentTime; got != 2 {
		t.Errorf("Expected derived time 2s, got %f", got)
	}
	if len(surface.times) == 0 || surface.times[len(surface.times)-1] != 2 {
		t.Errorf("Surface not driven: %v", surface.times)
	}
}

func TestTickRespectsRate(t *testing.T) {
	c, now := frozenClock(testDocument(10), nil)

	c.SetRate(2)
	c.Play()
	defer c.Pause()

	*now = now.Add(2 * time.Second)
	c.Tick()
	if got := c.State().CurrentTime; got != 4 {
		t.Errorf("Expected 4s at double rate, got %f", got)
	}
}

func TestTickClampsAtEndAndPauses(t *testing.T) {
	c, now := frozenClock(testDocument(5), nil)

	c.Play()
	*now = now.Add(10 * time.Second)
	if c.Tick() {
		t.Error("Tick past the end must stop the loop")
	}
	s := c.State()
	if s.CurrentTime != 5 || s.IsPlaying {
		t.Errorf("Expected a paused state at 5s, got %+v", s)
	}
}

func TestStopIncrementsEpoch(t *testing.T) {
	c, _ := frozenClock(testDocument(5), nil)

	c.Play()
	c.Stop()

	s := c.State()
	if s.RestartEpoch != 1 {
		t.Errorf("Expected epoch 1 after stop, got %d", s.RestartEpoch)
	}
	if s.IsPlaying || s.HasPlayed || s.CurrentTime != 0 {
		t.Errorf("Stop must return to idle, got %+v", s)
	}
	if s.ChainDelaysMs != nil {
		t.Error("Stop must clear the delay map")
	}

	c.Stop()
	if got := c.State().RestartEpoch; got != 2 {
		t.Errorf("Each stop increments the epoch, got %d", got)
	}
}

func TestScrubClamps(t *testing.T) {
	c, _ := frozenClock(testDocument(5), nil)

	c.Scrub(-1)
	if got := c.State().CurrentTime; got != 0 {
		t.Errorf("Negative scrub must clamp to 0, got %f", got)
	}

	c.Scrub(100)
	if got := c.State().CurrentTime; got != 5 {
		t.Errorf("Scrub past the end must clamp to the timeline span, got %f", got)
	}
}

func TestScrubPauses(t *testing.T) {
	c, _ := frozenClock(testDocument(5), nil)

	c.Play()
	c.Scrub(2)

	s := c.State()
	if s.IsPlaying || s.HasAnchor {
		t.Errorf("Scrub must pause, got %+v", s)
	}
}

func TestSetRateFloor(t *testing.T) {
	c, _ := frozenClock(testDocument(5), nil)

	c.SetRate(0.01)
	if got := c.State().Rate; got != 0.1 {
		t.Errorf("Rate must clamp to the floor, got %f", got)
	}
	c.SetRate(-3)
	if got := c.State().Rate; got != 0.1 {
		t.Errorf("Negative rate must clamp to the floor, got %f", got)
	}
}

func TestObserverBroadcastOnScrub(t *testing.T) {
	c, _ := frozenClock(testDocument(5), nil)

	var seen []float64
	c.Subscribe(func(t float64) { seen = append(seen, t) })

	c.Scrub(2)
	if len(seen) != 1 || seen[0] != 2 {
		t.Errorf("Scrub must force a broadcast, got %v", seen)
	}
}

func TestObserverMayReenterClock(t *testing.T) {
	c, now := frozenClock(testDocument(5), nil)

	var seenState []float64
	c.Subscribe(func(float64) {
		// Observers are read-model consumers; reading state and
		// registering further observers from the callback must not
		// deadlock.
		seenState = append(seenState, c.State().CurrentTime)
		c.Subscribe(func(float64) {})
	})

	c.Scrub(2)
	if len(seenState) != 1 || seenState[0] != 2 {
		t.Fatalf("Observer could not read state during scrub broadcast: %v", seenState)
	}

	c.Play()
	defer c.Pause()
	*now = now.Add(time.Second)
	c.Tick()
	if got := seenState[len(seenState)-1]; got != 3 {
		t.Errorf("Observer could not read state during tick broadcast, got %f", got)
	}

	c.Stop()
	if got := seenState[len(seenState)-1]; got != 0 {
		t.Errorf("Observer could not read state during stop broadcast, got %f", got)
	}
}

func TestIndefiniteOnlyDocumentHasNoHorizon(t *testing.T) {
	r := anim.NewRecord("loop", anim.KindAttribute)
	r.RepeatCount = 0
	r.RepeatIndefinite = true
	doc := &anim.Document{Animations: []*anim.Record{r}}
	c, now := frozenClock(doc, nil)

	// Without a finite horizon the scrub target passes unclamped and
	// ticks never hit an end.
	c.Scrub(42)
	if got := c.State().CurrentTime; got != 42 {
		t.Errorf("Expected unclamped scrub, got %f", got)
	}

	c.Play()
	defer c.Pause()
	if got := c.State().CurrentTime; got != 42 {
		t.Errorf("No restart window without a finite end, got %f", got)
	}

	*now = now.Add(time.Second)
	if !c.Tick() {
		t.Error("Tick must continue on an endless timeline")
	}
}
