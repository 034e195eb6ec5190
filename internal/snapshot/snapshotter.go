package snapshot

import (
	"fmt"

	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/markup"
	"github.com/ivlev/svgmotion/internal/playback"
)

// Stage is the off-screen container the snapshotter mounts markup into
// while sampling or freezing. Attach returns the detach function; the
// snapshotter calls it on every exit path so invisible nodes never
// leak into the host document.
type Stage interface {
	Attach(doc *markup.Node) (detach func(), err error)
}

// MemoryStage is the default stage: an in-process holder with no host
// document behind it.
type MemoryStage struct {
	mounted *markup.Node
}

// Attach implements Stage.
func (s *MemoryStage) Attach(doc *markup.Node) (func(), error) {
	if s.mounted != nil {
		return nil, fmt.Errorf("stage already occupied")
	}
	s.mounted = doc
	return func() { s.mounted = nil }, nil
}

// Mounted returns the currently attached document, for tests.
func (s *MemoryStage) Mounted() *markup.Node { return s.mounted }

// Snapshotter couples the shared playback clock with a stage.
type Snapshotter struct {
	clock *playback.Clock
	stage Stage
	sink  diag.Sink
}

// New creates a snapshotter. stage may be nil, defaulting to an
// in-memory stage.
func New(clock *playback.Clock, stage Stage, sink diag.Sink) *Snapshotter {
	if stage == nil {
		stage = &MemoryStage{}
	}
	return &Snapshotter{clock: clock, stage: stage, sink: sink}
}

// FreezeAt advances the shared clock to the requested time, pauses it,
// and collapses the mounted markup to static values at that time.
func (s *Snapshotter) FreezeAt(root *markup.Node, t float64) error {
	detach, err := s.stage.Attach(root)
	if err != nil {
		return err
	}
	defer detach()

	s.clock.Scrub(t) // scrubbing always pauses
	Freeze(root, s.clock.State().CurrentTime, s.sink)
	return nil
}

// Sweep measures the bounds swept during one playback run of the
// mounted markup.
func (s *Snapshotter) Sweep(root *markup.Node) (Bounds, bool, error) {
	detach, err := s.stage.Attach(root)
	if err != nil {
		return Bounds{}, false, err
	}
	defer detach()

	b, ok := SweepBounds(root, s.sink)
	return b, ok, nil
}
