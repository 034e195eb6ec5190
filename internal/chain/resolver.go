// Package chain turns chain declarations into per-animation start
// offsets. Each chain runs an independent cursor over its entries in
// declared order; triggers decide whether an entry's delay counts from
// the chain start or from the end of its predecessor.
package chain

import (
	"math"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/diag"
)

// Resolve computes the delay map in milliseconds. Entries referencing
// unknown animation ids are ignored. The same animation id appearing
// in a later chain overwrites the earlier delay. Entries that can
// never fire because an indefinite predecessor blocks the chain tail
// get no delay and are flagged through the sink.
func Resolve(chains []*anim.Chain, records map[string]*anim.Record, sink diag.Sink) map[string]float64 {
	delays := make(map[string]float64)
	for _, c := range chains {
		resolveChain(c, records, delays, sink)
	}
	return delays
}

func resolveChain(c *anim.Chain, records map[string]*anim.Record, delays map[string]float64, sink diag.Sink) {
	cursorMs := 0.0
	tailBlocked := false

	for _, e := range c.Entries {
		rec, ok := records[e.AnimationID]
		if !ok {
			// Stale entry; tolerated here, pruned by the cleanup
			// collaborator.
			if sink != nil {
				sink.Emit(diag.Event{Kind: diag.KindUnknownAnimation, AnimationID: e.AnimationID, Detail: c.ID})
			}
			continue
		}

		delayMs := e.DelaySeconds * 1000
		if delayMs < 0 {
			if sink != nil {
				sink.Emit(diag.Event{Kind: diag.KindBadNumber, AnimationID: e.AnimationID, Detail: "negative chain delay"})
			}
			delayMs = 0
		}

		durMs := rec.TotalDuration() * 1000

		switch e.Trigger {
		case anim.TriggerEnd:
			if tailBlocked {
				// Nothing after an indefinite predecessor can be
				// scheduled off its end.
				if sink != nil {
					sink.Emit(diag.Event{Kind: diag.KindChainTailBlocked, AnimationID: e.AnimationID, Detail: c.ID})
				}
				continue
			}
			base := cursorMs + delayMs
			delays[e.AnimationID] = base
			if math.IsInf(durMs, 1) {
				tailBlocked = true
			} else {
				cursorMs = base + durMs
			}
		default: // start
			base := delayMs
			delays[e.AnimationID] = base
			if math.IsInf(durMs, 1) {
				tailBlocked = true
			} else {
				cursorMs = math.Max(cursorMs, base+durMs)
			}
		}
	}
}
