package anim

import (
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/svgmotion/internal/diag"
)

// TotalDuration returns the record's total elapsed duration in
// seconds, possibly +Inf. repeatDur beats repeatCount when present;
// an indefinite repeat is unbounded; otherwise dur times repeatCount
// with a single repeat as the default.
func (r *Record) TotalDuration() float64 {
	if r.RepeatDur > 0 {
		return r.RepeatDur
	}
	if r.RepeatIndefinite {
		return math.Inf(1)
	}
	count := r.RepeatCount
	if count <= 0 {
		count = 1
	}
	return r.Dur * count
}

// EffectiveDuration is the single-run duration used by the snapshotter
// when repeats are forced to one iteration: repeatDur when present,
// else dur.
func (r *Record) EffectiveDuration() float64 {
	if r.RepeatDur > 0 {
		return r.RepeatDur
	}
	return r.Dur
}

// ParseClock parses a SMIL clock/offset value ("2s", "350ms", "1.5",
// "1:30") into seconds, best effort. Malformed input parses to 0 and
// is reported through the sink rather than returned as an error.
func ParseClock(s string, animID string, sink diag.Sink) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch {
	case strings.HasSuffix(s, "ms"):
		return parseNumberOr0(strings.TrimSuffix(s, "ms"), s, animID, sink) / 1000
	case strings.HasSuffix(s, "s"):
		return parseNumberOr0(strings.TrimSuffix(s, "s"), s, animID, sink)
	case strings.HasSuffix(s, "min"):
		return parseNumberOr0(strings.TrimSuffix(s, "min"), s, animID, sink) * 60
	case strings.HasSuffix(s, "h"):
		return parseNumberOr0(strings.TrimSuffix(s, "h"), s, animID, sink) * 3600
	case strings.Contains(s, ":"):
		parts := strings.Split(s, ":")
		total := 0.0
		for _, p := range parts {
			total = total*60 + parseNumberOr0(p, s, animID, sink)
		}
		return total
	default:
		return parseNumberOr0(s, s, animID, sink)
	}
}

func parseNumberOr0(num, raw, animID string, sink diag.Sink) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		if sink != nil {
			sink.Emit(diag.Event{Kind: diag.KindBadClockValue, AnimationID: animID, Value: raw})
		}
		return 0
	}
	return v
}

// FormatSeconds renders a seconds value the way the serializer emits
// begin/dur attributes: shortest decimal form plus the unit.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64) + "s"
}
