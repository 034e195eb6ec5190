// Package reproject keeps animation parameter values visually
// consistent after the geometry they animate is moved, scaled or
// rotated by unrelated edits. It rewrites value strings under a delta
// matrix; it never touches playback state.
package reproject

import (
	"strconv"
	"strings"

	mt "github.com/rustyoz/Mtransform"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/transform"
)

// xAxisAttrs and yAxisAttrs are the position-like attributes that pick
// up the delta's translation on their axis.
var xAxisAttrs = map[string]bool{"x": true, "x1": true, "x2": true, "cx": true}
var yAxisAttrs = map[string]bool{"y": true, "y1": true, "y2": true, "cy": true}

// Apply rewrites every animation whose target element has a delta.
// Records that do not change are returned by identity so callers can
// skip redundant propagation with a pointer comparison.
func Apply(records []*anim.Record, deltas map[string]mt.Transform, sink diag.Sink) []*anim.Record {
	out := make([]*anim.Record, len(records))
	for i, r := range records {
		out[i] = r
		delta, ok := deltas[r.Target.OwnerID()]
		if !ok || transform.IsIdentity(delta) {
			continue
		}
		out[i] = reprojectRecord(r, delta, sink)
	}
	return out
}

// Deltas builds the per-element delta map from before/after transform
// snapshots. Elements whose before matrix is degenerate are skipped
// with a diagnostic; their animations stay untouched.
func Deltas(before, after map[string]mt.Transform, sink diag.Sink) map[string]mt.Transform {
	out := make(map[string]mt.Transform, len(after))
	for id, b := range before {
		a, ok := after[id]
		if !ok {
			continue
		}
		d, ok := transform.Delta(b, a)
		if !ok {
			if sink != nil {
				sink.Emit(diag.Event{Kind: diag.KindDegenerateDelta, Value: id})
			}
			continue
		}
		out[id] = d
	}
	return out
}

func reprojectRecord(r *anim.Record, delta mt.Transform, sink diag.Sink) *anim.Record {
	switch r.Kind {
	case anim.KindTransform:
		if r.TransformType == anim.TransformRotate {
			return recenterRotate(r, delta, sink)
		}
		// Translate (and the remaining sub-kinds) ride on geometry
		// that already absorbed the delta.
		return r
	case anim.KindMotion:
		if r.Path == "" {
			// mpath targets carry their own delta through the
			// referenced path element.
			return r
		}
		return shiftMotionPath(r, delta, sink)
	case anim.KindAttribute:
		return shiftAxisAttribute(r, delta, sink)
	default:
		return r
	}
}

// recenterRotate maps each keyframe's rotation center through the
// delta, leaving the angle untouched. An implicit (0,0) center is
// materialized only when it actually moves.
func recenterRotate(r *anim.Record, delta mt.Transform, sink diag.Sink) *anim.Record {
	rewrite := func(s string) string {
		v, ok := anim.ParseRotateValue(s)
		if !ok {
			if sink != nil {
				sink.Emit(diag.Event{Kind: diag.KindBadNumber, AnimationID: r.ID, Value: s})
			}
			return s
		}
		cx, cy := v.Center()
		nx, ny := delta.Apply(cx, cy)
		if nx == cx && ny == cy {
			return s
		}
		v.CX, v.CY = nx, ny
		v.HasCenter = true
		return v.String()
	}

	from, to := mapValue(r.From, rewrite), mapValue(r.To, rewrite)
	values := mapList(r.Values, rewrite)
	if from == r.From && to == r.To && values == r.Values {
		return r
	}
	c := r.Clone()
	c.From, c.To, c.Values = from, to, values
	return c
}

// shiftMotionPath re-projects every coordinate of an explicit motion
// path through the delta.
func shiftMotionPath(r *anim.Record, delta mt.Transform, sink diag.Sink) *anim.Record {
	p, err := ParsePath(r.Path)
	if err != nil {
		if sink != nil {
			sink.Emit(diag.Event{Kind: diag.KindUnsupportedPath, AnimationID: r.ID, Value: r.Path, Detail: err.Error()})
		}
		return r
	}
	p.Transform(delta)
	d := p.String()
	if d == r.Path {
		return r
	}
	c := r.Clone()
	c.Path = d
	return c
}

// shiftAxisAttribute adds the delta's pure translation to numeric
// values of position-like attributes, on the matching axis only.
func shiftAxisAttribute(r *anim.Record, delta mt.Transform, sink diag.Sink) *anim.Record {
	dx, dy := transform.TranslationOf(delta)
	var offset float64
	switch {
	case xAxisAttrs[r.AttributeName]:
		offset = dx
	case yAxisAttrs[r.AttributeName]:
		offset = dy
	default:
		return r
	}
	if offset == 0 {
		return r
	}

	rewrite := func(s string) string {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			if sink != nil {
				sink.Emit(diag.Event{Kind: diag.KindBadNumber, AnimationID: r.ID, Value: s})
			}
			return s
		}
		return strconv.FormatFloat(v+offset, 'g', -1, 64)
	}

	from, to := mapValue(r.From, rewrite), mapValue(r.To, rewrite)
	values := mapList(r.Values, rewrite)
	if from == r.From && to == r.To && values == r.Values {
		return r
	}
	c := r.Clone()
	c.From, c.To, c.Values = from, to, values
	return c
}

func mapValue(s string, f func(string) string) string {
	if s == "" {
		return s
	}
	return f(s)
}

// mapList applies the rewrite to each ';'-separated keyframe
// independently.
func mapList(s string, f func(string) string) string {
	if s == "" {
		return s
	}
	parts := strings.Split(s, ";")
	changed := false
	for i, p := range parts {
		n := f(strings.TrimSpace(p))
		if n != strings.TrimSpace(p) {
			changed = true
		}
		parts[i] = n
	}
	if !changed {
		return s
	}
	return strings.Join(parts, ";")
}
