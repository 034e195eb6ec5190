// Package snapshot produces static artifacts from a running timeline:
// deterministic freezes for export, swept-bounds measurements for
// preview framing, and rasterized frames.
package snapshot

import (
	"strconv"
	"strings"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/markup"
	"github.com/ivlev/svgmotion/internal/reproject"
)

// Freeze collapses every animation directive in the tree to a static
// value at time t, then removes the directive nodes so the artifact
// carries no residual timing markup. Simple numeric attribute and
// transform animations interpolate linearly between from and to;
// motion animations sample their path by arc length.
func Freeze(root *markup.Node, t float64, sink diag.Sink) {
	root.Walk(func(n *markup.Node) {
		hasDirectives := false
		for _, c := range n.Children {
			if anim.IsDirectiveName(c.Name) {
				hasDirectives = true
				freezeDirective(root, n, c, t, sink)
			}
		}
		if hasDirectives {
			n.RemoveChildren(func(c *markup.Node) bool {
				return anim.IsDirectiveName(c.Name)
			})
		}
	})
}

func freezeDirective(root, target, d *markup.Node, t float64, sink diag.Sink) {
	id, _ := d.Attr("data-anim-id")
	begin := clockAttr(d, "begin", id, sink)
	dur := clockAttr(d, "dur", id, sink)
	repeatDur := clockAttr(d, "repeatDur", id, sink)
	eff := dur
	if repeatDur > 0 {
		eff = repeatDur
	}

	var progress float64
	switch {
	case eff <= 0:
		if t >= begin {
			progress = 1
		}
	default:
		progress = clamp((t-begin)/eff, 0, 1)
	}

	// A removed fill reverts past its active window; nothing to write.
	if fill, _ := d.Attr("fill"); fill == anim.FillRemove && t >= begin+eff {
		return
	}

	switch d.Name {
	case anim.ElemSet:
		if t >= begin {
			if name, ok := d.Attr("attributeName"); ok {
				if to, ok := d.Attr("to"); ok {
					target.SetAttr(name, to)
				}
			}
		}
	case anim.ElemAnimate:
		freezeAnimate(target, d, progress, id, sink)
	case anim.ElemAnimateTransform:
		freezeTransform(target, d, progress, id, sink)
	case anim.ElemAnimateMotion:
		freezeMotion(root, target, d, progress, id, sink)
	}
}

func freezeAnimate(target, d *markup.Node, progress float64, id string, sink diag.Sink) {
	name, ok := d.Attr("attributeName")
	if !ok {
		return
	}
	keyframes := numericKeyframes(d, id, sink)
	if len(keyframes) == 0 {
		return
	}
	target.SetAttr(name, formatNum(sampleKeyframes(keyframes, progress)))
}

func freezeTransform(target, d *markup.Node, progress float64, id string, sink diag.Sink) {
	typ, ok := d.Attr("type")
	if !ok {
		return
	}
	from, okFrom := d.Attr("from")
	to, okTo := d.Attr("to")
	if !okFrom || !okTo {
		// values-list transforms interpolate between adjacent
		// keyframes component-wise.
		values, okV := d.Attr("values")
		if !okV {
			return
		}
		parts := strings.Split(values, ";")
		if len(parts) < 2 {
			return
		}
		seg := progress * float64(len(parts)-1)
		i := int(seg)
		if i >= len(parts)-1 {
			i = len(parts) - 2
		}
		from, to = parts[i], parts[i+1]
		progress = seg - float64(i)
	}

	fc := components(from)
	tc := components(to)
	if len(fc) == 0 || len(fc) != len(tc) {
		if sink != nil {
			sink.Emit(diag.Event{Kind: diag.KindBadNumber, AnimationID: id, Value: from + " -> " + to})
		}
		return
	}
	out := make([]string, len(fc))
	for i := range fc {
		out[i] = formatNum(lerp(fc[i], tc[i], progress))
	}

	frozen := typ + "(" + strings.Join(out, ",") + ")"
	additive, _ := d.Attr("additive")
	if existing, ok := target.Attr("transform"); ok && additive == "sum" {
		target.SetAttr("transform", existing+" "+frozen)
	} else {
		target.SetAttr("transform", frozen)
	}
}

func freezeMotion(root, target, d *markup.Node, progress float64, id string, sink diag.Sink) {
	pathData, _ := d.Attr("path")
	if pathData == "" {
		for _, c := range d.Children {
			if c.Name != "mpath" {
				continue
			}
			href, ok := c.Attr("href")
			if !ok {
				href, _ = c.Attr("xlink:href")
			}
			ref := root.ByID(strings.TrimPrefix(href, "#"))
			if ref == nil {
				// Unresolvable reference renders as a static node.
				if sink != nil {
					sink.Emit(diag.Event{Kind: diag.KindMissingTarget, AnimationID: id, Value: href})
				}
				return
			}
			pathData, _ = ref.Attr("d")
		}
	}
	if pathData == "" {
		return
	}
	p, err := reproject.ParsePath(pathData)
	if err != nil {
		if sink != nil {
			sink.Emit(diag.Event{Kind: diag.KindUnsupportedPath, AnimationID: id, Value: pathData, Detail: err.Error()})
		}
		return
	}
	x, y := p.PointAt(progress)
	move := "translate(" + formatNum(x) + "," + formatNum(y) + ")"
	if existing, ok := target.Attr("transform"); ok {
		target.SetAttr("transform", move+" "+existing)
	} else {
		target.SetAttr("transform", move)
	}
}

// numericKeyframes extracts the interpolation stops: the values list
// when present, else from/to.
func numericKeyframes(d *markup.Node, id string, sink diag.Sink) []float64 {
	if values, ok := d.Attr("values"); ok {
		parts := strings.Split(values, ";")
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				if sink != nil {
					sink.Emit(diag.Event{Kind: diag.KindBadNumber, AnimationID: id, Value: p})
				}
				return nil
			}
			out = append(out, v)
		}
		return out
	}
	from, okFrom := d.Attr("from")
	to, okTo := d.Attr("to")
	if !okFrom || !okTo {
		return nil
	}
	f, errF := strconv.ParseFloat(strings.TrimSpace(from), 64)
	t, errT := strconv.ParseFloat(strings.TrimSpace(to), 64)
	if errF != nil || errT != nil {
		if sink != nil {
			sink.Emit(diag.Event{Kind: diag.KindBadNumber, AnimationID: id, Value: from + " -> " + to})
		}
		return nil
	}
	return []float64{f, t}
}

func sampleKeyframes(keys []float64, progress float64) float64 {
	if len(keys) == 1 {
		return keys[0]
	}
	seg := progress * float64(len(keys)-1)
	i := int(seg)
	if i >= len(keys)-1 {
		return keys[len(keys)-1]
	}
	return lerp(keys[i], keys[i+1], seg-float64(i))
}

func components(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

func clockAttr(d *markup.Node, name, id string, sink diag.Sink) float64 {
	v, ok := d.Attr(name)
	if !ok {
		return 0
	}
	return anim.ParseClock(v, id, sink)
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
