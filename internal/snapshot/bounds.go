package snapshot

import (
	"math"
	"strconv"
	"strings"

	mt "github.com/rustyoz/Mtransform"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/markup"
	"github.com/ivlev/svgmotion/internal/reproject"
	"github.com/ivlev/svgmotion/internal/transform"
)

// minSampleCount and maxSampleSpacing bound how densely the sweep
// samples the timeline.
const (
	minSampleCount   = 40
	maxSampleSpacing = 0.05
	defaultHorizon   = 1.0
)

// Bounds accumulates running min/max extremes over sampled geometry.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	set                    bool
}

// AddPoint widens the bounds to include a point.
func (b *Bounds) AddPoint(x, y float64) {
	if !b.set {
		b.MinX, b.MaxX = x, x
		b.MinY, b.MaxY = y, y
		b.set = true
		return
	}
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
}

// Valid reports whether any finite measurement was obtained.
func (b *Bounds) Valid() bool {
	return b.set
}

// Width of the accumulated box.
func (b *Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the accumulated box.
func (b *Bounds) Height() float64 { return b.MaxY - b.MinY }

// SweepBounds samples the timeline and accumulates the geometric
// extremes swept during playback. Repeats are forced to a single run;
// the horizon is the longest finite begin+duration across timed nodes,
// defaulting to 1s when none is found. ok is false when nothing
// measurable was ever seen.
func SweepBounds(root *markup.Node, sink diag.Sink) (Bounds, bool) {
	horizon := sweepHorizon(root, sink)

	spacing := horizon / minSampleCount
	if spacing > maxSampleSpacing {
		spacing = maxSampleSpacing
	}

	var b Bounds
	measureAt := func(t float64) {
		frame := root.Clone()
		Freeze(frame, t, sink)
		measureNode(frame, mt.Identity(), &b)
	}

	measureAt(0)
	if spacing > 0 {
		for t := spacing; t < horizon; t += spacing {
			measureAt(t)
		}
	}
	measureAt(horizon)

	return b, b.Valid()
}

// sweepHorizon finds the longest finite single-run duration across all
// timed nodes.
func sweepHorizon(root *markup.Node, sink diag.Sink) float64 {
	horizon := 0.0
	root.Walk(func(n *markup.Node) {
		if !anim.IsDirectiveName(n.Name) {
			return
		}
		id, _ := n.Attr("data-anim-id")
		end := clockAttr(n, "begin", id, sink)
		if rd := clockAttr(n, "repeatDur", id, sink); rd > 0 {
			end += rd
		} else {
			end += clockAttr(n, "dur", id, sink)
		}
		if end > horizon && !math.IsInf(end, 1) {
			horizon = end
		}
	})
	if horizon <= 0 {
		return defaultHorizon
	}
	return horizon
}

func measureNode(n *markup.Node, acc mt.Transform, b *Bounds) {
	if t, ok := n.Attr("transform"); ok {
		acc = mt.MultiplyTransforms(acc, transform.Parse(t))
	}

	switch n.Name {
	case "rect":
		x := floatAttr(n, "x")
		y := floatAttr(n, "y")
		w := floatAttr(n, "width")
		h := floatAttr(n, "height")
		if w > 0 && h > 0 {
			addTransformed(b, acc, x, y)
			addTransformed(b, acc, x+w, y)
			addTransformed(b, acc, x, y+h)
			addTransformed(b, acc, x+w, y+h)
		}
	case "circle":
		cx, cy, r := floatAttr(n, "cx"), floatAttr(n, "cy"), floatAttr(n, "r")
		if r > 0 {
			addTransformed(b, acc, cx-r, cy)
			addTransformed(b, acc, cx+r, cy)
			addTransformed(b, acc, cx, cy-r)
			addTransformed(b, acc, cx, cy+r)
		}
	case "ellipse":
		cx, cy := floatAttr(n, "cx"), floatAttr(n, "cy")
		rx, ry := floatAttr(n, "rx"), floatAttr(n, "ry")
		if rx > 0 && ry > 0 {
			addTransformed(b, acc, cx-rx, cy)
			addTransformed(b, acc, cx+rx, cy)
			addTransformed(b, acc, cx, cy-ry)
			addTransformed(b, acc, cx, cy+ry)
		}
	case "line":
		addTransformed(b, acc, floatAttr(n, "x1"), floatAttr(n, "y1"))
		addTransformed(b, acc, floatAttr(n, "x2"), floatAttr(n, "y2"))
	case "path":
		if d, ok := n.Attr("d"); ok {
			if p, err := reproject.ParsePath(d); err == nil {
				p.Transform(acc)
				if minX, minY, maxX, maxY, ok := p.Bounds(); ok {
					b.AddPoint(minX, minY)
					b.AddPoint(maxX, maxY)
				}
			}
		}
	}

	for _, c := range n.Children {
		measureNode(c, acc, b)
	}
}

func addTransformed(b *Bounds, t mt.Transform, x, y float64) {
	tx, ty := t.Apply(x, y)
	b.AddPoint(tx, ty)
}

func floatAttr(n *markup.Node, name string) float64 {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}
