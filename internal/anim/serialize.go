package anim

import (
	"strconv"

	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/markup"
)

// Directive element names, one per record kind.
const (
	ElemAnimate          = "animate"
	ElemAnimateTransform = "animateTransform"
	ElemAnimateMotion    = "animateMotion"
	ElemSet              = "set"
)

// IsDirectiveName reports whether an element name is one of the timed
// directive elements the engine owns.
func IsDirectiveName(name string) bool {
	switch name {
	case ElemAnimate, ElemAnimateTransform, ElemAnimateMotion, ElemSet:
		return true
	}
	return false
}

// Directive serializes one record into its markup element. When the
// record has a resolved chain delay, begin is emitted as
// "{delayMs/1000}s"; otherwise the authored begin passes through.
func Directive(r *Record, delaysMs map[string]float64) *markup.Node {
	var n *markup.Node
	switch r.Kind {
	case KindTransform:
		n = &markup.Node{Name: ElemAnimateTransform}
		n.SetAttr("attributeName", "transform")
		n.SetAttr("type", string(r.TransformType))
	case KindMotion:
		n = &markup.Node{Name: ElemAnimateMotion}
	case KindSet:
		n = &markup.Node{Name: ElemSet}
	default:
		n = &markup.Node{Name: ElemAnimate}
	}
	n.SetAttr("data-anim-id", r.ID)

	if r.AttributeName != "" && r.Kind != KindTransform && r.Kind != KindMotion {
		n.SetAttr("attributeName", r.AttributeName)
	}

	n.SetAttr("dur", FormatSeconds(r.Dur))
	if delay, ok := delaysMs[r.ID]; ok {
		n.SetAttr("begin", FormatSeconds(delay/1000))
	} else if r.Begin != "" {
		n.SetAttr("begin", r.Begin)
	}
	if r.End != "" {
		n.SetAttr("end", r.End)
	}
	if r.Fill != "" {
		n.SetAttr("fill", r.Fill)
	}
	if r.RepeatDur > 0 {
		n.SetAttr("repeatDur", FormatSeconds(r.RepeatDur))
	} else if r.RepeatIndefinite {
		n.SetAttr("repeatCount", "indefinite")
	} else if r.RepeatCount > 0 && r.RepeatCount != 1 {
		n.SetAttr("repeatCount", strconv.FormatFloat(r.RepeatCount, 'g', -1, 64))
	}
	if r.CalcMode != "" {
		n.SetAttr("calcMode", r.CalcMode)
	}
	if r.KeyTimes != "" {
		n.SetAttr("keyTimes", r.KeyTimes)
	}
	if r.KeySplines != "" {
		n.SetAttr("keySplines", r.KeySplines)
	}

	if r.Kind != KindMotion {
		if r.Values != "" {
			n.SetAttr("values", r.Values)
		} else {
			if r.From != "" {
				n.SetAttr("from", r.From)
			}
			if r.To != "" {
				n.SetAttr("to", r.To)
			}
		}
	}
	if r.Additive != "" {
		n.SetAttr("additive", r.Additive)
	}
	if r.Accumulate != "" {
		n.SetAttr("accumulate", r.Accumulate)
	}

	if r.Kind == KindMotion {
		if r.Path != "" {
			n.SetAttr("path", r.Path)
		} else if r.MPath != "" {
			n.Children = append(n.Children, &markup.Node{
				Name:  "mpath",
				Attrs: []markup.Attr{{Name: "href", Value: "#" + r.MPath}},
			})
		}
		if r.Rotate != "" {
			n.SetAttr("rotate", r.Rotate)
		}
		if r.KeyPoints != "" {
			n.SetAttr("keyPoints", r.KeyPoints)
			n.SetAttr("keyTimes", r.KeyTimes)
		}
	}

	return n
}

// InjectDirectives attaches each record's directive to its target
// element inside the markup tree. Indirect definition targets resolve
// through the definition id, descending to the addressed child when
// the index is in range. Missing targets are skipped with a
// diagnostic; the animation simply does not render.
func InjectDirectives(root *markup.Node, doc *Document, delaysMs map[string]float64, sink diag.Sink) {
	for _, r := range doc.Animations {
		target := resolveTarget(root, r)
		if target == nil {
			if sink != nil {
				sink.Emit(diag.Event{Kind: diag.KindMissingTarget, AnimationID: r.ID, Value: r.Target.OwnerID()})
			}
			continue
		}
		target.Children = append(target.Children, Directive(r, delaysMs))
	}
}

func resolveTarget(root *markup.Node, r *Record) *markup.Node {
	if r.Target.Def == nil {
		if r.Target.ElementID == "" {
			return nil
		}
		return root.ByID(r.Target.ElementID)
	}
	def := root.ByID(r.Target.Def.DefID)
	if def == nil {
		return nil
	}
	idx := r.Target.Def.ChildIndex
	if r.Target.Def.StopIndex > 0 {
		idx = r.Target.Def.StopIndex
	}
	if r.Target.Def.PrimitiveIndex > 0 {
		idx = r.Target.Def.PrimitiveIndex
	}
	if idx > 0 && idx <= len(def.Children) {
		return def.Children[idx-1]
	}
	return def
}
