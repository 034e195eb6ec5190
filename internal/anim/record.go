// Package anim models the timed animation records the engine schedules
// and rewrites: SMIL-like timing fields, kind-specific value fields and
// the chains that sequence records relative to each other.
package anim

// Kind discriminates what a record animates.
type Kind string

const (
	KindAttribute Kind = "attribute"
	KindTransform Kind = "transform"
	KindMotion    Kind = "motion"
	KindSet       Kind = "set"
)

// TransformType is the sub-kind of a transform record.
type TransformType string

const (
	TransformTranslate TransformType = "translate"
	TransformScale     TransformType = "scale"
	TransformRotate    TransformType = "rotate"
	TransformSkewX     TransformType = "skewX"
	TransformSkewY     TransformType = "skewY"
)

// Fill behaviors.
const (
	FillFreeze = "freeze"
	FillRemove = "remove"
)

// DefTarget addresses an animation target inside a definition
// (gradient stop, filter primitive and so on) instead of a renderable
// element. Indexes are 1-based; zero means "not addressed".
type DefTarget struct {
	DefKind        string `yaml:"kind"`
	DefID          string `yaml:"id"`
	ChildIndex     int    `yaml:"child,omitempty"`
	StopIndex      int    `yaml:"stop,omitempty"`
	PrimitiveIndex int    `yaml:"primitive,omitempty"`
}

// Target is either a direct element reference or a definition target.
// PreviewElementID is only used to visualize indirect targets.
type Target struct {
	ElementID        string     `yaml:"element,omitempty"`
	Def              *DefTarget `yaml:"def,omitempty"`
	PreviewElementID string     `yaml:"preview,omitempty"`
}

// OwnerID returns the id whose deletion orphans this target.
func (t Target) OwnerID() string {
	if t.Def != nil {
		return t.Def.DefID
	}
	return t.ElementID
}

// Record is one timed effect. Timing fields keep their authored SMIL
// string forms where the engine re-emits them verbatim (begin, end,
// keyTimes, keySplines); everything the engine computes with is parsed
// to numbers at the document boundary.
type Record struct {
	ID            string        `yaml:"id"`
	Kind          Kind          `yaml:"kind"`
	TransformType TransformType `yaml:"transformType,omitempty"`
	Target        Target        `yaml:"target"`

	Dur              float64 `yaml:"dur"`
	Begin            string  `yaml:"begin,omitempty"`
	End              string  `yaml:"end,omitempty"`
	Fill             string  `yaml:"fill,omitempty"`
	RepeatCount      float64 `yaml:"repeatCount,omitempty"`
	RepeatIndefinite bool    `yaml:"repeatIndefinite,omitempty"`
	RepeatDur        float64 `yaml:"repeatDur,omitempty"`
	CalcMode         string  `yaml:"calcMode,omitempty"`
	KeyTimes         string  `yaml:"keyTimes,omitempty"`
	KeySplines       string  `yaml:"keySplines,omitempty"`

	AttributeName string `yaml:"attributeName,omitempty"`
	From          string `yaml:"from,omitempty"`
	To            string `yaml:"to,omitempty"`
	Values        string `yaml:"values,omitempty"`
	Additive      string `yaml:"additive,omitempty"`
	Accumulate    string `yaml:"accumulate,omitempty"`

	Path      string `yaml:"path,omitempty"`
	MPath     string `yaml:"mpath,omitempty"`
	Rotate    string `yaml:"rotate,omitempty"`
	KeyPoints string `yaml:"keyPoints,omitempty"`
}

// NewRecord creates a record with the documented defaults: 2s duration,
// zero begin offset, freeze fill, a single repeat.
func NewRecord(id string, kind Kind) *Record {
	return &Record{
		ID:          id,
		Kind:        kind,
		Dur:         2,
		Begin:       "0s",
		Fill:        FillFreeze,
		RepeatCount: 1,
	}
}

// SetPath assigns an explicit motion path and clears any mpath
// reference; exactly one of the two is meaningful.
func (r *Record) SetPath(d string) {
	r.Path = d
	r.MPath = ""
}

// SetMPath assigns a motion path reference and clears the inline path.
func (r *Record) SetMPath(ref string) {
	r.MPath = ref
	r.Path = ""
}

// Clone returns a shallow copy. Value fields are plain strings, so a
// shallow copy is enough for copy-on-write re-projection.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// ChainEntry sequences one animation inside a chain. Trigger "start"
// measures the delay from the chain start, "end" from the end of the
// predecessor's duration.
type ChainEntry struct {
	AnimationID  string  `yaml:"animation"`
	DelaySeconds float64 `yaml:"delay"`
	Trigger      string  `yaml:"trigger,omitempty"`
}

// Triggers.
const (
	TriggerStart = "start"
	TriggerEnd   = "end"
)

// Chain is an ordered dependency list. Entry order is authoritative;
// the resolver never re-sorts by timing.
type Chain struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name,omitempty"`
	Entries []ChainEntry `yaml:"entries"`
}
