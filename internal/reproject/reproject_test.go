package reproject

import (
	"testing"

	mt "github.com/rustyoz/Mtransform"

	"github.com/ivlev/svgmotion/internal/anim"
	"github.com/ivlev/svgmotion/internal/diag"
	"github.com/ivlev/svgmotion/internal/transform"
)

func rotateRecord(id, elementID string) *anim.Record {
	r := anim.NewRecord(id, anim.KindTransform)
	r.TransformType = anim.TransformRotate
	r.Target.ElementID = elementID
	return r
}

func TestApplyIdentityReturnsSameRecord(t *testing.T) {
	r := rotateRecord("spin", "box")
	r.From = "0"
	r.To = "360"

	deltas := map[string]mt.Transform{"box": mt.Identity()}
	out := Apply([]*anim.Record{r}, deltas, nil)

	if out[0] != r {
		t.Error("Identity delta must return the same record by reference")
	}
}

func TestApplyMissingDeltaReturnsSameRecord(t *testing.T) {
	r := rotateRecord("spin", "box")
	out := Apply([]*anim.Record{r}, map[string]mt.Transform{}, nil)
	if out[0] != r {
		t.Error("Record without a delta must pass through by reference")
	}
}

func TestRecenterRotateUnderTranslation(t *testing.T) {
	r := rotateRecord("spin", "box")
	r.From = "0"
	r.To = "360"

	deltas := map[string]mt.Transform{"box": transform.Translation(10, 20)}
	out := Apply([]*anim.Record{r}, deltas, nil)

	if out[0] == r {
		t.Fatal("Expected a rewritten copy")
	}
	if out[0].From != "0,10,20" {
		t.Errorf("Expected from %q, got %q", "0,10,20", out[0].From)
	}
	if out[0].To != "360,10,20" {
		t.Errorf("Expected to %q, got %q", "360,10,20", out[0].To)
	}
	// The original record is untouched.
	if r.From != "0" || r.To != "360" {
		t.Errorf("Original record mutated: from=%q to=%q", r.From, r.To)
	}
}

func TestRecenterRotateKeepsStationaryCenter(t *testing.T) {
	r := rotateRecord("spin", "box")
	r.From = "0"
	r.To = "90"

	// Rotation about the origin leaves the implicit (0,0) center in
	// place, so the short form survives.
	deltas := map[string]mt.Transform{"box": transform.Rotation(45, 0, 0)}
	out := Apply([]*anim.Record{r}, deltas, nil)

	if out[0] != r {
		t.Errorf("Stationary center must not be materialized: from=%q to=%q", out[0].From, out[0].To)
	}
}

func TestRecenterRotateValuesList(t *testing.T) {
	r := rotateRecord("spin", "box")
	r.Values = "0,5,5;180,5,5;360,5,5"

	deltas := map[string]mt.Transform{"box": transform.Translation(1, 2)}
	out := Apply([]*anim.Record{r}, deltas, nil)

	want := "0,6,7;180,6,7;360,6,7"
	if out[0].Values != want {
		t.Errorf("Expected values %q, got %q", want, out[0].Values)
	}
}

func TestTranslateAnimationUntouched(t *testing.T) {
	r := anim.NewRecord("slide", anim.KindTransform)
	r.TransformType = anim.TransformTranslate
	r.Target.ElementID = "box"
	r.From = "0,0"
	r.To = "50,0"

	deltas := map[string]mt.Transform{"box": transform.Translation(10, 20)}
	out := Apply([]*anim.Record{r}, deltas, nil)

	if out[0] != r {
		t.Error("Translate animations ride on the moved geometry and must not change")
	}
}

func TestShiftMotionPath(t *testing.T) {
	r := anim.NewRecord("glide", anim.KindMotion)
	r.Target.ElementID = "box"
	r.SetPath("M 0,0 L 10,0")

	deltas := map[string]mt.Transform{"box": transform.Translation(5, 5)}
	out := Apply([]*anim.Record{r}, deltas, nil)

	if out[0].Path != "M 5,5 L 15,5" {
		t.Errorf("Expected shifted path, got %q", out[0].Path)
	}
}

func TestMPathReferenceUntouched(t *testing.T) {
	r := anim.NewRecord("glide", anim.KindMotion)
	r.Target.ElementID = "box"
	r.SetMPath("track")

	deltas := map[string]mt.Transform{"box": transform.Translation(5, 5)}
	out := Apply([]*anim.Record{r}, deltas, nil)

	if out[0] != r {
		t.Error("Referenced paths carry their own geometry; the record must pass through")
	}
}

func TestUnsupportedMotionPathKeptWithDiagnostic(t *testing.T) {
	r := anim.NewRecord("glide", anim.KindMotion)
	r.Target.ElementID = "box"
	r.SetPath("M 0,0 A 5,5 0 0 1 10,0")

	rec := &diag.Recorder{}
	deltas := map[string]mt.Transform{"box": transform.Translation(5, 5)}
	out := Apply([]*anim.Record{r}, deltas, rec)

	if out[0].Path != r.Path {
		t.Errorf("Unsupported path must stay untouched, got %q", out[0].Path)
	}
	if len(rec.Events) != 1 || rec.Events[0].Kind != diag.KindUnsupportedPath {
		t.Errorf("Expected one unsupported-path event, got %v", rec.Kinds())
	}
}

func TestShiftAxisAttribute(t *testing.T) {
	tests := []struct {
		attr     string
		from, to string
		wantFrom string
		wantTo   string
	}{
		{"x", "0", "100", "10", "110"},
		{"cx", "5", "15", "15", "25"},
		{"y", "0", "50", "20", "70"},
		{"cy", "1", "2", "21", "22"},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			r := anim.NewRecord("move", anim.KindAttribute)
			r.Target.ElementID = "box"
			r.AttributeName = tt.attr
			r.From = tt.from
			r.To = tt.to

			deltas := map[string]mt.Transform{"box": transform.Translation(10, 20)}
			out := Apply([]*anim.Record{r}, deltas, nil)

			if out[0].From != tt.wantFrom || out[0].To != tt.wantTo {
				t.Errorf("%s: expected %s->%s, got %s->%s",
					tt.attr, tt.wantFrom, tt.wantTo, out[0].From, out[0].To)
			}
		})
	}
}

func TestShiftNonAxisAttributeUntouched(t *testing.T) {
	r := anim.NewRecord("fade", anim.KindAttribute)
	r.Target.ElementID = "box"
	r.AttributeName = "opacity"
	r.From = "0"
	r.To = "1"

	deltas := map[string]mt.Transform{"box": transform.Translation(10, 20)}
	out := Apply([]*anim.Record{r}, deltas, nil)
	if out[0] != r {
		t.Error("Non-positional attributes must pass through by reference")
	}
}

func TestDeltasSkipsDegenerate(t *testing.T) {
	before := map[string]mt.Transform{
		"good": transform.Translation(1, 1),
		"bad":  transform.Scaling(0, 1),
	}
	after := map[string]mt.Transform{
		"good": transform.Translation(2, 2),
		"bad":  transform.Translation(5, 5),
	}

	rec := &diag.Recorder{}
	deltas := Deltas(before, after, rec)

	if _, ok := deltas["good"]; !ok {
		t.Error("Expected a delta for the invertible element")
	}
	if _, ok := deltas["bad"]; ok {
		t.Error("Degenerate before matrix must be skipped")
	}
	if len(rec.Events) != 1 || rec.Events[0].Kind != diag.KindDegenerateDelta {
		t.Errorf("Expected one degenerate-delta event, got %v", rec.Kinds())
	}
}
