package snapshot

import (
	"testing"
)

func TestSweepBoundsTranslatingSquare(t *testing.T) {
	root := mustParse(t, `<svg><rect id="box" x="0" y="0" width="10" height="10"><animateTransform attributeName="transform" type="translate" from="0,0" to="100,0" begin="0s" dur="1s"/></rect></svg>`)

	b, ok := SweepBounds(root, nil)
	if !ok {
		t.Fatal("Expected measurable bounds")
	}
	if b.MinX > 0.0001 || b.MaxX < 109.9999 || b.MaxX > 110.0001 {
		t.Errorf("Expected x in [0, 110], got [%f, %f]", b.MinX, b.MaxX)
	}
	if b.MinY != 0 || b.MaxY != 10 {
		t.Errorf("Expected y in [0, 10], got [%f, %f]", b.MinY, b.MaxY)
	}
}

func TestSweepBoundsStaticDocumentUsesDefaultHorizon(t *testing.T) {
	root := mustParse(t, `<svg><circle cx="50" cy="50" r="10"/></svg>`)

	b, ok := SweepBounds(root, nil)
	if !ok {
		t.Fatal("Expected measurable bounds")
	}
	if b.MinX != 40 || b.MaxX != 60 || b.MinY != 40 || b.MaxY != 60 {
		t.Errorf("Unexpected circle bounds: [%f, %f] x [%f, %f]", b.MinX, b.MaxX, b.MinY, b.MaxY)
	}
}

func TestSweepBoundsEmptyDocument(t *testing.T) {
	root := mustParse(t, `<svg><g/></svg>`)
	if _, ok := SweepBounds(root, nil); ok {
		t.Error("Nothing measurable must report ok=false")
	}
}

func TestSweepBoundsNestedTransforms(t *testing.T) {
	root := mustParse(t, `<svg><g transform="translate(100,0)"><rect x="0" y="0" width="10" height="10"/></g></svg>`)

	b, ok := SweepBounds(root, nil)
	if !ok {
		t.Fatal("Expected measurable bounds")
	}
	if b.MinX != 100 || b.MaxX != 110 {
		t.Errorf("Group transform must apply, got [%f, %f]", b.MinX, b.MaxX)
	}
}

func TestSweepBoundsIndefiniteRepeatStillFinite(t *testing.T) {
	// An indefinite repeat is forced to a single run during sampling.
	root := mustParse(t, `<svg><rect x="0" y="0" width="10" height="10"><animateTransform attributeName="transform" type="translate" from="0,0" to="50,0" begin="0s" dur="2s" repeatCount="indefinite"/></rect></svg>`)

	b, ok := SweepBounds(root, nil)
	if !ok {
		t.Fatal("Expected measurable bounds")
	}
	if b.MaxX < 59.9999 || b.MaxX > 60.0001 {
		t.Errorf("Expected the sweep to reach x=60 in one run, got %f", b.MaxX)
	}
}

func TestSweepBoundsLine(t *testing.T) {
	root := mustParse(t, `<svg><line x1="5" y1="5" x2="25" y2="15"/></svg>`)
	b, ok := SweepBounds(root, nil)
	if !ok {
		t.Fatal("Expected measurable bounds")
	}
	if b.MinX != 5 || b.MaxX != 25 || b.MinY != 5 || b.MaxY != 15 {
		t.Errorf("Unexpected line bounds: [%f, %f] x [%f, %f]", b.MinX, b.MaxX, b.MinY, b.MaxY)
	}
}
